package domain

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in minor currency units (cents).
type Money int64

// centsPerUnit is the number of minor units in one major unit.
const centsPerUnit = 100

// ParseMoney parses a decimal amount such as "19.99", "-3" or "4.5" into
// minor units without going through floating point. At most two fraction
// digits are accepted.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, NewValidationError("amount", "is required")
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	whole, frac, hasDot := strings.Cut(s, ".")
	if whole == "" && (!hasDot || frac == "") {
		return 0, NewValidationError("amount", "must be a decimal number")
	}
	if !allDigits(whole) || !allDigits(frac) {
		return 0, NewValidationError("amount", "must be a decimal number")
	}
	if len(frac) > 2 {
		return 0, NewValidationError("amount", "must have at most two decimal places")
	}
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(orZero(whole), 10, 64)
	if err != nil || units > (math.MaxInt64-99)/centsPerUnit {
		return 0, NewValidationError("amount", "is out of range")
	}
	cents, _ := strconv.ParseInt(frac, 10, 64)

	m := Money(units*centsPerUnit + cents)
	if neg {
		m = -m
	}
	return m, nil
}

// Cents returns the amount in minor units.
func (m Money) Cents() int64 { return int64(m) }

// String formats the amount with exactly two fraction digits.
func (m Money) String() string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/centsPerUnit, v%centsPerUnit)
}

// MarshalJSON encodes the amount as a JSON number literal, e.g. 19.99.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	v, err := ParseMoney(string(data))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
