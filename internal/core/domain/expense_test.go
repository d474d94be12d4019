package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestExpense_Validate(t *testing.T) {
	valid := Expense{UserID: 1, Title: "Coffee", Amount: 450}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := map[string]Expense{
		"empty title": {Title: "", Amount: 1},
		"blank title": {Title: " \t", Amount: 1},
		"long title":  {Title: strings.Repeat("é", MaxTitleLength+1), Amount: 1},
		"zero amount": {Title: "x", Amount: 0},
		"negative":    {Title: "x", Amount: -1},
	}
	for name, e := range cases {
		if err := e.Validate(); !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", name, err)
		}
	}

	multibyte := Expense{Title: strings.Repeat("é", MaxTitleLength), Amount: 1}
	if err := multibyte.Validate(); err != nil {
		t.Fatalf("title limit must count characters, not bytes: %v", err)
	}
}

func TestNormalizeTime(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	in := time.Date(2026, 1, 1, 10, 0, 0, 123_456_789, loc)

	got := NormalizeTime(in)
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC, got %v", got.Location())
	}
	if got.Hour() != 8 || got.Nanosecond() != 123_000_000 {
		t.Fatalf("unexpected normalised time: %v", got)
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("amount", "must be greater than 0")
	if err.Error() != "amount must be greater than 0" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("ValidationError must match ErrValidation")
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("ValidationError must not match other sentinels")
	}
}
