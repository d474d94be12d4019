package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTitleLength bounds expense titles in characters.
const MaxTitleLength = 200

// Expense is a single spending record owned by exactly one user.
type Expense struct {
	ID     int64     `json:"id"`
	UserID int64     `json:"userId"`
	Title  string    `json:"title"`
	Amount Money     `json:"amount"`
	Date   time.Time `json:"date"`
}

// Validate checks the invariants every stored expense must satisfy.
func (e *Expense) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return NewValidationError("title", "is required")
	}
	if utf8.RuneCountInString(e.Title) > MaxTitleLength {
		return NewValidationError("title", "must be at most 200 characters")
	}
	if e.Amount <= 0 {
		return NewValidationError("amount", "must be greater than 0")
	}
	return nil
}

// NormalizeTime converts t to UTC with millisecond precision, the finest
// resolution every backend stores losslessly.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
