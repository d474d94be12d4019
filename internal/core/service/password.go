package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
)

// BcryptHasher implements ports.PasswordHasher with bcrypt. The salt is
// generated per hash and embedded in the encoded result.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, falling back to
// bcrypt.DefaultCost when cost is outside bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.NewValidationError("password", "must be at most 72 bytes")
		}
		return "", err
	}
	return string(hash), nil
}

// Compare returns nil when password matches hash. bcrypt compares the
// derived keys with subtle.ConstantTimeCompare.
func (h *BcryptHasher) Compare(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return domain.ErrInvalidCredentials
	}
	return nil
}
