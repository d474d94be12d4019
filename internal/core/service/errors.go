package service

import (
	"errors"
	"fmt"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
)

// unavailable translates an unexpected repository failure into
// domain.ErrStorageUnavailable. The driver error stays in the chain for
// logging but never decides the response.
func unavailable(op string, err error) error {
	if errors.Is(err, domain.ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}
