package ports

import (
	"context"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
)

// UserRepository persists user accounts. Username uniqueness is enforced by
// the backing store itself: Create returns domain.ErrDuplicateUsername when
// the name is taken, even under concurrent registrations.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, username, passwordHash string) (*domain.User, error)
}

// PasswordHasher turns plaintext passwords into salted one-way hashes and
// verifies them in constant time.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
