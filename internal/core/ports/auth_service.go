package ports

import (
	"context"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
)

// AuthService registers and authenticates users and resolves sessions.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, *domain.Session, error)
	Login(ctx context.Context, username, password string) (*domain.User, *domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
	ResolveCurrentUser(ctx context.Context, sessionID string) (*domain.User, error)
}
