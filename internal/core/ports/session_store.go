package ports

import (
	"context"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
)

// SessionStore is the durable source of truth for who is logged in.
type SessionStore interface {
	// Create persists a new session for userID under a fresh random identifier.
	Create(ctx context.Context, userID int64) (*domain.Session, error)
	// Load returns domain.ErrSessionNotFound for unknown and expired sessions alike.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)
	// Destroy removes the session. Destroying a missing session is not an error.
	Destroy(ctx context.Context, sessionID string) error
	// PurgeExpired deletes expired sessions and reports how many were removed.
	PurgeExpired(ctx context.Context) (int64, error)
}
