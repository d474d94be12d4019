package domain

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

// sessionIDBytes is the amount of entropy behind every session identifier.
const sessionIDBytes = 32

// Session binds an opaque identifier to an authenticated user.
type Session struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// NewSessionID returns a random base64url identifier (no padding).
func NewSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// SessionIDPrefix returns a short, non-secret prefix suitable for logs.
func SessionIDPrefix(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
