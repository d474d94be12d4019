package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
)

const (
	sessionKeyPrefix = "session:"
	maxIDAttempts    = 3
)

// SessionStore keeps sessions as JSON values under session:<id> with a
// native TTL, so Redis itself garbage-collects expired entries.
type SessionStore struct {
	client  *redis.Client
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time
}

// sessionRecord is the stored representation. Times are unix milliseconds.
type sessionRecord struct {
	UserID    int64 `json:"user_id"`
	CreatedAt int64 `json:"created_at"`
	ExpiresAt int64 `json:"expires_at"`
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client, ttl, timeout time.Duration) *SessionStore {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &SessionStore{client: client, ttl: ttl, timeout: timeout, now: time.Now}
}

// Create stores a session with SET NX so an identifier is never reused.
func (s *SessionStore) Create(ctx context.Context, userID int64) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := domain.NewSessionID()
		if err != nil {
			return nil, err
		}
		now := domain.NormalizeTime(s.now())
		sess := &domain.Session{ID: id, UserID: userID, CreatedAt: now, ExpiresAt: now.Add(s.ttl)}

		payload, err := json.Marshal(sessionRecord{
			UserID:    userID,
			CreatedAt: sess.CreatedAt.UnixMilli(),
			ExpiresAt: sess.ExpiresAt.UnixMilli(),
		})
		if err != nil {
			return nil, fmt.Errorf("encode session: %w", err)
		}

		ok, err := s.client.SetNX(ctx, s.key(id), payload, s.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("store session: %w", err)
		}
		if ok {
			return sess, nil
		}
	}
	return nil, errors.New("store session: exhausted id attempts")
}

// Load returns domain.ErrSessionNotFound for missing or expired sessions.
func (s *SessionStore) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	sess := &domain.Session{
		ID:        sessionID,
		UserID:    rec.UserID,
		CreatedAt: time.UnixMilli(rec.CreatedAt).UTC(),
		ExpiresAt: time.UnixMilli(rec.ExpiresAt).UTC(),
	}
	if sess.Expired(s.now()) {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// Destroy deletes the key; DEL on a missing key is not an error.
func (s *SessionStore) Destroy(ctx context.Context, sessionID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpired is a no-op: keys carry their own TTL.
func (s *SessionStore) PurgeExpired(context.Context) (int64, error) {
	return 0, nil
}

func (s *SessionStore) key(sessionID string) string {
	return sessionKeyPrefix + sessionID
}
