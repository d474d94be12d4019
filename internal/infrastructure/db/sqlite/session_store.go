package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
)

// maxIDAttempts bounds retries on the (practically impossible) event of a
// session ID collision.
const maxIDAttempts = 3

// SessionStore implements ports.SessionStore on the sessions table.
type SessionStore struct {
	db  *DB
	ttl time.Duration
	now func() time.Time
}

func NewSessionStore(db *DB, ttl time.Duration) *SessionStore {
	return &SessionStore{db: db, ttl: ttl, now: time.Now}
}

func (s *SessionStore) Create(ctx context.Context, userID int64) (*domain.Session, error) {
	ctx, cancel := s.db.withTimeout(ctx)
	defer cancel()

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := domain.NewSessionID()
		if err != nil {
			return nil, err
		}
		now := domain.NormalizeTime(s.now())
		sess := &domain.Session{ID: id, UserID: userID, CreatedAt: now, ExpiresAt: now.Add(s.ttl)}

		_, err = s.db.conn.ExecContext(ctx,
			"INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)",
			sess.ID, sess.UserID, toMillis(sess.CreatedAt), toMillis(sess.ExpiresAt))
		if err == nil {
			return sess, nil
		}
		if !isConstraint(err) {
			return nil, fmt.Errorf("insert session: %w", err)
		}
	}
	return nil, errors.New("insert session: exhausted id attempts")
}

func (s *SessionStore) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	ctx, cancel := s.db.withTimeout(ctx)
	defer cancel()

	var (
		sess                 = domain.Session{ID: sessionID}
		createdAt, expiresAt int64
	)
	err := s.db.conn.QueryRowContext(ctx,
		"SELECT user_id, created_at, expires_at FROM sessions WHERE id = ? AND expires_at > ?",
		sessionID, toMillis(s.now())).
		Scan(&sess.UserID, &createdAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	sess.CreatedAt = fromMillis(createdAt)
	sess.ExpiresAt = fromMillis(expiresAt)
	return &sess, nil
}

func (s *SessionStore) Destroy(ctx context.Context, sessionID string) error {
	ctx, cancel := s.db.withTimeout(ctx)
	defer cancel()

	if _, err := s.db.conn.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	ctx, cancel := s.db.withTimeout(ctx)
	defer cancel()

	res, err := s.db.conn.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", toMillis(s.now()))
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return res.RowsAffected()
}
