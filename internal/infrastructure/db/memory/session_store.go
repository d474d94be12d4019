package memory

import (
	"context"
	"sync"
	"time"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
)

// SessionStore holds sessions in a map with absolute expiry.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]domain.Session

	// Now is the clock used for expiry decisions; tests may replace it.
	Now func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]domain.Session),
		Now:      time.Now,
	}
}

func (s *SessionStore) Create(_ context.Context, userID int64) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		id, err := domain.NewSessionID()
		if err != nil {
			return nil, err
		}
		if _, taken := s.sessions[id]; taken {
			continue
		}
		now := domain.NormalizeTime(s.Now())
		sess := domain.Session{ID: id, UserID: userID, CreatedAt: now, ExpiresAt: now.Add(s.ttl)}
		s.sessions[id] = sess
		return &sess, nil
	}
}

func (s *SessionStore) Load(_ context.Context, sessionID string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || sess.Expired(s.Now()) {
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *SessionStore) Destroy(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

func (s *SessionStore) PurgeExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	var n int64
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len reports the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
