package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
	"github.com/pocketledger/expense-tracker/internal/core/ports"
)

// AuthService implements registration, login, logout and session resolution.
type AuthService struct {
	credentials *CredentialStore
	sessions    ports.SessionStore
	log         zerolog.Logger
}

func NewAuthService(credentials *CredentialStore, sessions ports.SessionStore, log zerolog.Logger) *AuthService {
	return &AuthService{credentials: credentials, sessions: sessions, log: log}
}

// Register creates the account and logs it in. When the session cannot be
// created the account still exists; the caller gets ErrStorageUnavailable
// and can simply log in again.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, *domain.Session, error) {
	user, err := s.credentials.CreateUser(ctx, username, password)
	if err != nil {
		return nil, nil, err
	}

	sess, err := s.startSession(ctx, user)
	if err != nil {
		s.log.Warn().Err(err).Int64("user_id", user.ID).Msg("user registered but session creation failed")
		return nil, nil, err
	}
	return user, sess, nil
}

// Login never reveals whether the username or the password was wrong.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, *domain.Session, error) {
	if username == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.credentials.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.log.Info().Msg("login rejected")
		}
		return nil, nil, err
	}

	sess, err := s.startSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, sess, nil
}

// Logout destroys the session. Unknown, expired and empty IDs are no-ops.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return unavailable("destroy session", err)
	}
	s.log.Debug().Str("session", domain.SessionIDPrefix(sessionID)).Msg("session destroyed")
	return nil
}

// ResolveCurrentUser is the gate in front of every protected operation.
func (s *AuthService) ResolveCurrentUser(ctx context.Context, sessionID string) (*domain.User, error) {
	if sessionID == "" {
		return nil, domain.ErrUnauthenticated
	}

	sess, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, unavailable("load session", err)
	}

	user, err := s.credentials.GetUserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// The owner is gone; drop the orphaned session.
			if derr := s.sessions.Destroy(ctx, sessionID); derr != nil {
				s.log.Warn().Err(derr).Int64("user_id", sess.UserID).Msg("failed to destroy orphaned session")
			}
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) startSession(ctx context.Context, user *domain.User) (*domain.Session, error) {
	sess, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, unavailable("create session", err)
	}
	s.log.Info().
		Int64("user_id", user.ID).
		Str("session", domain.SessionIDPrefix(sess.ID)).
		Msg("session started")
	return sess, nil
}
