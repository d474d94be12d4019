package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
	"github.com/pocketledger/expense-tracker/internal/core/ports"
)

// CredentialStore owns user records and password verification. Plaintext
// passwords only ever pass through Hash and Compare.
type CredentialStore struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewCredentialStore(repo ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *CredentialStore {
	return &CredentialStore{repo: repo, hasher: hasher, log: log}
}

// GetUserByID returns domain.ErrUserNotFound when no user has id.
func (s *CredentialStore) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, unavailable("get user by id", err)
	}
	return u, nil
}

// GetUserByUsername returns domain.ErrUserNotFound when the name is unknown.
func (s *CredentialStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := s.repo.FindByUsername(ctx, normalizeUsername(username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, unavailable("get user by username", err)
	}
	return u, nil
}

// CreateUser validates the credentials, hashes the password and persists
// the user. Duplicate names fail with domain.ErrDuplicateUsername.
func (s *CredentialStore) CreateUser(ctx context.Context, username, password string) (*domain.User, error) {
	username = normalizeUsername(username)
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.repo.Create(ctx, username, hash)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, unavailable("create user", err)
	}

	s.log.Info().Int64("user_id", u.ID).Str("username", u.Username).Msg("user created")
	return u, nil
}

// Verify checks username and password. Unknown users and wrong passwords
// both yield domain.ErrInvalidCredentials after one hash comparison each.
func (s *CredentialStore) Verify(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		_ = s.hasher.Compare(s.dummy(), password)
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

// dummy returns a hash of a fixed throwaway password, used to spend the same
// work on unknown usernames as on real ones.
func (s *CredentialStore) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("no-such-user-placeholder")
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to build placeholder hash")
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

func normalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

func validateCredentials(username, password string) error {
	switch {
	case username == "":
		return domain.NewValidationError("username", "is required")
	case len(username) > domain.MaxUsernameLength:
		return domain.NewValidationError("username", "must be at most 64 bytes")
	case password == "":
		return domain.NewValidationError("password", "is required")
	case len(password) > domain.MaxPasswordLength:
		return domain.NewValidationError("password", "must be at most 72 bytes")
	}
	return nil
}
