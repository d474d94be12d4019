package memory

import (
	"context"
	"sync"
	"time"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
)

// UserRepository is a mutex-guarded user table.
type UserRepository struct {
	mu         sync.RWMutex
	nextID     int64
	byID       map[int64]domain.User
	byUsername map[string]int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       make(map[int64]domain.User),
		byUsername: make(map[string]int64),
	}
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *UserRepository) Create(_ context.Context, username, passwordHash string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[username]; exists {
		return nil, domain.ErrDuplicateUsername
	}
	r.nextID++
	u := domain.User{
		ID:           r.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    domain.NormalizeTime(time.Now()),
	}
	r.byID[u.ID] = u
	r.byUsername[username] = u.ID
	return &u, nil
}

// Delete removes a user. Used by tests exercising orphaned sessions.
func (r *UserRepository) Delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.byID[id]; ok {
		delete(r.byUsername, u.Username)
		delete(r.byID, id)
	}
}
