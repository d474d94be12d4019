package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
	"github.com/pocketledger/expense-tracker/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

var errDriver = errors.New("connection refused")

// brokenUserRepo fails every call the way an unreachable database would.
type brokenUserRepo struct{}

func (brokenUserRepo) FindByID(context.Context, int64) (*domain.User, error) { return nil, errDriver }
func (brokenUserRepo) FindByUsername(context.Context, string) (*domain.User, error) {
	return nil, errDriver
}
func (brokenUserRepo) Create(context.Context, string, string) (*domain.User, error) {
	return nil, errDriver
}

// countingHasher records how often Compare runs.
type countingHasher struct {
	*BcryptHasher
	mu       sync.Mutex
	compares int
}

func (h *countingHasher) Compare(hash, password string) error {
	h.mu.Lock()
	h.compares++
	h.mu.Unlock()
	return h.BcryptHasher.Compare(hash, password)
}

func newTestCredentialStore() (*CredentialStore, *memory.UserRepository) {
	repo := memory.NewUserRepository()
	return NewCredentialStore(repo, NewBcryptHasher(bcrypt.MinCost), zerolog.Nop()), repo
}

// ---------------------------------------------------------------------------
// CreateUser
// ---------------------------------------------------------------------------

func TestCreateUser_HashesPassword(t *testing.T) {
	store, _ := newTestCredentialStore()

	u, err := store.CreateUser(context.Background(), "alice", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID <= 0 {
		t.Fatalf("expected a positive id, got %d", u.ID)
	}
	if u.PasswordHash == "" || u.PasswordHash == "secret123" {
		t.Fatalf("password stored in plaintext or missing: %q", u.PasswordHash)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")) != nil {
		t.Fatalf("hash does not verify")
	}
}

func TestCreateUser_TrimsUsername(t *testing.T) {
	store, _ := newTestCredentialStore()

	u, err := store.CreateUser(context.Background(), "  alice ", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Username != "alice" {
		t.Fatalf("expected trimmed username, got %q", u.Username)
	}
	if _, err := store.CreateUser(context.Background(), "alice", "other"); !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected duplicate after trim, got %v", err)
	}
}

func TestCreateUser_Validation(t *testing.T) {
	cases := []struct {
		name, username, password, field string
	}{
		{"empty username", "", "pw", "username"},
		{"blank username", "   ", "pw", "username"},
		{"long username", strings.Repeat("u", domain.MaxUsernameLength+1), "pw", "username"},
		{"empty password", "alice", "", "password"},
		{"long password", "alice", strings.Repeat("p", domain.MaxPasswordLength+1), "password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, _ := newTestCredentialStore()
			_, err := store.CreateUser(context.Background(), tc.username, tc.password)

			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, ve.Field)
			}
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("ValidationError must match ErrValidation")
			}
		})
	}
}

func TestCreateUser_ConcurrentDuplicate(t *testing.T) {
	store, _ := newTestCredentialStore()

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		dupes     int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.CreateUser(context.Background(), "bob", "pw")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrDuplicateUsername):
				dupes++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 || dupes != attempts-1 {
		t.Fatalf("expected exactly one success, got %d successes and %d duplicates", successes, dupes)
	}
}

func TestCreateUser_StorageFailure(t *testing.T) {
	store := NewCredentialStore(brokenUserRepo{}, NewBcryptHasher(bcrypt.MinCost), zerolog.Nop())

	_, err := store.CreateUser(context.Background(), "alice", "pw")
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if !errors.Is(err, errDriver) {
		t.Fatalf("expected driver cause to stay in the chain")
	}
}

// ---------------------------------------------------------------------------
// Lookups and Verify
// ---------------------------------------------------------------------------

func TestGetUser_NotFound(t *testing.T) {
	store, _ := newTestCredentialStore()

	if _, err := store.GetUserByID(context.Background(), 99); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := store.GetUserByUsername(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetUser_StorageFailure(t *testing.T) {
	store := NewCredentialStore(brokenUserRepo{}, NewBcryptHasher(bcrypt.MinCost), zerolog.Nop())

	if _, err := store.GetUserByID(context.Background(), 1); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestVerify(t *testing.T) {
	store, _ := newTestCredentialStore()
	created, err := store.CreateUser(context.Background(), "alice", "secret123")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	u, err := store.Verify(context.Background(), "alice", "secret123")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if u.ID != created.ID {
		t.Fatalf("expected id %d, got %d", created.ID, u.ID)
	}

	if _, err := store.Verify(context.Background(), "alice", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerify_UnknownUserStillComparesHash(t *testing.T) {
	hasher := &countingHasher{BcryptHasher: NewBcryptHasher(bcrypt.MinCost)}
	store := NewCredentialStore(memory.NewUserRepository(), hasher, zerolog.Nop())

	_, err := store.Verify(context.Background(), "ghost", "whatever")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if hasher.compares != 1 {
		t.Fatalf("expected one hash comparison for an unknown user, got %d", hasher.compares)
	}
}
