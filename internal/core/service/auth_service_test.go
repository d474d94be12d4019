package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
	"github.com/pocketledger/expense-tracker/internal/infrastructure/db/memory"
)

// brokenSessionStore fails every call the way an unreachable Redis would.
type brokenSessionStore struct{}

func (brokenSessionStore) Create(context.Context, int64) (*domain.Session, error) {
	return nil, errDriver
}
func (brokenSessionStore) Load(context.Context, string) (*domain.Session, error) {
	return nil, errDriver
}
func (brokenSessionStore) Destroy(context.Context, string) error       { return errDriver }
func (brokenSessionStore) PurgeExpired(context.Context) (int64, error) { return 0, errDriver }

type authFixture struct {
	svc      *AuthService
	users    *memory.UserRepository
	sessions *memory.SessionStore
	clock    time.Time
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:    memory.NewUserRepository(),
		sessions: memory.NewSessionStore(time.Hour),
		clock:    time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	f.sessions.Now = func() time.Time { return f.clock }
	creds := NewCredentialStore(f.users, NewBcryptHasher(bcrypt.MinCost), zerolog.Nop())
	f.svc = NewAuthService(creds, f.sessions, zerolog.Nop())
	return f
}

func TestRegister_ThenLoginResolvesSameUser(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	registered, regSess, err := f.svc.Register(ctx, "alice", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if regSess == nil || regSess.ID == "" {
		t.Fatalf("register must establish a session")
	}

	_, sess, err := f.svc.Login(ctx, "alice", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.ID == regSess.ID {
		t.Fatalf("login must issue a fresh session id")
	}

	u, err := f.svc.ResolveCurrentUser(ctx, sess.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if u.ID != registered.ID {
		t.Fatalf("expected user %d, got %d", registered.ID, u.ID)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	if _, _, err := f.svc.Register(ctx, "alice", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := f.svc.Register(ctx, "alice", "pw2"); !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestRegister_SessionFailureKeepsUser(t *testing.T) {
	users := memory.NewUserRepository()
	creds := NewCredentialStore(users, NewBcryptHasher(bcrypt.MinCost), zerolog.Nop())
	svc := NewAuthService(creds, brokenSessionStore{}, zerolog.Nop())

	_, _, err := svc.Register(context.Background(), "alice", "pw")
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if _, err := users.FindByUsername(context.Background(), "alice"); err != nil {
		t.Fatalf("user should persist after a failed session insert: %v", err)
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	if _, _, err := f.svc.Register(ctx, "alice", "secret123"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, wrongPassword := f.svc.Login(ctx, "alice", "nope")
	_, _, unknownUser := f.svc.Login(ctx, "mallory", "secret123")

	if !errors.Is(wrongPassword, domain.ErrInvalidCredentials) || !errors.Is(unknownUser, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", wrongPassword, unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Fatalf("error messages differ: %q vs %q", wrongPassword, unknownUser)
	}
}

func TestLogin_EmptyCredentials(t *testing.T) {
	f := newAuthFixture()

	if _, _, err := f.svc.Login(context.Background(), "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogout_IsIdempotent(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, sess, err := f.svc.Register(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := f.svc.Logout(ctx, sess.ID); err != nil {
			t.Fatalf("logout #%d: %v", i+1, err)
		}
	}
	if err := f.svc.Logout(ctx, "never-issued"); err != nil {
		t.Fatalf("logout of unknown session: %v", err)
	}
	if err := f.svc.Logout(ctx, ""); err != nil {
		t.Fatalf("logout without session: %v", err)
	}

	if _, err := f.svc.ResolveCurrentUser(ctx, sess.ID); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after logout, got %v", err)
	}
}

func TestResolveCurrentUser_Expiry(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, sess, err := f.svc.Register(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	f.clock = f.clock.Add(59 * time.Minute)
	if _, err := f.svc.ResolveCurrentUser(ctx, sess.ID); err != nil {
		t.Fatalf("session should still be valid: %v", err)
	}

	f.clock = f.clock.Add(time.Minute)
	if _, err := f.svc.ResolveCurrentUser(ctx, sess.ID); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated at expiry, got %v", err)
	}

	if err := f.svc.Logout(ctx, sess.ID); err != nil {
		t.Fatalf("logout of expired session: %v", err)
	}
}

func TestResolveCurrentUser_MissingAndUnknown(t *testing.T) {
	f := newAuthFixture()

	for _, id := range []string{"", "forged-token"} {
		if _, err := f.svc.ResolveCurrentUser(context.Background(), id); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("%q: expected ErrUnauthenticated, got %v", id, err)
		}
	}
}

func TestResolveCurrentUser_OrphanedSessionIsDropped(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	u, sess, err := f.svc.Register(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	f.users.Delete(u.ID)

	if _, err := f.svc.ResolveCurrentUser(ctx, sess.ID); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if f.sessions.Len() != 0 {
		t.Fatalf("orphaned session should have been destroyed")
	}
}

func TestResolveCurrentUser_StorageFailure(t *testing.T) {
	creds := NewCredentialStore(memory.NewUserRepository(), NewBcryptHasher(bcrypt.MinCost), zerolog.Nop())
	svc := NewAuthService(creds, brokenSessionStore{}, zerolog.Nop())

	_, err := svc.ResolveCurrentUser(context.Background(), "abc")
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("storage failures must not look like a logged-out user")
	}
}
