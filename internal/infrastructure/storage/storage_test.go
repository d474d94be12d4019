package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
	"github.com/pocketledger/expense-tracker/internal/pkg/config"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		StoreDriver:    config.DriverSQLite,
		StorageTimeout: 5 * time.Second,
	}
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "expenses.db")
	cfg.Session.TTL = time.Hour
	return cfg
}

func TestOpen_SQLiteBackendIsUsable(t *testing.T) {
	ctx := context.Background()
	b, err := Open(ctx, sqliteConfig(t), zerolog.Nop())
	require.NoError(t, err)
	defer func() { require.NoError(t, b.Close(ctx)) }()

	assert.Equal(t, config.DriverSQLite, b.Driver)
	require.Len(t, b.Checks, 1)
	assert.Equal(t, "sqlite", b.Checks[0].Name)
	require.NoError(t, b.Checks[0].Ping(ctx))

	u, err := b.Users.Create(ctx, "alice", "hash")
	require.NoError(t, err)

	sess, err := b.Sessions.Create(ctx, u.ID)
	require.NoError(t, err)
	loaded, err := b.Sessions.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, loaded.UserID)

	e := &domain.Expense{UserID: u.ID, Title: "Coffee", Amount: 450, Date: domain.NormalizeTime(time.Now())}
	require.NoError(t, b.Expenses.Create(ctx, e))
	items, err := b.Expenses.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.StoreDriver = "postgres"

	_, err := Open(context.Background(), cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "unknown driver")
}
