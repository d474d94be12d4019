// Package storage builds the storage context the process runs on: one
// Backend, opened once at startup and handed to every service.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/pocketledger/expense-tracker/internal/core/ports"
	mongodb "github.com/pocketledger/expense-tracker/internal/infrastructure/db/mongo"
	redisdb "github.com/pocketledger/expense-tracker/internal/infrastructure/db/redis"
	"github.com/pocketledger/expense-tracker/internal/infrastructure/db/sqlite"
	"github.com/pocketledger/expense-tracker/internal/infrastructure/http/handlers"
	"github.com/pocketledger/expense-tracker/internal/pkg/config"
)

// Backend groups the repositories and the session store of one driver.
type Backend struct {
	Driver   string
	Users    ports.UserRepository
	Expenses ports.ExpenseRepository
	Sessions ports.SessionStore
	// Checks are the readiness probes for every connection the backend owns.
	Checks []handlers.Check

	closers []func(context.Context) error
}

// Close releases every connection in reverse order of opening.
func (b *Backend) Close(ctx context.Context) error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open connects the driver selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Backend, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return openMongo(ctx, cfg, log)
	case config.DriverSQLite:
		return openSQLite(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.StoreDriver)
	}
}

func openMongo(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Backend, error) {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.StorageTimeout,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.StorageTimeout,
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")

	return &Backend{
		Driver:   config.DriverMongo,
		Users:    mongodb.NewUserRepository(db, cfg.StorageTimeout),
		Expenses: mongodb.NewExpenseRepository(db, cfg.StorageTimeout),
		Sessions: redisdb.NewSessionStore(rdb, cfg.Session.TTL, cfg.StorageTimeout),
		Checks: []handlers.Check{
			{Name: "mongodb", Ping: func(ctx context.Context) error {
				return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
			}},
			{Name: "redis", Ping: func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			}},
		},
		closers: []func(context.Context) error{
			client.Disconnect,
			func(context.Context) error { return rdb.Close() },
		},
	}, nil
}

func openSQLite(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Backend, error) {
	db, err := sqlite.Open(ctx, sqlite.Config{
		Path:    cfg.SQLite.Path,
		Timeout: cfg.StorageTimeout,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", cfg.SQLite.Path).Msg("opened SQLite database")

	return &Backend{
		Driver:   config.DriverSQLite,
		Users:    sqlite.NewUserRepository(db),
		Expenses: sqlite.NewExpenseRepository(db),
		Sessions: sqlite.NewSessionStore(db, cfg.Session.TTL),
		Checks: []handlers.Check{
			{Name: "sqlite", Ping: db.Ping},
		},
		closers: []func(context.Context) error{
			func(context.Context) error { return db.Close() },
		},
	}, nil
}
