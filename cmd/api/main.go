// @title        Expense Tracker API
// @version      1.0
// @description  Cookie-session authenticated expense tracking.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pocketledger/expense-tracker/internal/api"
	"github.com/pocketledger/expense-tracker/internal/api/metrics"
	"github.com/pocketledger/expense-tracker/internal/api/middleware"
	"github.com/pocketledger/expense-tracker/internal/core/service"
	"github.com/pocketledger/expense-tracker/internal/infrastructure/storage"
	"github.com/pocketledger/expense-tracker/internal/infrastructure/sweeper"
	"github.com/pocketledger/expense-tracker/internal/pkg/config"
	"github.com/pocketledger/expense-tracker/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "expense-api",
	})

	if err := run(cfg); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config) error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := backend.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("failed to close storage")
		}
	}()

	// --- Services ---
	credentials := service.NewCredentialStore(backend.Users, service.NewBcryptHasher(cfg.Auth.BcryptCost), log)
	authService := service.NewAuthService(credentials, backend.Sessions, log)
	expenseService := service.NewExpenseService(backend.Expenses, log)

	// --- Background jobs ---
	sw := sweeper.New(backend.Sessions, cfg.Session.SweepInterval, metrics.SessionsPurgedTotal, log)
	sw.Start(ctx)

	e := api.NewRouter(api.Deps{
		Auth:     authService,
		Expenses: expenseService,
		Checks:   backend.Checks,
		Cookie: middleware.SessionCookie{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			TTL:    cfg.Session.TTL,
		},
		Log: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("driver", backend.Driver).
			Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	sw.Wait()
	return nil
}
