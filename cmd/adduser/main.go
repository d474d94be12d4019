// Command adduser creates an account directly in the configured store, for
// seeding users without going through the HTTP API.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/pocketledger/expense-tracker/internal/core/domain"
	"github.com/pocketledger/expense-tracker/internal/core/service"
	"github.com/pocketledger/expense-tracker/internal/infrastructure/storage"
	"github.com/pocketledger/expense-tracker/internal/pkg/config"
	"github.com/pocketledger/expense-tracker/pkg/logger"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err := run(context.Background(), os.Args[1:], envconfig.OsLookuper(), os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, env envconfig.Lookuper, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("adduser", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("user", "", "Username")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	dbPath := fs.String("db", "", "Path to a SQLite database file (forces STORE_DRIVER=sqlite)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*username) == "" {
		fmt.Fprintln(stdout, "Usage: adduser --user <username> [--password <password>] [--db <db_path>]")
		fs.PrintDefaults()
		return errors.New("missing required flags: user")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	cfg, err := config.Process(ctx, env)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if *dbPath != "" {
		cfg.StoreDriver = config.DriverSQLite
		cfg.SQLite.Path = *dbPath
	}

	log := logger.New(logger.Options{Level: "warn", Output: stderr})

	backend, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() { _ = backend.Close(ctx) }()

	credentials := service.NewCredentialStore(backend.Users, service.NewBcryptHasher(cfg.Auth.BcryptCost), log)

	user, err := credentials.CreateUser(ctx, *username, password)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return fmt.Errorf("user %s already exists", strings.TrimSpace(*username))
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %d\n", user.Username, user.ID)
	return nil
}

// readPassword reads without echo from a terminal, or one line otherwise.
func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
