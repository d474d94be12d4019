package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Storage drivers.
const (
	DriverMongo  = "mongo"  // users and expenses in MongoDB, sessions in Redis
	DriverSQLite = "sqlite" // everything in one SQLite file
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	StoreDriver    string        `env:"STORE_DRIVER,    default=mongo"`
	StorageTimeout time.Duration `env:"STORAGE_TIMEOUT, default=5s"`

	Mongo   MongoConfig
	Redis   RedisConfig
	SQLite  SQLiteConfig
	Session SessionConfig
	Auth    AuthConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=expense_tracker"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=expenses.db"`
}

type SessionConfig struct {
	TTL           time.Duration `env:"SESSION_TTL,            default=24h"`
	CookieName    string        `env:"SESSION_COOKIE_NAME,    default=sid"`
	CookieSecure  bool          `env:"COOKIE_SECURE,          default=false"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL, default=15m"`
}

type AuthConfig struct {
	BcryptCost int `env:"BCRYPT_COST, default=10"`
}

// IsDevelopment reports whether the service runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads an optional .env file and then the process environment.
// It panics when the configuration is invalid.
func Load() *Config {
	if err := LoadDotEnv(); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}

	cfg, err := Process(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadDotEnv copies variables from ./.env into the process environment
// without overriding ones already set. A missing file is not an error.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read .env: %w", err)
	}
	return nil
}

// Process builds a Config from lookuper and validates it.
func Process(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverSQLite:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverSQLite, c.StoreDriver)
	}
	if c.StorageTimeout <= 0 {
		return errors.New("STORAGE_TIMEOUT must be positive")
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		return errors.New("SESSION_SWEEP_INTERVAL must be positive")
	}
	if c.Session.CookieName == "" {
		return errors.New("SESSION_COOKIE_NAME must not be empty")
	}
	return nil
}
