// Package config loads the application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSecretKey is the development signing secret. It is rejected in production.
const DefaultSecretKey = "your-secret-key-change-in-production"

// Environments recognised by APP_ENV.
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	// ErrDefaultSecret is returned when production runs with the development secret.
	ErrDefaultSecret = errors.New("JWT_SECRET_KEY must be set in production")
	// ErrUnknownDriver is returned for a DB_DRIVER other than sqlite or postgres.
	ErrUnknownDriver = errors.New("unknown database driver")
	// ErrUnknownEnv is returned for an APP_ENV outside the known set.
	ErrUnknownEnv = errors.New("unknown environment")
)

// Config holds the application configuration.
type Config struct {
	Env             string        `env:"APP_ENV"          envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT"        envDefault:"3000"`
	LogLevel        string        `env:"LOG_LEVEL"        envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	Database DatabaseConfig
	JWT      JWTConfig
	Cache    CacheConfig

	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

// DatabaseConfig selects and configures the SQL backend.
type DatabaseConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite"`
	DSN    string `env:"DB_DSN"    envDefault:"tasks.db"`
	Debug  bool   `env:"DB_DEBUG"`
}

// JWTConfig configures session token signing.
type JWTConfig struct {
	SecretKey string        `env:"JWT_SECRET_KEY" envDefault:"your-secret-key-change-in-production"`
	Issuer    string        `env:"JWT_ISSUER"     envDefault:"task-tracker"`
	TokenTTL  time.Duration `env:"JWT_TOKEN_TTL"  envDefault:"24h"`
}

// CacheConfig configures the optional Redis task cache. An empty address disables it.
type CacheConfig struct {
	RedisAddr string        `env:"REDIS_ADDR"`
	Prefix    string        `env:"CACHE_PREFIX" envDefault:"tracker:"`
	TTL       time.Duration `env:"CACHE_TTL"    envDefault:"5m"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints env tags cannot express.
func (c Config) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvTest, EnvStaging, EnvProduction:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEnv, c.Env)
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Database.Driver)
	}

	if c.IsProductionLike() && c.JWT.SecretKey == DefaultSecretKey {
		return ErrDefaultSecret
	}
	if c.JWT.SecretKey == "" {
		return errors.New("JWT_SECRET_KEY must not be empty")
	}
	if c.JWT.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TOKEN_TTL must be positive, got %s", c.JWT.TokenTTL)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT out of range: %d", c.HTTPPort)
	}
	return nil
}

// IsProductionLike reports whether destructive utilities must be disabled.
func (c Config) IsProductionLike() bool {
	return IsProductionLike(c.Env)
}

// IsProductionLike reports whether env names a production-like deployment.
func IsProductionLike(env string) bool {
	return env != EnvDevelopment && env != EnvTest
}

// CacheEnabled reports whether a Redis address was configured.
func (c Config) CacheEnabled() bool {
	return c.Cache.RedisAddr != ""
}
