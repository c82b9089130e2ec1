package config

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/hkdf"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"

	envProduction = "production"

	flashKeyInfo = "dealership flash notices"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=1h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	FlashKey  string        `env:"FLASH_KEY"`

	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Login    LoginConfig
	Audit    AuditConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=cse_motors"`
}

type PostgresConfig struct {
	DSN string `env:"POSTGRES_DSN, default=postgres://localhost:5432/cse_motors?sslmode=disable"`
}

// RedisConfig backs login throttling. An empty Addr disables it.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type LoginConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	Lockout     time.Duration `env:"LOGIN_LOCKOUT,      default=15m"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom is Load over an arbitrary lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.FlashKey == "" {
		key, err := deriveFlashKey(cfg.JWTSecret)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		cfg.FlashKey = key
	}
	return &cfg, nil
}

// deriveFlashKey expands the token secret into an unrelated notice-cookie
// key for development runs without FLASH_KEY. The token secret itself is
// never used as the cookie key.
func deriveFlashKey(secret string) (string, error) {
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(flashKeyInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return "", fmt.Errorf("derive FLASH_KEY: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch {
	case c.FlashKey == "" && c.IsProduction():
		errs = append(errs, errors.New("FLASH_KEY is required in production"))
	case c.FlashKey != "" && c.FlashKey == c.JWTSecret:
		errs = append(errs, errors.New("FLASH_KEY must differ from JWT_SECRET"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL))
	}
	switch c.StoreDriver {
	case DriverMongo, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if c.Login.MaxAttempts <= 0 {
		errs = append(errs, errors.New("LOGIN_MAX_ATTEMPTS must be positive"))
	}
	if c.Audit.Workers <= 0 {
		errs = append(errs, errors.New("AUDIT_WORKERS must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// IsProduction switches on Secure cookies and JSON logs.
func (c *Config) IsProduction() bool {
	return c.Env == envProduction
}

// ThrottleEnabled reports whether a redis address was configured.
func (c *Config) ThrottleEnabled() bool {
	return c.Redis.Addr != ""
}
