package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"APP_ENV" envDefault:"development"`

	ServerHost         string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	ServerPort         string        `env:"SERVER_PORT" envDefault:"8000"`
	ServerReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	ServerWriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	ServerIdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL"`
	// AutoMigrate applies embedded migrations at startup
	AutoMigrate bool `env:"DATABASE_AUTO_MIGRATE" envDefault:"false"`

	CacheDriver    string        `env:"CACHE_DRIVER" envDefault:"none"`
	RedisURL       string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	CacheKeyPrefix string        `env:"CACHE_KEY_PREFIX" envDefault:"eda:"`
	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"30s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	CORSEnabled          bool     `env:"CORS_ENABLED" envDefault:"false"`
	CORSAllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	CORSAllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`

	// DefaultOrganizationID owns audit rules ingested without one
	DefaultOrganizationID int64 `env:"DEFAULT_ORGANIZATION_ID" envDefault:"1"`
}

// Custom errors
var (
	ErrMissingDatabaseURL    = errors.New("DATABASE_URL is required")
	ErrInvalidDatabaseDriver = errors.New("DATABASE_DRIVER must be postgres or sqlite")
	ErrInvalidCacheDriver    = errors.New("CACHE_DRIVER must be none, memory or redis")
	ErrInvalidLogFormat      = errors.New("LOG_FORMAT must be json or text")
	ErrInvalidOrganizationID = errors.New("DEFAULT_ORGANIZATION_ID must be positive")
)

// Load reads an optional .env file and then the process environment
func Load() (*Config, error) {
	// .env is optional; real environment variables win
	_ = godotenv.Load()
	return Parse()
}

// Parse builds the configuration from the environment alone
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))
	cfg.CacheDriver = strings.ToLower(strings.TrimSpace(cfg.CacheDriver))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.CORSAllowedOrigins = trimOrigins(cfg.CORSAllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return ErrInvalidDatabaseDriver
	}
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}

	switch c.CacheDriver {
	case "", "none", "memory", "redis":
	default:
		return ErrInvalidCacheDriver
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		return ErrInvalidLogFormat
	}

	if c.DefaultOrganizationID <= 0 {
		return ErrInvalidOrganizationID
	}
	return nil
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.ServerHost, c.ServerPort)
}

func trimOrigins(origins []string) []string {
	var out []string
	for _, origin := range origins {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}
