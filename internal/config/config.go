// Package config loads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const minSecretLength = 16

// Config holds every tunable of the server.
type Config struct {
	Port int `env:"PORT,default=8080"`

	// DBDriver is "sqlite" or "postgres". DBDSN is a file path for SQLite and
	// a connection URL for PostgreSQL.
	DBDriver string `env:"DB_DRIVER,default=sqlite"`
	DBDSN    string `env:"DB_DSN,default=./data/circles.db"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL,default=24h"`

	// CircleQuota is how many circles one user may own.
	CircleQuota int `env:"CIRCLE_QUOTA,default=2"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	// AuthRateLimit is the sustained number of Register/Login calls allowed
	// per client per minute; AuthRateBurst is the bucket size.
	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT,default=20"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST,default=5"`

	AllowedOrigin string `env:"CORS_ALLOWED_ORIGIN,default=*"`
}

// Load reads envFile (if non-empty) into the process environment without
// overriding variables that are already set, then decodes and validates the
// configuration. A missing default ".env" is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !(envFile == ".env" && errors.Is(err, os.ErrNotExist)) {
				return nil, fmt.Errorf("load env file %s: %w", envFile, err)
			}
		}
	}

	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that have no safe default.
func (c *Config) Validate() error {
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength)
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.CircleQuota <= 0 {
		return errors.New("CIRCLE_QUOTA must be positive")
	}
	if c.AuthRateLimit <= 0 || c.AuthRateBurst <= 0 {
		return errors.New("AUTH_RATE_LIMIT and AUTH_RATE_BURST must be positive")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
