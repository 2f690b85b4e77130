// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into strongly-typed
Go structs, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Two schemas live here: [Config] for the API server and [Client] for the
terminal client. Both are read-only once loaded and passed down through
constructors.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Server Configuration

// Config holds all runtime configuration for the API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath overrides the migrations embedded in the binary.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// CatalogCacheTTL bounds how long a cached listing collection is served.
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`

	// Cryptographic keys for access token signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required,notEmpty"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required,notEmpty"`

	// Object Storage (S3-compatible)
	S3Bucket        string `env:"S3_BUCKET"         envDefault:"listing-images"`
	S3Region        string `env:"S3_REGION"         envDefault:"auto"`
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3AccessKey     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey     string `env:"S3_SECRET_ACCESS_KEY"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`

	// Message broker (RabbitMQ). Events are disabled when empty.
	AMQPURL string `env:"AMQP_URL"`

	// PasswordResetURL is the client page that receives reset tokens.
	PasswordResetURL string `env:"PASSWORD_RESET_URL" envDefault:"https://toikana.kg/auth/reset"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"toikana.kg"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	// Fails if any field marked 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// OriginSuffix is the allowed CORS origin suffix outside development.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}

// # Client Configuration

// Client holds the configuration of the terminal client.
type Client struct {
	// APIURL is the base URL of the marketplace API.
	APIURL string `env:"MARKET_API_URL" envDefault:"http://localhost:8080/api/v1"`

	// StatePath is the local database holding session, drafts and language.
	StatePath string `env:"MARKET_STATE_PATH"`

	// Language overrides the remembered UI language for one run.
	Language string `env:"MARKET_LANG"`

	// Debug enables verbose logging to stderr.
	Debug bool `env:"MARKET_DEBUG" envDefault:"false"`

	// Timeout bounds every API call.
	Timeout time.Duration `env:"MARKET_TIMEOUT" envDefault:"15s"`
}

// LoadClient parses environment variables into a [Client] struct.
//
// StatePath defaults to a file in the user's config directory.
func LoadClient() (*Client, error) {
	cfg := &Client{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse client environment: %w", err)
	}

	if strings.TrimSpace(cfg.StatePath) == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = os.TempDir()
		}
		cfg.StatePath = filepath.Join(dir, "toikana", "state.db")
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return cfg, nil
}
