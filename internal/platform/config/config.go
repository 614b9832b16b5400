// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to the gateway and the session storage via constructors.
  - Zero Hidden State: No global variables are used to store config.
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

// # Session Backends

const (
	// SessionBackendFile keeps the session in a JSON document on disk.
	SessionBackendFile = "file"

	// SessionBackendRedis keeps the session in Redis.
	SessionBackendRedis = "redis"
)

// # Configuration Schema

// Config holds all runtime configuration for the Dizesi client.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Debug       bool   `env:"DEBUG"       envDefault:"false"`

	// Remote REST API
	APIBaseURL     string        `env:"API_BASE_URL"    envDefault:"https://dizesi-backend.onrender.com/api"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`

	// PublicURL is the origin used to build shareable post links.
	PublicURL string `env:"PUBLIC_URL" envDefault:"https://dizesi.app"`

	// Durable session storage
	SessionBackend string `env:"SESSION_BACKEND" envDefault:"file"`
	SessionFile    string `env:"SESSION_FILE"`
	SessionPrefix  string `env:"SESSION_PREFIX"  envDefault:"dizesi:session:"`
	RedisURL       string `env:"REDIS_URL"`
}

// FakeAPIConfig holds the settings of the in-memory API used for development.
type FakeAPIConfig struct {
	Port        string `env:"FAKEAPI_PORT"  envDefault:"8000"`
	Environment string `env:"ENVIRONMENT"   envDefault:"development"`
	Debug       bool   `env:"DEBUG"         envDefault:"false"`

	JWTSecret string        `env:"FAKEAPI_JWT_SECRET" envDefault:"dizesi-dev-secret"`
	TokenTTL  time.Duration `env:"FAKEAPI_TOKEN_TTL"  envDefault:"24h"`

	AdminUsername string `env:"FAKEAPI_ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"FAKEAPI_ADMIN_PASSWORD" envDefault:"admin123"`
	AdminEmail    string `env:"FAKEAPI_ADMIN_EMAIL"    envDefault:"admin@dizesi.app"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Map environment variables to struct fields.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Default the session file next to the user's other config files.
	if cfg.SessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = os.TempDir()
		}
		cfg.SessionFile = filepath.Join(dir, "dizesi", "session.json")
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")

	return cfg, nil
}

// LoadFakeAPI parses environment variables into a [FakeAPIConfig] struct.
func LoadFakeAPI() (*FakeAPIConfig, error) {
	cfg := &FakeAPIConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	return cfg, nil
}

// validate rejects combinations env tags cannot express.
func (c *Config) validate() error {
	switch c.SessionBackend {
	case SessionBackendFile:
	case SessionBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config: REDIS_URL is required when SESSION_BACKEND=redis")
		}
	default:
		return fmt.Errorf("config: unknown SESSION_BACKEND %q", c.SessionBackend)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: REQUEST_TIMEOUT must be positive")
	}

	return nil
}

// IsDevelopment reports whether the client is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsDevelopment reports whether the fake API is running in development mode.
func (c *FakeAPIConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// AssetBaseURL is the API origin without its trailing "/api" segment,
// which is where uploaded images are served from.
func (c *Config) AssetBaseURL() string {
	return strings.TrimSuffix(c.APIBaseURL, "/api")
}
