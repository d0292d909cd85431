// Package config loads application configuration from an optional TOML file
// with environment-variable overrides.
//
// Precedence, lowest to highest: built-in defaults → TOML file → env vars.
// Deployments that only set PORT and JWT_SECRET need no file at all.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DatabaseConfig contains SQLite settings.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// AuthConfig contains token-signing settings.
//
// TokenTTLSeconds defaults to 30,000,000 (about 347 days) — there is no
// refresh flow, so tokens are long-lived on purpose.
type AuthConfig struct {
	JWTSecret       string `toml:"jwt_secret"`
	TokenTTLSeconds int64  `toml:"token_ttl_seconds"`
}

// Default returns the built-in defaults. The JWT secret has no default;
// Validate rejects a config without one.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Host: "", Port: 5000},
		Database: DatabaseConfig{Path: "data/songvault.db"},
		Auth:     AuthConfig{TokenTTLSeconds: 30_000_000},
	}
}

// Load reads configuration: defaults, then the TOML file at path (skipped
// when path is empty), then env overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overlays environment variables onto the config.
func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("TOKEN_TTL_SECONDS"); v != "" {
		ttl, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: invalid TOKEN_TTL_SECONDS %q: %w", v, err)
		}
		c.Auth.TokenTTLSeconds = ttl
	}
	return nil
}

// Validate checks that the config is runnable.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: jwt_secret is required (set JWT_SECRET or [auth] jwt_secret)")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Server.Port)
	}
	if c.Auth.TokenTTLSeconds <= 0 {
		return fmt.Errorf("config: token_ttl_seconds must be positive")
	}
	return nil
}

// TokenTTL returns the configured token lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLSeconds) * time.Second
}
