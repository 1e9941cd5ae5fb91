// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	// CachePath is the SQLite file backing offline snapshots and settings.
	CachePath string
	// DatabaseURL is the Postgres DSN for online mode. Empty disables the
	// remote backend entirely (offline-only operation).
	DatabaseURL string
	// AuthBaseURL is the base URL of the auth service hosting sign-in and
	// the account-creation endpoint.
	AuthBaseURL string
	// OfflineOnly forces guest mode regardless of remote availability.
	OfflineOnly bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		CachePath:   getEnv("CACHE_PATH", "./data/fittrack.db"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		AuthBaseURL: getEnv("AUTH_BASE_URL", "http://localhost:3000"),
		OfflineOnly: getEnvBool("OFFLINE_ONLY", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.CachePath == "" {
		return fmt.Errorf("CACHE_PATH cannot be empty")
	}
	if !c.OfflineOnly && c.AuthBaseURL == "" {
		return fmt.Errorf("AUTH_BASE_URL cannot be empty unless OFFLINE_ONLY is set")
	}
	return nil
}

// RemoteEnabled reports whether online mode can be used at all.
func (c *Config) RemoteEnabled() bool {
	return !c.OfflineOnly && c.DatabaseURL != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
