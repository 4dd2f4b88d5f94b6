package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// SessionConfig holds configuration for the admin session cookie.
type SessionConfig struct {
	Secret   string
	TTLHours int
}

// NewSessionConfig creates a session configuration from environment variables.
// It reads SESSION_SECRET (required) and SESSION_TTL_HOURS (default: 12).
func NewSessionConfig() (*SessionConfig, error) {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required but not set")
	}

	ttlHours, err := ttlHoursFromEnv()
	if err != nil {
		return nil, err
	}

	config := &SessionConfig{
		Secret:   secret,
		TTLHours: ttlHours,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// SessionTTL reads SESSION_TTL_HOURS (default: 12) on its own, for callers
// that keep sessions without a cookie secret.
func SessionTTL() (time.Duration, error) {
	hours, err := ttlHoursFromEnv()
	if err != nil {
		return 0, err
	}
	if hours < 1 {
		return 0, fmt.Errorf("SESSION_TTL_HOURS must be at least 1 hour, got: %d", hours)
	}
	return time.Duration(hours) * time.Hour, nil
}

func ttlHoursFromEnv() (int, error) {
	ttlStr := os.Getenv("SESSION_TTL_HOURS")
	if ttlStr == "" {
		ttlStr = "12" // default
	}
	hours, err := strconv.Atoi(ttlStr)
	if err != nil {
		return 0, fmt.Errorf("invalid SESSION_TTL_HOURS: %v", err)
	}
	return hours, nil
}

// TTL returns the session lifetime.
func (c *SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// normalize validates the configuration.
func (c *SessionConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("SESSION_SECRET cannot be empty")
	}
	if len(c.Secret) < 16 {
		return fmt.Errorf("SESSION_SECRET must be at least 16 characters, got: %d", len(c.Secret))
	}
	if c.TTLHours < 1 {
		return fmt.Errorf("SESSION_TTL_HOURS must be at least 1 hour, got: %d", c.TTLHours)
	}
	return nil
}
