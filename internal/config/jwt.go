package config

import (
	"fmt"
)

// JWTConfig holds configuration for session token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// JWT returns the session token configuration. SESSION_SECRET (or
// session_secret in the file) is required.
func (c *Config) JWT() (*JWTConfig, error) {
	config := &JWTConfig{
		Secret:          c.SessionSecret,
		ExpirationHours: c.SessionTokenHours,
	}
	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("SESSION_SECRET cannot be empty")
	}
	if len(c.Secret) < 16 {
		return fmt.Errorf("SESSION_SECRET must be at least 16 characters, got: %d", len(c.Secret))
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("SESSION_TOKEN_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
