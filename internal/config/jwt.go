package config

import (
	"fmt"
)

// MinJWTSecretLength is the shortest accepted signing secret.
const MinJWTSecretLength = 16

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// JWT returns the token configuration, or an error when auth is misconfigured.
func (c *Config) JWT() (*JWTConfig, error) {
	jwt := &JWTConfig{
		Secret:          c.JWTSecret,
		ExpirationHours: c.JWTExpirationHours,
	}
	if jwt.ExpirationHours == 0 {
		jwt.ExpirationHours = DefaultJWTExpirationHours
	}
	if err := jwt.normalize(); err != nil {
		return nil, err
	}
	return jwt, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("jwt_secret cannot be empty")
	}
	if len(c.Secret) < MinJWTSecretLength {
		return fmt.Errorf("jwt_secret must be at least %d characters", MinJWTSecretLength)
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("jwt_expiration_hours must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
