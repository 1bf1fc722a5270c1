package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_DefaultExpiration(t *testing.T) {
	cfg := &Config{JWTSecret: "0123456789abcdef"}
	jwt, err := cfg.JWT()
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef", jwt.Secret)
	assert.Equal(t, DefaultJWTExpirationHours, jwt.ExpirationHours)
}

func TestJWT_CustomExpiration(t *testing.T) {
	cfg := &Config{JWTSecret: "0123456789abcdef", JWTExpirationHours: 2}
	jwt, err := cfg.JWT()
	require.NoError(t, err)
	assert.Equal(t, 2, jwt.ExpirationHours)
}

func TestJWT_MissingSecret(t *testing.T) {
	_, err := (&Config{}).JWT()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret cannot be empty")
}

func TestJWT_InvalidExpiration(t *testing.T) {
	_, err := (&Config{JWTSecret: "0123456789abcdef", JWTExpirationHours: -1}).JWT()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 1 hour")
}

func TestJWT_FromEnvironment(t *testing.T) {
	t.Setenv("DOSSIER_JWT_SECRET", "from-the-environment")
	t.Setenv("DOSSIER_JWT_EXPIRATION_HOURS", "48")

	cfg, err := Load("")
	require.NoError(t, err)
	jwt, err := cfg.JWT()
	require.NoError(t, err)
	assert.Equal(t, "from-the-environment", jwt.Secret)
	assert.Equal(t, 48, jwt.ExpirationHours)
}
