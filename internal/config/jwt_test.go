package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_DefaultValues(t *testing.T) {
	cfg := Default()
	cfg.SessionSecret = "test-secret-key-0123"

	jwtCfg, err := cfg.JWT()
	require.NoError(t, err)
	require.NotNil(t, jwtCfg)
	assert.Equal(t, "test-secret-key-0123", jwtCfg.Secret)
	assert.Equal(t, 24, jwtCfg.ExpirationHours, "should use default expiration of 24 hours")
}

func TestJWT_Errors(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		hours   int
		wantErr string
	}{
		{"missing secret", "", 24, "SESSION_SECRET cannot be empty"},
		{"short secret", "short", 24, "at least 16 characters"},
		{"zero hours", "test-secret-key-0123", 0, "SESSION_TOKEN_HOURS"},
		{"negative hours", "test-secret-key-0123", -5, "SESSION_TOKEN_HOURS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.SessionSecret = tt.secret
			cfg.SessionTokenHours = tt.hours

			jwtCfg, err := cfg.JWT()
			require.Error(t, err)
			assert.Nil(t, jwtCfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestJWT_FromEnv(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{
		"SESSION_SECRET":      "from-the-environment",
		"SESSION_TOKEN_HOURS": "2",
	})))

	jwtCfg, err := cfg.JWT()
	require.NoError(t, err)
	assert.Equal(t, "from-the-environment", jwtCfg.Secret)
	assert.Equal(t, 2, jwtCfg.ExpirationHours)
}
