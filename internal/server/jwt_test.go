package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hiring-assistant/internal/config"
)

const testSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func setupTestTokenService(_ *testing.T, expirationHours int) *TokenService {
	return NewTokenService(&config.JWTConfig{
		Secret:          testSecret,
		ExpirationHours: expirationHours,
	})
}

func TestTokenService_GenerateToken(t *testing.T) {
	service := setupTestTokenService(t, 24)

	token, err := service.GenerateToken("a1b2c3d4e5f60718")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	assert.Len(t, parts, 3, "JWT should have 3 parts separated by dots")

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3d4e5f60718", claims.SessionID)
	assert.Equal(t, "a1b2c3d4e5f60718", claims.GetSessionID())
}

func TestTokenService_GenerateToken_EmptySession(t *testing.T) {
	service := setupTestTokenService(t, 24)
	_, err := service.GenerateToken("")
	assert.Error(t, err)
}

func TestTokenService_ValidateToken_Expired(t *testing.T) {
	service := setupTestTokenService(t, 1)
	issued := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return issued }

	token, err := service.GenerateToken("a1b2c3d4e5f60718")
	require.NoError(t, err)

	service.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = service.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token expired")
}

func TestTokenService_ValidateToken_WrongSecret(t *testing.T) {
	token, err := setupTestTokenService(t, 24).GenerateToken("a1b2c3d4e5f60718")
	require.NoError(t, err)

	other := NewTokenService(&config.JWTConfig{Secret: "a-completely-different-secret", ExpirationHours: 24})
	_, err = other.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token signature")
}

func TestTokenService_ValidateToken_Malformed(t *testing.T) {
	service := setupTestTokenService(t, 24)

	_, err := service.ValidateToken("")
	assert.Error(t, err)

	_, err = service.ValidateToken("not-a-jwt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed token")
}

func TestTokenService_ValidateToken_WrongAlgorithm(t *testing.T) {
	service := setupTestTokenService(t, 24)
	claims := &Claims{
		SessionID: "a1b2c3d4e5f60718",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenService_ValidateToken_NoSession(t *testing.T) {
	service := setupTestTokenService(t, 24)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no session")
}

func TestTokenService_AsTokenValidator(t *testing.T) {
	service := setupTestTokenService(t, 24)
	token, err := service.GenerateToken("a1b2c3d4e5f60718")
	require.NoError(t, err)

	getter, err := service.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3d4e5f60718", getter.GetSessionID())

	_, err = service.AsTokenValidator().ValidateToken("bogus")
	assert.Error(t, err)
}
