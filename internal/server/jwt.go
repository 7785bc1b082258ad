package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jonathan/hiring-assistant/internal/config"
	"github.com/jonathan/hiring-assistant/internal/server/middleware"
)

// Claims binds a token to one intake session.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// GetSessionID implements middleware.SessionIDGetter.
func (c *Claims) GetSessionID() string {
	return c.SessionID
}

// AsTokenValidator returns a TokenValidator adapter for this TokenService.
// This allows the TokenService to be used with middleware without creating import cycles.
func (s *TokenService) AsTokenValidator() middleware.TokenValidator {
	return &tokenServiceValidator{service: s}
}

type tokenServiceValidator struct {
	service *TokenService
}

func (v *tokenServiceValidator) ValidateToken(tokenString string) (middleware.SessionIDGetter, error) {
	claims, err := v.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// TokenService issues and checks session tokens.
type TokenService struct {
	config *config.JWTConfig
	now    func() time.Time
}

// NewTokenService creates a token service with the given configuration.
func NewTokenService(cfg *config.JWTConfig) *TokenService {
	return &TokenService{
		config: cfg,
		now:    time.Now,
	}
}

// GenerateToken generates a token for the given session id.
func (s *TokenService) GenerateToken(sessionID string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("session id is empty")
	}
	now := s.now()
	expiresAt := now.Add(time.Duration(s.config.ExpirationHours) * time.Hour)

	claims := &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken validates a token and returns its claims.
func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrSignatureInvalid), errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("invalid token signature: %w", err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("token expired: %w", err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("malformed token: %w", err)
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	if claims.SessionID == "" {
		return nil, fmt.Errorf("token has no session")
	}
	return claims, nil
}
