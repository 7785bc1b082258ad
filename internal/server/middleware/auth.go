// Package middleware provides HTTP middleware for session token checks.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// sessionIDKey is the context key for the session a token was issued for.
const sessionIDKey ContextKey = "sessionID"

// TokenQueryParam carries the token for clients that cannot set headers,
// such as browser WebSocket connections.
const TokenQueryParam = "access_token"

// TokenValidator validates session tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (SessionIDGetter, error)
}

// SessionIDGetter extracts the session id from token claims.
type SessionIDGetter interface {
	GetSessionID() string
}

// AuthMiddleware validates the bearer token and adds its session id to the
// request context. A token in the access_token query parameter is accepted
// when no Authorization header is sent.
func AuthMiddleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionIDKey, claims.GetSessionID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		token := strings.TrimSpace(r.URL.Query().Get(TokenQueryParam))
		return token, token != ""
	}

	// Handle case-insensitive "Bearer" prefix
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// GetSessionID extracts the authenticated session id from the request context.
func GetSessionID(r *http.Request) (string, error) {
	id, ok := r.Context().Value(sessionIDKey).(string)
	if !ok || id == "" {
		return "", fmt.Errorf("session ID not found in request context")
	}
	return id, nil
}

// SessionIDKey returns the context key for the session id (for testing purposes).
func SessionIDKey() ContextKey {
	return sessionIDKey
}
