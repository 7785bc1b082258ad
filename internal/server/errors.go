package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/hiring-assistant/internal/session"
	"github.com/jonathan/hiring-assistant/internal/store"
)

// ErrForbidden indicates a token issued for a different session
type ErrForbidden struct {
	SessionID string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("token does not grant access to session %s", e.SessionID)
}

// ErrUnauthorized indicates a missing or invalid token
type ErrUnauthorized struct{}

func (e *ErrUnauthorized) Error() string {
	return "unauthorized"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation   *ErrValidation
		forbidden    *ErrForbidden
		unauthorized *ErrUnauthorized
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrSessionEnded):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
