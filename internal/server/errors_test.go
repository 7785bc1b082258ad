package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/hiring-assistant/internal/session"
	"github.com/jonathan/hiring-assistant/internal/store"
)

func TestErrForbidden(t *testing.T) {
	err := &ErrForbidden{SessionID: "abc"}
	assert.Equal(t, "token does not grant access to session abc", err.Error())
	assert.Equal(t, http.StatusForbidden, HTTPStatus(err))
}

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "message", Message: "required"}
	assert.Equal(t, "validation error: message - required", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", &ErrValidation{Field: "message"}, http.StatusBadRequest},
		{"unauthorized", &ErrUnauthorized{}, http.StatusUnauthorized},
		{"forbidden", &ErrForbidden{}, http.StatusForbidden},
		{"not found", store.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("failed to load session: %w", store.ErrNotFound), http.StatusNotFound},
		{"ended", session.ErrSessionEnded, http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
