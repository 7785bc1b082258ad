package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jonathan/hiring-assistant/internal/intake"
	"github.com/jonathan/hiring-assistant/internal/privacy"
	"github.com/jonathan/hiring-assistant/internal/session"
)

// maxMessageBytes bounds a message request body
const maxMessageBytes = 64 << 10

type messageRequest struct {
	Message *string `json:"message"`
}

type createSessionResponse struct {
	session.Result
	Token string `json:"token"`
}

type sessionView struct {
	SessionID string                 `json:"session_id"`
	Stage     intake.Stage           `json:"stage"`
	Progress  intake.Progress        `json:"progress"`
	Consent   bool                   `json:"consent"`
	Ended     bool                   `json:"ended"`
	Expired   bool                   `json:"expired"`
	Candidate intake.CandidateRecord `json:"candidate"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

func (s *Server) view(sess *intake.Session) sessionView {
	return sessionView{
		SessionID: sess.ID,
		Stage:     sess.Stage,
		Progress:  sess.Progress(),
		Consent:   sess.Consent,
		Ended:     sess.Ended,
		Expired:   s.sessions.Expired(sess),
		Candidate: sess.Candidate,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePrivacy(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"notice":         privacy.PrivacyNotice(s.notice),
		"contact":        s.notice.Contact,
		"retention_days": s.notice.RetentionDays,
	})
}

// handleCreateSession starts a conversation and returns its greeting with
// the token that authorises every later call for it.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	result, err := s.sessions.Start(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	token, err := s.tokens.GenerateToken(result.SessionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, createSessionResponse{Result: result, Token: token})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMessageBytes)

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "message too large")
			return
		}
		s.writeError(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if req.Message == nil {
		s.writeError(w, &ErrValidation{Field: "message", Message: "required"})
		return
	}

	result, err := s.sessions.Handle(r.Context(), chi.URLParam(r, "id"), *req.Message)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.view(sess))
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"session_id": sess.ID,
		"messages":   sess.Messages,
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"deleted": true,
		"message": privacy.DeletionAcknowledgment(s.notice.Company),
	})
}
