// Package audit records candidate interaction events with PII hashed before
// any sink sees it.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hiring-assistant/internal/privacy"
)

// Interaction types written by the conversation machine
const (
	InteractionSessionStart      = "session_start"
	InteractionConsentGiven      = "consent_given"
	InteractionProfileCompleted  = "profile_completed"
	InteractionAssessmentDone    = "assessment_completed"
	InteractionConversationEnded = "conversation_ended"
	InteractionDataDeletion      = privacy.InteractionDataDeletion
)

// Record is one audit entry
type Record struct {
	ID              string         `json:"id"`
	Timestamp       time.Time      `json:"timestamp"`
	SessionID       string         `json:"session_id"`
	InteractionType string         `json:"interaction_type"`
	Data            map[string]any `json:"data"`
}

// Sink receives audit records
type Sink interface {
	Write(ctx context.Context, rec Record) error
}

// Logger hashes PII and fans records out to every sink. Sink failures are
// logged and never returned, so auditing cannot break a conversation.
type Logger struct {
	sinks  []Sink
	logger *slog.Logger
	now    func() time.Time
}

// NewLogger creates a Logger writing to sinks
func NewLogger(logger *slog.Logger, sinks ...Sink) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{sinks: sinks, logger: logger, now: time.Now}
}

// AddSink appends a sink
func (l *Logger) AddSink(s Sink) {
	l.sinks = append(l.sinks, s)
}

// Log records an interaction. PII keys in data are replaced by hashes.
func (l *Logger) Log(ctx context.Context, sessionID, interactionType string, data map[string]any) {
	if l == nil {
		return
	}
	rec := Record{
		ID:              uuid.NewString(),
		Timestamp:       l.now().UTC(),
		SessionID:       sessionID,
		InteractionType: interactionType,
		Data:            privacy.RedactPII(data),
	}
	for _, s := range l.sinks {
		if err := s.Write(ctx, rec); err != nil {
			l.logger.Warn("audit sink failed", "interaction", interactionType, "session", sessionID, "error", err)
		}
	}
}
