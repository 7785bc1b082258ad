package audit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/jonathan/hiring-assistant/internal/privacy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSink struct{}

func (failingSink) Write(context.Context, Record) error { return errors.New("disk full") }

type fakeAppender struct {
	records []Record
}

func (f *fakeAppender) AppendAudit(_ context.Context, rec Record) error {
	f.records = append(f.records, rec)
	return nil
}

func TestLogger_HashesPII(t *testing.T) {
	sink := NewMemorySink()
	logger := NewLogger(nil, sink)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	logger.now = func() time.Time { return fixed }

	logger.Log(context.Background(), "sess-1", InteractionProfileCompleted, map[string]any{
		"name":       "Jane Doe",
		"email":      "jane@example.com",
		"phone":      "5551234567",
		"experience": 3.0,
	})

	require.Len(t, sink.Records(), 1)
	rec := sink.Records()[0]
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, fixed, rec.Timestamp)
	assert.Equal(t, "sess-1", rec.SessionID)
	assert.Equal(t, InteractionProfileCompleted, rec.InteractionType)
	assert.Equal(t, privacy.HashForLog("jane@example.com"), rec.Data["email_hash"])
	assert.Equal(t, 3.0, rec.Data["experience"])
	for _, raw := range []string{"name", "email", "phone"} {
		assert.NotContains(t, rec.Data, raw)
	}
}

func TestLogger_SinkFailureIsSwallowed(t *testing.T) {
	sink := NewMemorySink()
	var buf bytes.Buffer
	logger := NewLogger(slog.New(slog.NewTextHandler(&buf, nil)), failingSink{}, sink)

	assert.NotPanics(t, func() {
		logger.Log(context.Background(), "sess-1", InteractionConsentGiven, nil)
	})
	assert.Len(t, sink.Records(), 1)
	assert.Contains(t, buf.String(), "audit sink failed")
}

func TestLogger_NilIsNoop(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() {
		logger.Log(context.Background(), "sess", InteractionSessionStart, nil)
	})
}

func TestStoreSink(t *testing.T) {
	appender := &fakeAppender{}
	logger := NewLogger(nil)
	logger.AddSink(NewStoreSink(appender))

	logger.Log(context.Background(), "sess-2", InteractionDataDeletion, map[string]any{"status": "completed"})

	require.Len(t, appender.records, 1)
	assert.Equal(t, "completed", appender.records[0].Data["status"])
}

func TestSlogSink_NeverLogsRawPII(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(nil, NewSlogSink(slog.New(slog.NewJSONHandler(&buf, nil))))

	logger.Log(context.Background(), "sess-3", InteractionProfileCompleted, map[string]any{
		"email": "jane@example.com",
	})

	out := buf.String()
	assert.NotContains(t, out, "jane@example.com")
	assert.Contains(t, out, privacy.HashForLog("jane@example.com"))
	assert.Contains(t, out, `"interaction":"profile_completed"`)
}
