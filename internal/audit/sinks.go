package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// SlogSink writes records as structured log lines
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink creates a sink on logger
func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger}
}

// Write logs the record at info level
func (s *SlogSink) Write(ctx context.Context, rec Record) error {
	s.logger.InfoContext(ctx, "audit",
		"id", rec.ID,
		"session", rec.SessionID,
		"interaction", rec.InteractionType,
		"data", rec.Data,
	)
	return nil
}

// Appender persists audit records. The store backends satisfy it.
type Appender interface {
	AppendAudit(ctx context.Context, rec Record) error
}

// StoreSink persists records through an Appender
type StoreSink struct {
	store Appender
}

// NewStoreSink creates a sink backed by store
func NewStoreSink(store Appender) *StoreSink {
	return &StoreSink{store: store}
}

// Write persists the record
func (s *StoreSink) Write(ctx context.Context, rec Record) error {
	return s.store.AppendAudit(ctx, rec)
}

// DefaultSubject is the NATS subject audit records are published on.
const DefaultSubject = "talentscout.intake.audit"

// NATSSink publishes records as JSON to a NATS subject
type NATSSink struct {
	conn    *nats.Conn
	subject string
}

// NewNATSSink connects to url and publishes on subject
func NewNATSSink(url, subject string, logger *slog.Logger) (*NATSSink, error) {
	if subject == "" {
		subject = DefaultSubject
	}
	opts := []nats.Option{
		nats.Name("hiring-assistant-audit"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NATSSink{conn: nc, subject: subject}, nil
}

// Write publishes the record
func (s *NATSSink) Write(_ context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}
	return s.conn.Publish(s.subject, payload)
}

// Close drains and closes the connection
func (s *NATSSink) Close() error {
	if err := s.conn.Drain(); err != nil {
		s.conn.Close()
		return err
	}
	return nil
}

// MemorySink keeps records in memory; used by the terminal chat and tests
type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

// NewMemorySink creates an empty sink
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Write appends the record
func (m *MemorySink) Write(_ context.Context, rec Record) error {
	m.mu.Lock()
	m.records = append(m.records, rec)
	m.mu.Unlock()
	return nil
}

// Records returns a copy of everything written so far
func (m *MemorySink) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}
