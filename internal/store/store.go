// Package store persists intake sessions, finished candidate records and the
// audit trail. Session and candidate blobs are JSON, optionally sealed.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/hiring-assistant/internal/audit"
	"github.com/jonathan/hiring-assistant/internal/intake"
	"github.com/jonathan/hiring-assistant/internal/privacy"
)

// ErrNotFound is returned when a session or candidate does not exist
var ErrNotFound = errors.New("not found")

// Store is the persistence layer behind the session manager
type Store interface {
	GetSession(ctx context.Context, id string) (*intake.Session, error)
	SaveSession(ctx context.Context, s *intake.Session) error
	// DeleteSession removes the session and any candidate record saved for it
	DeleteSession(ctx context.Context, id string) error

	SaveCandidate(ctx context.Context, sessionID string, rec *intake.CandidateRecord) error
	GetCandidate(ctx context.Context, sessionID string) (*intake.CandidateRecord, error)

	AppendAudit(ctx context.Context, rec audit.Record) error
	ListAudit(ctx context.Context, sessionID string) ([]audit.Record, error)

	// PurgeBefore deletes sessions and candidate records last updated before
	// cutoff, plus older audit records. It returns the number of sessions removed.
	PurgeBefore(ctx context.Context, cutoff time.Time) (int, error)

	Close() error
}

// Open selects a backend from dsn:
//
//	""  or "memory"                  in-process map
//	postgres://... or postgresql://  PostgreSQL through pgx
//	sqlite://path, file:path, *.db   SQLite
func Open(ctx context.Context, dsn string, sealer *privacy.Sealer) (Store, error) {
	switch {
	case dsn == "" || dsn == "memory":
		return NewMemory(sealer), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return Connect(ctx, dsn, sealer)
	case strings.HasPrefix(dsn, "sqlite://"):
		return NewSQLite(strings.TrimPrefix(dsn, "sqlite://"), sealer)
	case strings.HasPrefix(dsn, "file:"):
		return NewSQLite(strings.TrimPrefix(dsn, "file:"), sealer)
	case strings.HasSuffix(dsn, ".db"), strings.HasSuffix(dsn, ".sqlite"):
		return NewSQLite(dsn, sealer)
	default:
		return nil, fmt.Errorf("unrecognised store dsn %q", dsn)
	}
}

// codec turns sessions and candidates into sealed blobs
type codec struct {
	sealer *privacy.Sealer
}

func (c codec) encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal: %w", err)
	}
	sealed, err := c.sealer.Seal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to seal: %w", err)
	}
	return sealed, nil
}

func (c codec) decode(blob []byte, v any) error {
	data, err := c.sealer.Open(blob)
	if err != nil {
		return fmt.Errorf("failed to unseal: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal: %w", err)
	}
	return nil
}

func (c codec) session(blob []byte) (*intake.Session, error) {
	var s intake.Session
	if err := c.decode(blob, &s); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return &s, nil
}

func (c codec) candidate(blob []byte) (*intake.CandidateRecord, error) {
	var rec intake.CandidateRecord
	if err := c.decode(blob, &rec); err != nil {
		return nil, fmt.Errorf("candidate: %w", err)
	}
	return &rec, nil
}
