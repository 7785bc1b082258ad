package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/hiring-assistant/internal/audit"
	"github.com/jonathan/hiring-assistant/internal/intake"
	"github.com/jonathan/hiring-assistant/internal/privacy"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS intake_sessions (
	id TEXT PRIMARY KEY,
	stage TEXT NOT NULL,
	ended BOOLEAN NOT NULL DEFAULT FALSE,
	data BYTEA NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_intake_sessions_updated ON intake_sessions(updated_at);

CREATE TABLE IF NOT EXISTS intake_candidates (
	session_id TEXT PRIMARY KEY,
	data BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS audit_log (
	id UUID PRIMARY KEY,
	session_id TEXT NOT NULL,
	interaction_type TEXT NOT NULL,
	data JSONB,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_log_session ON audit_log(session_id, created_at);
`

// PostgresStore implements Store on a PostgreSQL connection pool
type PostgresStore struct {
	pool  *pgxpool.Pool
	codec codec
}

// Connect establishes a connection pool and ensures the tables exist
func Connect(ctx context.Context, databaseURL string, sealer *privacy.Sealer) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &PostgresStore{pool: pool, codec: codec{sealer: sealer}}, nil
}

// GetSession loads a session by id
func (db *PostgresStore) GetSession(ctx context.Context, id string) (*intake.Session, error) {
	var data []byte
	err := db.pool.QueryRow(ctx, `SELECT data FROM intake_sessions WHERE id = $1`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return db.codec.session(data)
}

// SaveSession upserts a session
func (db *PostgresStore) SaveSession(ctx context.Context, s *intake.Session) error {
	data, err := db.codec.encode(s)
	if err != nil {
		return err
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO intake_sessions (id, stage, ended, data, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET stage = $2, ended = $3, data = $4, updated_at = $6`,
		s.ID, s.Stage.String(), s.Ended, data, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// DeleteSession removes a session and its candidate record
func (db *PostgresStore) DeleteSession(ctx context.Context, id string) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `DELETE FROM intake_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM intake_candidates WHERE session_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

// SaveCandidate upserts the finished record for a session
func (db *PostgresStore) SaveCandidate(ctx context.Context, sessionID string, rec *intake.CandidateRecord) error {
	data, err := db.codec.encode(rec)
	if err != nil {
		return err
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO intake_candidates (session_id, data) VALUES ($1, $2)
		 ON CONFLICT (session_id) DO UPDATE SET data = $2, updated_at = NOW()`,
		sessionID, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save candidate: %w", err)
	}
	return nil
}

// GetCandidate loads the record saved for a session
func (db *PostgresStore) GetCandidate(ctx context.Context, sessionID string) (*intake.CandidateRecord, error) {
	var data []byte
	err := db.pool.QueryRow(ctx, `SELECT data FROM intake_candidates WHERE session_id = $1`, sessionID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return db.codec.candidate(data)
}

// AppendAudit inserts an audit record
func (db *PostgresStore) AppendAudit(ctx context.Context, rec audit.Record) error {
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal audit data: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO audit_log (id, session_id, interaction_type, data, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.SessionID, rec.InteractionType, data, rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

// ListAudit returns a session's records oldest first. An empty id lists all.
func (db *PostgresStore) ListAudit(ctx context.Context, sessionID string) ([]audit.Record, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id::text, session_id, interaction_type, data, created_at
		 FROM audit_log WHERE $1 = '' OR session_id = $1
		 ORDER BY created_at`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	defer rows.Close()

	var out []audit.Record
	for rows.Next() {
		var rec audit.Record
		var data []byte
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.InteractionType, &data, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &rec.Data); err != nil {
				return nil, fmt.Errorf("failed to decode audit data: %w", err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// PurgeBefore deletes rows last updated before cutoff
func (db *PostgresStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`DELETE FROM intake_candidates
		 WHERE updated_at < $1 OR session_id IN (SELECT id FROM intake_sessions WHERE updated_at < $1)`,
		cutoff); err != nil {
		return 0, fmt.Errorf("failed to purge candidates: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM intake_sessions WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM audit_log WHERE created_at < $1`, cutoff); err != nil {
		return 0, fmt.Errorf("failed to purge audit log: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit purge: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Close closes the connection pool
func (db *PostgresStore) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}
