package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jonathan/hiring-assistant/internal/audit"
	"github.com/jonathan/hiring-assistant/internal/intake"
	"github.com/jonathan/hiring-assistant/internal/privacy"
)

// SQLiteStore implements Store on a local SQLite file
type SQLiteStore struct {
	db    *sql.DB
	codec codec
	now   func() time.Time
}

// NewSQLite opens (creating if needed) the database at path
func NewSQLite(path string, sealer *privacy.Sealer) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer avoids SQLITE_BUSY between concurrent sessions
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db, codec: codec{sealer: sealer}, now: time.Now}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS intake_sessions (
		id TEXT PRIMARY KEY,
		stage TEXT NOT NULL,
		ended INTEGER NOT NULL DEFAULT 0,
		data BLOB NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_intake_sessions_updated ON intake_sessions(updated_at);

	CREATE TABLE IF NOT EXISTS intake_candidates (
		session_id TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS audit_log (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		interaction_type TEXT NOT NULL,
		data TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_session ON audit_log(session_id, created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// GetSession loads a session by id
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*intake.Session, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM intake_sessions WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s.codec.session(data)
}

// SaveSession upserts a session
func (s *SQLiteStore) SaveSession(ctx context.Context, sess *intake.Session) error {
	data, err := s.codec.encode(sess)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
	INSERT INTO intake_sessions (id, stage, ended, data, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		stage = excluded.stage,
		ended = excluded.ended,
		data = excluded.data,
		updated_at = excluded.updated_at`,
		sess.ID, sess.Stage.String(), sess.Ended, data,
		sess.CreatedAt.UnixNano(), sess.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// DeleteSession removes a session and its candidate record
func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM intake_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM intake_candidates WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// SaveCandidate upserts the finished record for a session
func (s *SQLiteStore) SaveCandidate(ctx context.Context, sessionID string, rec *intake.CandidateRecord) error {
	data, err := s.codec.encode(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
	INSERT INTO intake_candidates (session_id, data, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(session_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		sessionID, data, s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save candidate: %w", err)
	}
	return nil
}

// GetCandidate loads the record saved for a session
func (s *SQLiteStore) GetCandidate(ctx context.Context, sessionID string) (*intake.CandidateRecord, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM intake_candidates WHERE session_id = ?`, sessionID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return s.codec.candidate(data)
}

// AppendAudit inserts an audit record
func (s *SQLiteStore) AppendAudit(ctx context.Context, rec audit.Record) error {
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal audit data: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, session_id, interaction_type, data, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.InteractionType, string(data), rec.Timestamp.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

// ListAudit returns a session's records oldest first. An empty id lists all.
func (s *SQLiteStore) ListAudit(ctx context.Context, sessionID string) ([]audit.Record, error) {
	query := `SELECT id, session_id, interaction_type, data, created_at FROM audit_log`
	var args []any
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY created_at, rowid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	defer rows.Close()

	var out []audit.Record
	for rows.Next() {
		var (
			rec     audit.Record
			data    sql.NullString
			created int64
		)
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.InteractionType, &data, &created); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		if data.Valid && data.String != "" && data.String != "null" {
			if err := json.Unmarshal([]byte(data.String), &rec.Data); err != nil {
				return nil, fmt.Errorf("failed to decode audit data: %w", err)
			}
		}
		rec.Timestamp = time.Unix(0, created).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// PurgeBefore deletes rows last updated before cutoff
func (s *SQLiteStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	ts := cutoff.UnixNano()
	if _, err := tx.ExecContext(ctx, `
	DELETE FROM intake_candidates
	WHERE updated_at < ? OR session_id IN (SELECT id FROM intake_sessions WHERE updated_at < ?)`, ts, ts); err != nil {
		return 0, fmt.Errorf("failed to purge candidates: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM intake_sessions WHERE updated_at < ?`, ts)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM audit_log WHERE created_at < ?`, ts); err != nil {
		return 0, fmt.Errorf("failed to purge audit log: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit purge: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
