// Package session owns stored intake conversations. It loads a session,
// runs one turn through the stage machine and writes the result back, one
// turn at a time per session.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonathan/hiring-assistant/internal/intake"
	"github.com/jonathan/hiring-assistant/internal/privacy"
	"github.com/jonathan/hiring-assistant/internal/schemas"
	"github.com/jonathan/hiring-assistant/internal/store"
)

// ErrSessionEnded is returned for input sent to a session that was exited
var ErrSessionEnded = errors.New("session has ended")

// ErrNotFound is returned for unknown session ids
var ErrNotFound = store.ErrNotFound

// Result is a turn's reply plus session metadata
type Result struct {
	intake.Reply
	SessionID string `json:"session_id"`
	// Expired flags sessions older than the configured timeout. Advisory only.
	Expired bool `json:"expired"`
}

// Manager serialises turns per session against a Store
type Manager struct {
	machine *intake.Machine
	store   store.Store
	auditor privacy.Auditor
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock serialises turns on one session. refs counts holders and
// waiters; the entry is dropped when it reaches zero.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// Option customises a Manager
type Option func(*Manager)

// WithTimeout sets the advisory session timeout
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a Manager. auditor receives explicit deletion requests
// and may be nil.
func NewManager(machine *intake.Machine, st store.Store, auditor privacy.Auditor, opts ...Option) *Manager {
	m := &Manager{
		machine: machine,
		store:   st,
		auditor: auditor,
		logger:  slog.Default(),
		now:     time.Now,
		locks:   make(map[string]*sessionLock),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

func (m *Manager) lockCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

// Start creates a session, emits the greeting and stores it
func (m *Manager) Start(ctx context.Context) (Result, error) {
	s := m.machine.NewSession(ctx)
	reply := m.machine.ProcessMessage(ctx, s, "")
	if err := m.store.SaveSession(ctx, s); err != nil {
		return Result{}, fmt.Errorf("failed to save new session: %w", err)
	}
	m.logger.Info("session started", "session", privacy.HashForLog(s.ID))
	return m.result(s, reply), nil
}

// Handle runs one candidate message through the session's stage machine
func (m *Manager) Handle(ctx context.Context, id, input string) (Result, error) {
	unlock := m.lock(id)
	defer unlock()

	s, err := m.store.GetSession(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load session: %w", err)
	}
	if s.Ended {
		return Result{}, ErrSessionEnded
	}

	wasComplete := s.Complete()
	reply := m.machine.ProcessMessage(ctx, s, input)

	if reply.Deleted {
		if err := m.store.DeleteSession(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
			return Result{}, fmt.Errorf("failed to delete session: %w", err)
		}
		return m.result(s, reply), nil
	}

	if s.Complete() && !wasComplete {
		m.saveCandidate(ctx, s)
	}
	if err := m.store.SaveSession(ctx, s); err != nil {
		return Result{}, fmt.Errorf("failed to save session: %w", err)
	}
	return m.result(s, reply), nil
}

// saveCandidate validates and stores the finished record. A record that
// fails validation is logged and kept only inside the session.
func (m *Manager) saveCandidate(ctx context.Context, s *intake.Session) {
	if err := schemas.ValidateCandidate(&s.Candidate); err != nil {
		m.logger.Error("candidate record failed validation", "session", privacy.HashForLog(s.ID), "error", err)
		return
	}
	if err := m.store.SaveCandidate(ctx, s.ID, &s.Candidate); err != nil {
		m.logger.Error("failed to save candidate", "session", privacy.HashForLog(s.ID), "error", err)
	}
}

// Get returns the stored session
func (m *Manager) Get(ctx context.Context, id string) (*intake.Session, error) {
	s, err := m.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Expired reports whether s is past the advisory timeout
func (m *Manager) Expired(s *intake.Session) bool {
	return s.Expired(m.now(), m.timeout)
}

// Candidate returns the validated record stored when a session completed
func (m *Manager) Candidate(ctx context.Context, id string) (*intake.CandidateRecord, error) {
	return m.store.GetCandidate(ctx, id)
}

// Delete honours an explicit deletion request for a session
func (m *Manager) Delete(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()

	if err := m.store.DeleteSession(ctx, id); err != nil {
		return err
	}
	privacy.HandleDeletionRequest(ctx, m.auditor, id)
	m.logger.Info("session deleted", "session", privacy.HashForLog(id))
	return nil
}

// Purge removes data older than retention
func (m *Manager) Purge(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := m.now().Add(-retention)
	n, err := m.store.PurgeBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	m.logger.Info("retention purge finished", "removed", n, "cutoff", cutoff.Format(time.RFC3339))
	return n, nil
}

func (m *Manager) result(s *intake.Session, reply intake.Reply) Result {
	return Result{Reply: reply, SessionID: s.ID, Expired: m.Expired(s)}
}
