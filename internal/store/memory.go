package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jonathan/hiring-assistant/internal/audit"
	"github.com/jonathan/hiring-assistant/internal/intake"
	"github.com/jonathan/hiring-assistant/internal/privacy"
)

type blob struct {
	data      []byte
	updatedAt time.Time
}

// MemoryStore keeps everything in process. Values are stored encoded so a
// caller never shares a pointer with the store.
type MemoryStore struct {
	mu         sync.RWMutex
	codec      codec
	sessions   map[string]blob
	candidates map[string]blob
	audits     []audit.Record
	now        func() time.Time
}

// NewMemory creates an empty in-process store
func NewMemory(sealer *privacy.Sealer) *MemoryStore {
	return &MemoryStore{
		codec:      codec{sealer: sealer},
		sessions:   make(map[string]blob),
		candidates: make(map[string]blob),
		now:        time.Now,
	}
}

// GetSession returns a copy of the stored session
func (m *MemoryStore) GetSession(_ context.Context, id string) (*intake.Session, error) {
	m.mu.RLock()
	b, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return m.codec.session(b.data)
}

// SaveSession inserts or replaces a session
func (m *MemoryStore) SaveSession(_ context.Context, s *intake.Session) error {
	data, err := m.codec.encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sessions[s.ID] = blob{data: data, updatedAt: s.UpdatedAt}
	m.mu.Unlock()
	return nil
}

// DeleteSession removes a session and its candidate record
func (m *MemoryStore) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	delete(m.candidates, id)
	return nil
}

// SaveCandidate stores the finished record for a session
func (m *MemoryStore) SaveCandidate(_ context.Context, sessionID string, rec *intake.CandidateRecord) error {
	data, err := m.codec.encode(rec)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.candidates[sessionID] = blob{data: data, updatedAt: m.now()}
	m.mu.Unlock()
	return nil
}

// GetCandidate returns the record saved for a session
func (m *MemoryStore) GetCandidate(_ context.Context, sessionID string) (*intake.CandidateRecord, error) {
	m.mu.RLock()
	b, ok := m.candidates[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return m.codec.candidate(b.data)
}

// AppendAudit adds a record to the trail
func (m *MemoryStore) AppendAudit(_ context.Context, rec audit.Record) error {
	m.mu.Lock()
	m.audits = append(m.audits, rec)
	m.mu.Unlock()
	return nil
}

// ListAudit returns a session's records oldest first. An empty id lists all.
func (m *MemoryStore) ListAudit(_ context.Context, sessionID string) ([]audit.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []audit.Record
	for _, rec := range m.audits {
		if sessionID == "" || rec.SessionID == sessionID {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// PurgeBefore drops everything last touched before cutoff
func (m *MemoryStore) PurgeBefore(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, b := range m.sessions {
		if b.updatedAt.Before(cutoff) {
			delete(m.sessions, id)
			delete(m.candidates, id)
			removed++
		}
	}
	for id, b := range m.candidates {
		if b.updatedAt.Before(cutoff) {
			delete(m.candidates, id)
		}
	}
	kept := m.audits[:0]
	for _, rec := range m.audits {
		if !rec.Timestamp.Before(cutoff) {
			kept = append(kept, rec)
		}
	}
	m.audits = kept
	return removed, nil
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}
