package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hiring-assistant/internal/audit"
	"github.com/jonathan/hiring-assistant/internal/intake"
	"github.com/jonathan/hiring-assistant/internal/questions"
	"github.com/jonathan/hiring-assistant/internal/store"
)

type fixedSupplier struct {
	set questions.QuestionSet
}

func (f fixedSupplier) Supply(context.Context, []string, float64, int) questions.QuestionSet {
	return f.set
}

var start = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	mgr   *Manager
	store *store.MemoryStore
	trail *audit.MemorySink
	clock *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := start
	clock := func() time.Time { return now }

	st := store.NewMemory(nil)
	trail := audit.NewMemorySink()
	auditor := audit.NewLogger(nil, trail, audit.NewStoreSink(st))

	set := questions.QuestionSet{
		{Technology: "Go", Questions: []string{"What is a goroutine?", "Explain select."}},
	}
	machine := intake.NewMachine(intake.DefaultOptions(), nil, fixedSupplier{set: set}, auditor, intake.WithClock(clock))
	mgr := NewManager(machine, st, auditor, WithClock(clock), WithTimeout(time.Hour))
	return &fixture{mgr: mgr, store: st, trail: trail, clock: &now}
}

func (f *fixture) send(t *testing.T, id string, inputs ...string) Result {
	t.Helper()
	var res Result
	var err error
	for _, in := range inputs {
		res, err = f.mgr.Handle(context.Background(), id, in)
		require.NoError(t, err, "input %q", in)
	}
	return res
}

func TestManager_StartGreetsAndStores(t *testing.T) {
	f := newFixture(t)
	res, err := f.mgr.Start(context.Background())
	require.NoError(t, err)

	assert.Len(t, res.SessionID, 16)
	assert.Contains(t, res.Text, "Welcome to TalentScout")
	assert.Equal(t, intake.StageConsent, res.Stage)
	assert.False(t, res.Expired)

	s, err := f.mgr.Get(context.Background(), res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, intake.StageConsent, s.Stage)
	require.Len(t, s.Messages, 1)
	assert.Equal(t, intake.RoleAssistant, s.Messages[0].Role)
}

func TestManager_CompletedConversationSavesCandidate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.mgr.Start(ctx)
	require.NoError(t, err)
	id := res.SessionID

	f.send(t, id, "continue", "I consent", "Ada Lovelace", "ada@example.com", "+44 20 7946 0958", "4", "Go", "ready")
	_, err = f.mgr.Candidate(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)

	res = f.send(t, id, "A cheap thread managed by the runtime", "It waits on channels")
	assert.Equal(t, intake.StageCompletion, res.Stage)

	rec, err := f.mgr.Candidate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", rec.Name)
	assert.Len(t, rec.Answers, 2)
	assert.Contains(t, rec.Answers, "Go_0")
	assert.Contains(t, rec.Answers, "Go_1")

	recs, err := f.store.ListAudit(ctx, id)
	require.NoError(t, err)
	var types []string
	for _, r := range recs {
		types = append(types, r.InteractionType)
	}
	assert.Equal(t, []string{
		audit.InteractionSessionStart,
		audit.InteractionConsentGiven,
		audit.InteractionProfileCompleted,
		audit.InteractionAssessmentDone,
	}, types)
}

func TestManager_EndedSessionRejectsInput(t *testing.T) {
	f := newFixture(t)
	res, err := f.mgr.Start(context.Background())
	require.NoError(t, err)

	res = f.send(t, res.SessionID, "bye")
	assert.True(t, res.Ended)

	_, err = f.mgr.Handle(context.Background(), res.SessionID, "hello?")
	assert.ErrorIs(t, err, ErrSessionEnded)

	// The ended session is still readable
	s, err := f.mgr.Get(context.Background(), res.SessionID)
	require.NoError(t, err)
	assert.True(t, s.Ended)
}

func TestManager_DeletionPhraseRemovesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.mgr.Start(ctx)
	require.NoError(t, err)
	id := res.SessionID

	f.send(t, id, "continue", "I consent", "Ada Lovelace")
	res = f.send(t, id, "please delete my data")
	assert.True(t, res.Deleted)
	assert.True(t, res.Ended)

	_, err = f.mgr.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	recs := f.trail.Records()
	require.NotEmpty(t, recs)
	assert.Equal(t, audit.InteractionDataDeletion, recs[len(recs)-1].InteractionType)
}

func TestManager_ExplicitDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.mgr.Start(ctx)
	require.NoError(t, err)

	require.NoError(t, f.mgr.Delete(ctx, res.SessionID))
	_, err = f.mgr.Get(ctx, res.SessionID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.mgr.Delete(ctx, res.SessionID), ErrNotFound)

	recs := f.trail.Records()
	assert.Equal(t, audit.InteractionDataDeletion, recs[len(recs)-1].InteractionType)
}

func TestManager_UnknownSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.Handle(context.Background(), "nope", "hi")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_ExpiryIsAdvisory(t *testing.T) {
	f := newFixture(t)
	res, err := f.mgr.Start(context.Background())
	require.NoError(t, err)

	*f.clock = start.Add(2 * time.Hour)
	res = f.send(t, res.SessionID, "continue")
	assert.True(t, res.Expired)
	assert.False(t, res.Ended)
	assert.Equal(t, intake.StageInfoCollection, res.Stage)
}

func TestManager_ConcurrentTurnsAreSerialised(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.mgr.Start(ctx)
	require.NoError(t, err)
	id := res.SessionID
	f.send(t, id, "continue", "I consent")

	// Each turn appends exactly one user and one assistant message
	before, err := f.mgr.Get(ctx, id)
	require.NoError(t, err)

	var wg sync.WaitGroup
	const turns = 8
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = f.mgr.Handle(ctx, id, fmt.Sprintf("x%d", i))
		}(i)
	}
	wg.Wait()

	after, err := f.mgr.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, after.Messages, len(before.Messages)+2*turns)
	assert.Zero(t, f.mgr.lockCount())
}

func TestManager_LocksAreReleasedAfterEveryTurn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Ended by an exit keyword
	res, err := f.mgr.Start(ctx)
	require.NoError(t, err)
	f.send(t, res.SessionID, "bye")
	_, err = f.mgr.Handle(ctx, res.SessionID, "hello?")
	assert.ErrorIs(t, err, ErrSessionEnded)

	// Completed assessment that keeps accepting input
	res, err = f.mgr.Start(ctx)
	require.NoError(t, err)
	res = f.send(t, res.SessionID, "continue", "I consent", "Ada Lovelace", "ada@example.com",
		"+44 20 7946 0958", "5", "Go", "ready", "Lightweight threads", "Waits on channels", "anything")
	assert.Equal(t, intake.StageCompletion, res.Stage)

	// Unknown id
	_, err = f.mgr.Handle(ctx, "nope", "hi")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Zero(t, f.mgr.lockCount())
}

func TestManager_Purge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.mgr.Start(ctx)
	require.NoError(t, err)

	*f.clock = start.Add(31 * 24 * time.Hour)
	n, err := f.mgr.Purge(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = f.mgr.Get(ctx, res.SessionID)
	assert.ErrorIs(t, err, ErrNotFound)
}
