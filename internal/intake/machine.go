package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/jonathan/hiring-assistant/internal/audit"
	"github.com/jonathan/hiring-assistant/internal/generation"
	"github.com/jonathan/hiring-assistant/internal/privacy"
	"github.com/jonathan/hiring-assistant/internal/questions"
)

// DefaultExperienceYears is assumed if questions are requested before the
// experience field exists.
const DefaultExperienceYears = 2.0

// Generator is the text generation used during a conversation.
// *generation.Adapter satisfies it.
type Generator interface {
	Evaluate(ctx context.Context, question, answer, technology string) (string, error)
	Nudge(ctx context.Context, situation, userInput, stage string) (string, error)
	Fallback(category generation.Category) string
}

// QuestionSupplier builds the question set for a tech stack.
// *questions.Supplier satisfies it.
type QuestionSupplier interface {
	Supply(ctx context.Context, stack []string, years float64, perTech int) questions.QuestionSet
}

// Observer receives stage and message counts. *metrics.Recorder satisfies it.
type Observer interface {
	ObserveTransition(from, to string)
	IncMessage(stage string)
	IncSession(event string)
}

type nopObserver struct{}

func (nopObserver) ObserveTransition(string, string) {}
func (nopObserver) IncMessage(string)                {}
func (nopObserver) IncSession(string)                {}

// Options configure a Machine
type Options struct {
	Company          string
	PerTechnology    int
	RequireConsent   bool
	EnhanceReprompts bool
	Notice           privacy.NoticeOptions
}

// DefaultOptions returns the TalentScout defaults
func DefaultOptions() Options {
	return Options{
		Company:        "TalentScout",
		PerTechnology:  questions.DefaultPerTechnology,
		RequireConsent: true,
		Notice:         privacy.DefaultNoticeOptions(),
	}
}

// Reply is the outcome of one conversation turn
type Reply struct {
	Text string `json:"text"`
	// Acknowledgment is the feedback on the previous technical answer, if any.
	// It is logged as its own assistant message before Text.
	Acknowledgment string   `json:"acknowledgment,omitempty"`
	Stage          Stage    `json:"stage"`
	Progress       Progress `json:"progress"`
	// Ended is set when the candidate left or asked for deletion
	Ended   bool `json:"ended"`
	Deleted bool `json:"deleted"`
}

// StateError reports a session whose fields contradict its stage.
type StateError struct {
	Stage  Stage
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("inconsistent session state in %s: %s", e.Stage, e.Reason)
}

// Machine drives conversations. It holds no per-session state and is safe
// for concurrent use across different sessions.
type Machine struct {
	opts     Options
	gen      Generator
	supplier QuestionSupplier
	auditor  privacy.Auditor
	observer Observer
	logger   *slog.Logger
	now      func() time.Time
}

// Option customises a Machine
type Option func(*Machine)

// WithObserver records stage transitions and message counts
func WithObserver(o Observer) Option {
	return func(m *Machine) { m.observer = o }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// NewMachine creates a Machine. gen and auditor may be nil.
func NewMachine(opts Options, gen Generator, supplier QuestionSupplier, auditor privacy.Auditor, options ...Option) *Machine {
	if opts.Company == "" {
		opts.Company = "TalentScout"
	}
	if opts.PerTechnology <= 0 {
		opts.PerTechnology = questions.DefaultPerTechnology
	}
	if opts.Notice.Company == "" {
		opts.Notice = privacy.DefaultNoticeOptions()
		opts.Notice.Company = opts.Company
	}
	m := &Machine{
		opts:     opts,
		gen:      gen,
		supplier: supplier,
		auditor:  auditor,
		observer: nopObserver{},
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, o := range options {
		o(m)
	}
	return m
}

// NewSession starts a conversation with a fresh id
func (m *Machine) NewSession(ctx context.Context) *Session {
	s := NewSession(privacy.NewSessionID(), m.now(), m.opts.RequireConsent)
	m.observer.IncSession("started")
	m.audit(ctx, s.ID, audit.InteractionSessionStart, nil)
	return s
}

// ProcessMessage handles one candidate message and returns the next prompt.
// Restart is checked first, then exit intents, then the stage handler runs.
// It never panics; unexpected conditions produce MsgStateError.
func (m *Machine) ProcessMessage(ctx context.Context, s *Session, input string) (reply Reply) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("stage handler panicked",
				"session", s.ID, "stage", s.Stage.String(), "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			reply = Reply{Text: MsgStateError, Stage: s.Stage, Progress: s.Progress()}
		}
	}()

	raw := input
	lower := normalize(input)
	m.observer.IncMessage(s.Stage.String())

	if lower == "" {
		if s.Stage != StageGreeting {
			return Reply{Text: MsgEmptyInput, Stage: s.Stage, Progress: s.Progress()}
		}
		// An empty first turn opens the conversation
		text := m.greet(s)
		s.append(RoleAssistant, text)
		return m.reply(s, text, "")
	}

	if IsRestart(lower) {
		s.reset(m.now(), m.opts.RequireConsent)
		m.observer.IncSession("restarted")
		text := m.greet(s)
		s.append(RoleAssistant, text)
		return m.reply(s, text, "")
	}

	if intent := DetectExit(lower); intent != ExitNone {
		return m.exit(ctx, s, raw, intent)
	}

	s.append(RoleUser, raw)
	t := &turn{m: m, s: s, raw: raw, lower: lower}
	from := s.Stage
	text, err := t.dispatch(ctx)
	if err != nil {
		m.logger.Error("conversation state error", "session", s.ID, "error", err)
		text = MsgStateError
	}
	if s.Stage != from {
		m.observer.ObserveTransition(from.String(), s.Stage.String())
		if s.Stage == StageCompletion {
			m.observer.IncSession("completed")
		}
	}
	s.append(RoleAssistant, text)
	return m.reply(s, text, t.ack)
}

func (m *Machine) reply(s *Session, text, ack string) Reply {
	s.UpdatedAt = m.now()
	return Reply{Text: text, Acknowledgment: ack, Stage: s.Stage, Progress: s.Progress()}
}

// greet emits the welcome text and moves a greeting session to consent.
func (m *Machine) greet(s *Session) string {
	s.Stage = StageConsent
	return greetingMessage(m.opts.Company)
}

// exit ends the conversation without changing the stage.
func (m *Machine) exit(ctx context.Context, s *Session, raw string, intent ExitIntent) Reply {
	s.Ended = true
	s.UpdatedAt = m.now()
	farewell := farewellMessage(m.opts.Company)

	if intent == ExitDelete {
		privacy.HandleDeletionRequest(ctx, m.auditor, s.ID)
		m.observer.IncSession("deleted")
		// Nothing the candidate supplied survives a deletion request
		s.Candidate = CandidateRecord{}
		s.Questions = nil
		s.Messages = []Message{}
		text := privacy.DeletionAcknowledgment(m.opts.Company) + "\n\n" + farewell
		return Reply{Text: text, Stage: s.Stage, Progress: s.Progress(), Ended: true, Deleted: true}
	}

	m.observer.IncSession("exited")
	m.audit(ctx, s.ID, audit.InteractionConversationEnded, map[string]any{"stage": s.Stage.String()})
	s.append(RoleUser, raw)
	s.append(RoleAssistant, farewell)
	return Reply{Text: farewell, Stage: s.Stage, Progress: s.Progress(), Ended: true}
}

func (m *Machine) audit(ctx context.Context, sessionID, interaction string, data map[string]any) {
	if m.auditor == nil {
		return
	}
	m.auditor.Log(ctx, sessionID, interaction, data)
}

// acknowledge produces feedback on an answer. Generation errors select the
// canned acknowledgment; anything else, including a panic, yields the fixed
// fallback.
func (m *Machine) acknowledge(ctx context.Context, item questions.Item, answer string) (ack string) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("answer evaluation panicked", "technology", item.Technology, "panic", fmt.Sprint(r))
			ack = FallbackAcknowledge
		}
	}()

	if m.gen == nil {
		return FallbackAcknowledge
	}
	text, err := m.gen.Evaluate(ctx, item.Text, answer, item.Technology)
	var genErr *generation.Error
	switch {
	case err == nil:
		return text
	case errors.As(err, &genErr):
		m.logger.Warn("answer evaluation unavailable", "technology", item.Technology, "kind", genErr.Kind.String())
		return m.gen.Fallback(generation.CategoryEvaluation)
	default:
		m.logger.Warn("answer evaluation failed", "technology", item.Technology, "error", err)
		return FallbackAcknowledge
	}
}

// nudge prefixes a re-prompt with a generated conversational line when
// enabled. Any failure returns the plain re-prompt.
func (m *Machine) nudge(ctx context.Context, s *Session, raw, situation, reprompt string) string {
	if !m.opts.EnhanceReprompts || m.gen == nil {
		return reprompt
	}
	text, err := m.gen.Nudge(ctx, situation, raw, s.Stage.String())
	if err != nil || text == "" {
		return reprompt
	}
	return text + "\n\n" + reprompt
}
