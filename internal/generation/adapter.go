// Package generation wraps a fallible LLM provider with bounded retries,
// per-call timeouts and deterministic canned fallbacks.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/hiring-assistant/internal/llm"
	"github.com/jonathan/hiring-assistant/internal/prompts"
	"github.com/jonathan/hiring-assistant/internal/validation"
)

// Options controls retry behaviour
type Options struct {
	// MaxRetries is the number of attempts made before giving up
	MaxRetries int
	// BaseDelay is the sleep after the first failed attempt; it doubles per attempt
	BaseDelay time.Duration
	// CallTimeout bounds each individual provider call; zero disables it
	CallTimeout time.Duration
}

// DefaultOptions returns three attempts with a one second base delay and a
// twenty second per-call timeout.
func DefaultOptions() Options {
	return Options{
		MaxRetries:  3,
		BaseDelay:   time.Second,
		CallTimeout: 20 * time.Second,
	}
}

// Metrics receives adapter events. The metrics package provides a Prometheus
// implementation.
type Metrics interface {
	ObserveAttempt(outcome string, elapsed time.Duration)
	IncFallback(category string)
}

type nopMetrics struct{}

func (nopMetrics) ObserveAttempt(string, time.Duration) {}
func (nopMetrics) IncFallback(string)                   {}

// Sleeper pauses between attempts and returns early when ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// Adapter is the single gateway to text generation
type Adapter struct {
	client  llm.Client
	opts    Options
	sleep   Sleeper
	budget  *Budget
	metrics Metrics
	logger  *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option customises an Adapter
type Option func(*Adapter)

// WithSleeper replaces the backoff sleep, mostly for tests
func WithSleeper(s Sleeper) Option {
	return func(a *Adapter) { a.sleep = s }
}

// WithRand sets the randomness source used to pick canned acknowledgments
func WithRand(rng *rand.Rand) Option {
	return func(a *Adapter) { a.rng = rng }
}

// WithBudget truncates candidate answers before they are sent for evaluation
func WithBudget(b *Budget) Option {
	return func(a *Adapter) { a.budget = b }
}

// WithMetrics records attempts and fallbacks
func WithMetrics(m Metrics) Option {
	return func(a *Adapter) { a.metrics = m }
}

// WithLogger sets the logger; slog.Default is used otherwise
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

// NewAdapter creates an Adapter. A nil client is valid and makes every
// generation call fail with an Unavailable error.
func NewAdapter(client llm.Client, opts Options, options ...Option) *Adapter {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}
	a := &Adapter{
		client:  client,
		opts:    opts,
		sleep:   sleepContext,
		metrics: nopMetrics{},
		logger:  slog.Default(),
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
	for _, o := range options {
		o(a)
	}
	return a
}

// Available reports whether a provider is configured
func (a *Adapter) Available() bool {
	return a.client != nil
}

// Generate sends prompt to the provider, retrying with exponential backoff.
// Every failure is reported as *Error.
func (a *Adapter) Generate(ctx context.Context, prompt string) (string, error) {
	return a.generate(ctx, prompt, llm.TierStandard)
}

// Complete is Generate without failure: on any error the canned reply for the
// prompt's category is returned instead.
func (a *Adapter) Complete(ctx context.Context, prompt string) string {
	text, err := a.Generate(ctx, prompt)
	if err != nil {
		category := Classify(prompt)
		a.logger.Warn("generation failed, using fallback", "category", category.String(), "error", err)
		return a.Fallback(category)
	}
	return text
}

// Fallback returns the canned reply for a category
func (a *Adapter) Fallback(category Category) string {
	a.metrics.IncFallback(category.String())
	a.mu.Lock()
	defer a.mu.Unlock()
	return canned(category, a.rng)
}

// Questions asks the provider for n numbered questions about technology,
// pitched at the tier derived from years of experience.
func (a *Adapter) Questions(ctx context.Context, technology string, years float64, n int) (string, error) {
	prompt, err := prompts.Render(prompts.QuestionGenerator, map[string]string{
		"NumQuestions":    strconv.Itoa(n),
		"Technology":      technology,
		"ExperienceLevel": ExperienceLevel(years),
		"Years":           strconv.FormatFloat(years, 'f', -1, 64),
	})
	if err != nil {
		return "", err
	}

	text, err := a.generate(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", err
	}
	return llm.StripCodeFence(text), nil
}

// Evaluate asks for a short encouraging acknowledgment of an answer that does
// not reveal whether it was correct.
func (a *Adapter) Evaluate(ctx context.Context, question, answer, technology string) (string, error) {
	prompt, err := prompts.Render(prompts.ResponseEvaluator, map[string]string{
		"Question":   question,
		"Technology": technology,
		"Answer":     validation.GuardCandidateText(ctx, a.logger, a.budget.Fit(answer), "candidate answer"),
	})
	if err != nil {
		return "", err
	}
	return a.generate(ctx, prompt, llm.TierLite)
}

// Nudge asks for a short conversational line that steers the candidate back
// to the current stage.
func (a *Adapter) Nudge(ctx context.Context, situation, userInput, stage string) (string, error) {
	prompt, err := prompts.Render(prompts.ConversationEnhancer, map[string]string{
		"Context":   situation,
		"UserInput": validation.GuardCandidateText(ctx, a.logger, a.budget.Fit(userInput), "candidate input"),
		"Stage":     stage,
	})
	if err != nil {
		return "", err
	}
	return a.generate(ctx, prompt, llm.TierLite)
}

func (a *Adapter) generate(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if a.client == nil {
		return "", &Error{Kind: Unavailable, Cause: llm.ErrMissingAPIKey}
	}

	var (
		lastErr  error
		lastKind = Exhausted
		attempts int
	)
	for attempt := 0; attempt < a.opts.MaxRetries; attempt++ {
		attempts++
		text, err := a.attempt(ctx, prompt, tier)
		switch {
		case err == nil && text != "":
			return text, nil
		case err == nil:
			lastKind, lastErr = Empty, nil
		case ctx.Err() != nil:
			return "", &Error{Kind: Exhausted, Attempts: attempts, Cause: ctx.Err()}
		case errors.Is(err, context.DeadlineExceeded):
			lastKind, lastErr = Timeout, err
		default:
			lastKind, lastErr = Exhausted, err
		}

		a.logger.Debug("generation attempt failed",
			"attempt", attempts, "model", a.client.GetModel(tier), "kind", lastKind.String(), "error", lastErr)

		if attempt < a.opts.MaxRetries-1 {
			delay := a.opts.BaseDelay * time.Duration(1<<attempt)
			if err := a.sleep(ctx, delay); err != nil {
				return "", &Error{Kind: Exhausted, Attempts: attempts, Cause: err}
			}
		}
	}

	return "", &Error{Kind: lastKind, Attempts: attempts, Cause: lastErr}
}

func (a *Adapter) attempt(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	callCtx := ctx
	if a.opts.CallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.opts.CallTimeout)
		defer cancel()
	}

	start := time.Now()
	text, err := a.client.GenerateContent(callCtx, prompt, tier)
	if err == nil && callCtx.Err() != nil {
		err = callCtx.Err()
	}
	if err != nil {
		outcome := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = "timeout"
		}
		a.metrics.ObserveAttempt(outcome, time.Since(start))
		return "", fmt.Errorf("provider call failed: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		a.metrics.ObserveAttempt("empty", time.Since(start))
		return "", nil
	}
	a.metrics.ObserveAttempt("success", time.Since(start))
	return text, nil
}

// ExperienceLevel maps years of experience to the tier named in prompts.
func ExperienceLevel(years float64) string {
	switch {
	case years < 2:
		return "junior"
	case years < 5:
		return "mid-level"
	default:
		return "senior"
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
