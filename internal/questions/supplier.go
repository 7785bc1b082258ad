package questions

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultPerTechnology is the number of questions asked per technology.
const DefaultPerTechnology = 3

// MaxPerTechnology is the largest supported count; it equals the bank depth.
const MaxPerTechnology = 5

// Generator produces raw numbered question text for one technology.
// *generation.Adapter satisfies it.
type Generator interface {
	Questions(ctx context.Context, technology string, years float64, n int) (string, error)
}

// Supplier builds question sets. It never fails: generation problems fall
// back to the curated bank and then to generic templates.
type Supplier struct {
	gen         Generator
	logger      *slog.Logger
	concurrency int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSupplier creates a Supplier. gen may be nil, in which case every
// technology is served from the fallback bank. rng drives fallback sampling;
// nil seeds one from the clock.
func NewSupplier(gen Generator, rng *rand.Rand, logger *slog.Logger) *Supplier {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Supplier{gen: gen, rng: rng, logger: logger, concurrency: 4}
}

// Supply returns perTech questions for every technology, in stack order.
func (s *Supplier) Supply(ctx context.Context, stack []string, years float64, perTech int) QuestionSet {
	if perTech <= 0 {
		perTech = DefaultPerTechnology
	}

	generated := s.generateAll(ctx, stack, years, perTech)

	set := make(QuestionSet, 0, len(stack))
	for i, tech := range stack {
		qs := generated[i]
		if len(qs) > 0 {
			set = append(set, TechQuestions{Technology: tech, Questions: Fit(tech, qs, perTech)})
			continue
		}
		set = append(set, TechQuestions{Technology: tech, Questions: s.Fallback(tech, perTech)})
	}
	return set
}

// generateAll asks the generator for every technology concurrently. Slot i
// holds the parsed questions for stack[i], or nil when generation failed.
func (s *Supplier) generateAll(ctx context.Context, stack []string, years float64, perTech int) [][]string {
	results := make([][]string, len(stack))
	if s.gen == nil {
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, tech := range stack {
		g.Go(func() error {
			results[i] = s.generateOne(gctx, tech, years, perTech)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *Supplier) generateOne(ctx context.Context, tech string, years float64, perTech int) (qs []string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("question generation panicked", "technology", tech, "panic", fmt.Sprint(r))
			qs = nil
		}
	}()

	text, err := s.gen.Questions(ctx, tech, years, perTech)
	if err != nil {
		s.logger.Warn("question generation failed, using fallback bank", "technology", tech, "error", err)
		return nil
	}
	qs = Parse(text)
	if len(qs) == 0 {
		s.logger.Warn("generated text held no questions, using fallback bank", "technology", tech)
	}
	return qs
}

// Fallback serves questions from the curated bank, sampling n without
// replacement, or the generic templates for unknown technologies.
func (s *Supplier) Fallback(technology string, n int) []string {
	pool, ok := bank[Normalize(technology)]
	if !ok {
		generic := genericQuestions(technology)
		return generic[:min(n, len(generic))]
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	picked := make([]string, 0, min(n, len(pool)))
	for _, idx := range s.rng.Perm(len(pool))[:min(n, len(pool))] {
		picked = append(picked, pool[idx])
	}
	return picked
}
