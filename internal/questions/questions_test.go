package questions

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockGenerator implements Generator for testing
type MockGenerator struct {
	QuestionsFunc func(ctx context.Context, technology string, years float64, n int) (string, error)

	mu    sync.Mutex
	calls []string
}

func (m *MockGenerator) Questions(ctx context.Context, technology string, years float64, n int) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, technology)
	m.mu.Unlock()
	if m.QuestionsFunc != nil {
		return m.QuestionsFunc(ctx, technology, years, n)
	}
	return "", errors.New("generation unavailable")
}

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(42, 1024))
}

func TestSupply_UnknownTechnologyWithoutGeneration(t *testing.T) {
	supplier := NewSupplier(&MockGenerator{}, seeded(), nil)

	set := supplier.Supply(context.Background(), []string{"Erlang"}, 3, 3)

	require.Len(t, set, 1)
	assert.Equal(t, "Erlang", set[0].Technology)
	require.Len(t, set[0].Questions, 3)
	for _, q := range set[0].Questions {
		assert.Contains(t, q, "Erlang")
	}
	assert.Equal(t, genericQuestions("Erlang"), set[0].Questions)
}

func TestSupply_NilGeneratorUsesBank(t *testing.T) {
	supplier := NewSupplier(nil, seeded(), nil)

	set := supplier.Supply(context.Background(), []string{"js", "k8s"}, 1, 3)

	require.Len(t, set, 2)
	assert.Equal(t, "js", set[0].Technology)
	assert.Equal(t, "k8s", set[1].Technology)
	for _, q := range set[0].Questions {
		assert.Contains(t, bank["javascript"], q)
	}
	for _, q := range set[1].Questions {
		assert.Contains(t, bank["kubernetes"], q)
	}
}

func TestSupply_GeneratedQuestionsArePaddedToCount(t *testing.T) {
	gen := &MockGenerator{
		QuestionsFunc: func(_ context.Context, _ string, _ float64, _ int) (string, error) {
			return "Here you go:\n1. How do goroutines differ from threads?", nil
		},
	}
	supplier := NewSupplier(gen, seeded(), nil)

	set := supplier.Supply(context.Background(), []string{"Go"}, 4, 3)

	require.Len(t, set, 1)
	assert.Equal(t, []string{
		"How do goroutines differ from threads?",
		"What are the key features and benefits of Go?",
		"Describe a project where you used Go effectively.",
	}, set[0].Questions)
}

func TestSupply_GeneratedQuestionsAreTruncated(t *testing.T) {
	gen := &MockGenerator{
		QuestionsFunc: func(_ context.Context, _ string, _ float64, _ int) (string, error) {
			return "1. One?\n2. Two?\n3. Three?\n4. Four?", nil
		},
	}
	supplier := NewSupplier(gen, seeded(), nil)

	set := supplier.Supply(context.Background(), []string{"Go"}, 4, 2)
	assert.Equal(t, []string{"One?", "Two?"}, set[0].Questions)
}

func TestSupply_UnparseableTextFallsBack(t *testing.T) {
	gen := &MockGenerator{
		QuestionsFunc: func(_ context.Context, _ string, _ float64, _ int) (string, error) {
			return "I cannot help with that.", nil
		},
	}
	supplier := NewSupplier(gen, seeded(), nil)

	set := supplier.Supply(context.Background(), []string{"python"}, 4, 3)
	require.Len(t, set[0].Questions, 3)
	for _, q := range set[0].Questions {
		assert.Contains(t, bank["python"], q)
	}
}

func TestSupply_PanickingGeneratorFallsBack(t *testing.T) {
	gen := &MockGenerator{
		QuestionsFunc: func(_ context.Context, _ string, _ float64, _ int) (string, error) {
			panic("boom")
		},
	}
	supplier := NewSupplier(gen, seeded(), nil)

	var set QuestionSet
	assert.NotPanics(t, func() {
		set = supplier.Supply(context.Background(), []string{"docker"}, 4, 3)
	})
	require.Len(t, set[0].Questions, 3)
}

func TestSupply_PreservesInputOrderWithConcurrency(t *testing.T) {
	stack := []string{"react", "Go", "aws", "Erlang", "python", "rust"}
	gen := &MockGenerator{
		QuestionsFunc: func(_ context.Context, technology string, _ float64, _ int) (string, error) {
			if technology == "Go" || technology == "rust" {
				return "1. About " + technology + "?", nil
			}
			return "", errors.New("unavailable")
		},
	}
	supplier := NewSupplier(gen, seeded(), nil)

	set := supplier.Supply(context.Background(), stack, 6, 3)

	assert.Equal(t, stack, set.Technologies())
	assert.Equal(t, "About Go?", set[1].Questions[0])
	assert.Equal(t, 18, set.Total())
	assert.Len(t, gen.calls, len(stack))
}

func TestSupply_SeededFallbackIsDeterministic(t *testing.T) {
	first := NewSupplier(nil, rand.New(rand.NewPCG(9, 9)), nil)
	second := NewSupplier(nil, rand.New(rand.NewPCG(9, 9)), nil)

	stack := []string{"react", "mysql", "docker"}
	assert.Equal(t,
		first.Supply(context.Background(), stack, 2, 3),
		second.Supply(context.Background(), stack, 2, 3))
}

func TestSupply_DefaultCount(t *testing.T) {
	supplier := NewSupplier(nil, seeded(), nil)

	set := supplier.Supply(context.Background(), []string{"java"}, 2, 0)
	assert.Len(t, set[0].Questions, DefaultPerTechnology)
}

func TestFallback_SamplesWithoutReplacement(t *testing.T) {
	supplier := NewSupplier(nil, seeded(), nil)

	for range 20 {
		picked := supplier.Fallback("React.js", 5)
		require.Len(t, picked, 5)
		assert.ElementsMatch(t, bank["react"], picked)
	}
}

func TestFallback_UnknownTechnologyCapsAtThree(t *testing.T) {
	supplier := NewSupplier(nil, seeded(), nil)

	assert.Len(t, supplier.Fallback("COBOL", 5), 3)
	assert.Len(t, supplier.Fallback("COBOL", 2), 2)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"js", "javascript"},
		{"k8s", "kubernetes"},
		{" ReactJS ", "react"},
		{"react.js", "react"},
		{"Node.js", "node"},
		{"nodejs", "node"},
		{"TS", "typescript"},
		{"angularjs", "angular"},
		{"vuejs", "vue"},
		{"vue.js", "vue"},
		{"mongo", "mongodb"},
		{"postgres", "postgresql"},
		{"expressjs", "express"},
		{"express.js", "express"},
		{"Erlang", "erlang"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestKnownAndSupported(t *testing.T) {
	assert.True(t, Known("JS"))
	assert.False(t, Known("erlang"))

	supported := SupportedTechnologies()
	assert.Len(t, supported, 15)
	assert.Equal(t, "angular", supported[0])
	for _, key := range supported {
		assert.Len(t, bank[key], MaxPerTechnology, key)
	}
	for alias, target := range aliases {
		_, ok := bank[target]
		assert.True(t, ok, "alias %s points at missing key %s", alias, target)
	}
}

func TestParse(t *testing.T) {
	text := strings.Join([]string{
		"```",
		"Sure! Here are some questions:",
		"1. What is a closure?",
		"2) How does hoisting work?",
		"- Explain the event loop.",
		"• What is **strict mode**?",
		"3. **Describe prototypes.**",
		"4.",
		"Thanks!",
		"```",
	}, "\n")

	assert.Equal(t, []string{
		"What is a closure?",
		"How does hoisting work?",
		"Explain the event loop.",
		"What is **strict mode**?",
		"Describe prototypes.",
	}, Parse(text))
}

func TestParse_Empty(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("No list here.\nStill nothing."))
}

func TestFit_PadsToMaximum(t *testing.T) {
	fitted := Fit("Rust", []string{"Q1?"}, MaxPerTechnology)
	require.Len(t, fitted, MaxPerTechnology)
	assert.Equal(t, "Q1?", fitted[0])
	assert.Equal(t, "What are the key features and benefits of Rust?", fitted[1])
}

func TestQuestionSet_Flatten(t *testing.T) {
	set := QuestionSet{
		{Technology: "Go", Questions: []string{"g1", "g2"}},
		{Technology: "SQL", Questions: []string{"s1"}},
	}

	items := set.Flatten()
	require.Len(t, items, 3)
	assert.Equal(t, Item{Position: 0, Technology: "Go", Text: "g1"}, items[0])
	assert.Equal(t, Item{Position: 1, Technology: "Go", Text: "g2"}, items[1])
	assert.Equal(t, Item{Position: 2, Technology: "SQL", Text: "s1"}, items[2])
	assert.Equal(t, items, set.Flatten())
	assert.Equal(t, 3, set.Total())
	assert.Equal(t, []string{"s1"}, set.For("SQL"))
	assert.Nil(t, set.For("Rust"))
}
