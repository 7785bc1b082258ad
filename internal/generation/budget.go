package generation

import (
	"fmt"

	"github.com/tiktoken-go/tokenizer"
)

// Budget caps how much candidate-supplied text is forwarded to a provider.
type Budget struct {
	codec     tokenizer.Codec
	maxTokens int
}

// NewBudget creates a token budget using the GPT-4 encoding as an approximation
// for every provider.
func NewBudget(maxTokens int) (*Budget, error) {
	codec, err := tokenizer.ForModel(tokenizer.GPT4)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokenizer codec: %w", err)
	}
	return &Budget{codec: codec, maxTokens: maxTokens}, nil
}

// Count returns the number of tokens in text, estimating 4 characters per
// token when the codec is missing or fails.
func (b *Budget) Count(text string) int {
	if b == nil || b.codec == nil {
		return len(text) / 4
	}
	count, err := b.codec.Count(text)
	if err != nil {
		return len(text) / 4
	}
	return count
}

// Fit truncates text so it stays within the budget.
// The cut is proportional and lands on a rune boundary.
func (b *Budget) Fit(text string) string {
	if b == nil || b.maxTokens <= 0 {
		return text
	}
	current := b.Count(text)
	if current <= b.maxTokens {
		return text
	}

	runes := []rune(text)
	keep := int(float64(len(runes)) * float64(b.maxTokens) / float64(current) * 0.9)
	if keep >= len(runes) {
		return text
	}
	return string(runes[:keep]) + "..."
}
