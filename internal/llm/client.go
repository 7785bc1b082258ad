package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned when a provider is selected without a credential.
var ErrMissingAPIKey = errors.New("API key is required")

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent generates text content using the specified model tier
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GetModel returns the provider model name used for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%s: %w", config.Provider, ErrMissingAPIKey)
	}

	switch config.Provider {
	case ProviderOpenAI:
		return NewOpenAIClient(config, apiKey), nil
	case ProviderAnthropic:
		return NewAnthropicClient(config, apiKey), nil
	default:
		return NewGeminiClient(ctx, config, apiKey)
	}
}

// APIKeyEnv names the environment variable holding the credential for a provider.
func APIKeyEnv(provider Provider) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}
