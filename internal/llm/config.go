// Package llm provides provider clients for external text generation.
// A single Client interface hides whether Gemini, OpenAI or Anthropic serves a prompt.
package llm

import (
	"fmt"
	"strings"
)

// ModelTier represents the capability level a prompt needs
type ModelTier string

const (
	// TierLite is for short conversational text: answer acknowledgments, nudges
	TierLite ModelTier = "lite"
	// TierStandard is for technical question generation
	TierStandard ModelTier = "standard"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// DefaultTemperature keeps generated questions varied without drifting off topic.
const DefaultTemperature = 0.7

// Config holds the model configuration for the text generation capability
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
	MaxTokens   int
}

// DefaultConfig returns the default configuration (Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		Temperature: DefaultTemperature,
		MaxTokens:   1024,
	}
}

// DefaultOpenAIConfig returns the default OpenAI configuration
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Models: map[ModelTier]string{
			TierLite:     "gpt-4o-mini",
			TierStandard: "gpt-4o",
		},
		Temperature: DefaultTemperature,
		MaxTokens:   1024,
	}
}

// DefaultAnthropicConfig returns the default Anthropic configuration
func DefaultAnthropicConfig() *Config {
	return &Config{
		Provider: ProviderAnthropic,
		Models: map[ModelTier]string{
			TierLite:     "claude-3-5-haiku-latest",
			TierStandard: "claude-sonnet-4-20250514",
		},
		Temperature: DefaultTemperature,
		MaxTokens:   1024,
	}
}

// ConfigFor returns the default configuration for a provider name.
// Matching is case-insensitive; an empty name selects Gemini.
func ConfigFor(name string) (*Config, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(name))) {
	case "", ProviderGemini:
		return DefaultGeminiConfig(), nil
	case ProviderOpenAI:
		return DefaultOpenAIConfig(), nil
	case ProviderAnthropic:
		return DefaultAnthropicConfig(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", name)
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider:    c.Provider,
		Models:      make(map[ModelTier]string, len(c.Models)),
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
