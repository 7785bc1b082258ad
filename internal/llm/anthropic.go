package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements Client using the Anthropic messages API
type AnthropicClient struct {
	client anthropic.Client
	config *Config
}

// NewAnthropicClient creates a new Anthropic client
func NewAnthropicClient(config *Config, apiKey string) *AnthropicClient {
	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		config: config,
	}
}

// GenerateContent generates text content using the specified model tier
func (c *AnthropicClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	maxTokens := int64(c.config.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(modelName),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(float64(c.config.Temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Content) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var sb strings.Builder
	for i := range resp.Content {
		block := &resp.Content[i]
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return sb.String(), nil
}

// GetModel returns the model name for a tier
func (c *AnthropicClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the Anthropic client holds no long-lived resources
func (c *AnthropicClient) Close() error {
	return nil
}
