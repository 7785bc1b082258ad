package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient implements Client using the OpenAI chat completions API
type OpenAIClient struct {
	client openai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(config *Config, apiKey string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		config: config,
	}
}

// GenerateContent generates text content using the specified model tier
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(float64(c.config.Temperature)),
	}
	if c.config.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.config.MaxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}

// GetModel returns the model name for a tier
func (c *OpenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the OpenAI client holds no long-lived resources
func (c *OpenAIClient) Close() error {
	return nil
}
