package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"NewsMosaic/internal/config"
	"NewsMosaic/internal/ports"
)

const anthropicMaxTokens = 1024

// AnthropicClient implements ports.Generator on the Messages API.
type AnthropicClient struct {
	client *anthropic.Client
	model  anthropic.Model
}

var _ ports.Generator = (*AnthropicClient)(nil)

// NewAnthropic builds a client from configuration.
func NewAnthropic(cfg config.LLMConfig) *AnthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(1),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	client := anthropic.NewClient(opts...)
	return &AnthropicClient{client: &client, model: anthropic.Model(cfg.Model)}
}

// Provider names the backend.
func (c *AnthropicClient) Provider() string {
	return config.ProviderAnthropic
}

// Generate sends prompt as a single user turn and returns the first text block.
func (c *AnthropicClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("anthropic client is nil")
	}

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: anthropicMaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}
	for _, block := range resp.Content {
		if block.Text != "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text in anthropic response")
}
