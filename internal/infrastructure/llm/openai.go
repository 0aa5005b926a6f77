package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"NewsMosaic/internal/config"
	"NewsMosaic/internal/ports"
)

// OpenAIClient implements ports.Generator backed by OpenAI-compatible APIs.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

var _ ports.Generator = (*OpenAIClient)(nil)

// NewOpenAI builds a client from configuration. BaseURL targets compatible gateways.
func NewOpenAI(cfg config.LLMConfig) *OpenAIClient {
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
	client := openai.NewClient(opts...)
	return &OpenAIClient{client: &client, model: cfg.Model}
}

// Provider names the backend.
func (c *OpenAIClient) Provider() string {
	return config.ProviderOpenAI
}

// Generate sends prompt as a user message and returns the first choice.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("openai client is nil")
	}
	if c.model == "" {
		return "", fmt.Errorf("openai client misconfigured")
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}
