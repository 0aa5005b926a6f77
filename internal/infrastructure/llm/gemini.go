package llm

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"NewsMosaic/internal/config"
	"NewsMosaic/internal/ports"
)

// GeminiClient implements ports.Generator on the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

var _ ports.Generator = (*GeminiClient)(nil)

// NewGemini builds a Gemini API client.
func NewGemini(ctx context.Context, cfg config.LLMConfig) (*GeminiClient, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: cfg.Model}, nil
}

// Provider names the backend.
func (c *GeminiClient) Provider() string {
	return config.ProviderGemini
}

// Generate asks for a JSON reply and returns the response text.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("gemini client is nil")
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text in gemini response")
	}
	return text, nil
}
