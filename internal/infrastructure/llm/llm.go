// Package llm adapts hosted generative models to ports.Generator.
package llm

import (
	"context"
	"fmt"
	"strings"

	"NewsMosaic/internal/config"
	"NewsMosaic/internal/ports"
)

const systemPrompt = "You are a careful news analyst. Reply with a single JSON object and nothing else."

// New builds the generator selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (ports.Generator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("llm api key is empty")
	}
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGemini(ctx, cfg)
	case config.ProviderOpenAI:
		return NewOpenAI(cfg), nil
	case config.ProviderAnthropic:
		return NewAnthropic(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
