package config

import (
	"strings"

	"NewsMosaic/internal/source"
)

var placeholderKeys = map[string]struct{}{
	"xxxx":          {},
	"your_key_here": {},
	"replace_me":    {},
}

// HasRealKey reports whether key looks like a usable credential rather than
// an empty value or a template placeholder.
func HasRealKey(key string) bool {
	k := strings.TrimSpace(key)
	if k == "" {
		return false
	}
	_, placeholder := placeholderKeys[strings.ToLower(k)]
	return !placeholder
}

// HasModelKey applies HasRealKey plus the provider's key-format prefix, when it has one.
func HasModelKey(provider, key string) bool {
	if !HasRealKey(key) {
		return false
	}
	k := strings.TrimSpace(key)
	switch provider {
	case ProviderOpenAI:
		return strings.HasPrefix(k, "sk-")
	case ProviderAnthropic:
		return strings.HasPrefix(k, "sk-ant-")
	case ProviderGemini:
		return true
	default:
		return false
	}
}

// Capabilities is the resolved set of enabled sources and the model switch.
// It is computed once at startup and passed by value.
type Capabilities struct {
	NewsAPI    bool
	Guardian   bool
	NewsData   bool
	Reddit     bool
	HackerNews bool
	LLM        bool
}

// ResolveCapabilities derives capability flags from enable switches and credentials.
func ResolveCapabilities(cfg Config) Capabilities {
	s := cfg.Sources
	return Capabilities{
		NewsAPI:    s.NewsAPI.Enabled && HasRealKey(s.NewsAPI.APIKey),
		Guardian:   s.Guardian.Enabled && HasRealKey(s.Guardian.APIKey),
		NewsData:   s.NewsData.Enabled && HasRealKey(s.NewsData.APIKey),
		Reddit:     s.Reddit.Enabled,
		HackerNews: s.HackerNews.Enabled,
		LLM:        HasModelKey(cfg.LLM.Provider, cfg.LLM.APIKey),
	}
}

// Enabled reports whether the named source may be invoked.
func (c Capabilities) Enabled(name string) bool {
	switch name {
	case source.NewsAPI:
		return c.NewsAPI
	case source.Guardian:
		return c.Guardian
	case source.NewsData:
		return c.NewsData
	case source.Reddit:
		return c.Reddit
	case source.HackerNews:
		return c.HackerNews
	default:
		return false
	}
}

// AnySource reports whether at least one source is enabled.
func (c Capabilities) AnySource() bool {
	for _, name := range source.Order {
		if c.Enabled(name) {
			return true
		}
	}
	return false
}

// SourceRequirement describes what turns the named source on. Reddit and
// Hacker News need no key but stay off unless explicitly enabled.
func SourceRequirement(name string) string {
	switch name {
	case source.NewsAPI:
		return "needs " + newsAPIKeyEnv
	case source.Guardian:
		return "needs " + guardianKeyEnv
	case source.NewsData:
		return "needs " + newsDataKeyEnv
	case source.Reddit:
		return "keyless, opt-in via " + enableRedditEnv + "=1"
	case source.HackerNews:
		return "keyless, opt-in via " + enableHNEnv + "=1"
	default:
		return ""
	}
}
