package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "NEWS_MOSAIC_CONFIG"
	newsAPIKeyEnv     = "NEWS_API_KEY"
	guardianKeyEnv    = "GUARDIAN_API_KEY"
	newsDataKeyEnv    = "NEWSDATA_API_KEY"
	enableNewsAPIEnv  = "ENABLE_NEWS_API"
	enableRedditEnv   = "ENABLE_REDDIT"
	enableHNEnv       = "ENABLE_HACKERNEWS"
	redditSubEnv      = "REDDIT_SUBREDDIT"
	llmProviderEnv    = "LLM_PROVIDER"
	llmModelEnv       = "LLM_MODEL"
	llmAPIKeyEnv      = "LLM_API_KEY"
	geminiKeyEnv      = "GEMINI_API_KEY"
	openAIKeyEnv      = "OPENAI_API_KEY"
	anthropicKeyEnv   = "ANTHROPIC_API_KEY"
	logLevelEnv       = "LOG_LEVEL"
	logFormatEnv      = "LOG_FORMAT"
	defaultTimeout    = 20 * time.Second
	defaultSubreddit  = "news"
	defaultUserAgent  = "NewsMosaic/1.0"
	defaultMaxItems   = 60
	defaultDays       = 7
	defaultConcurrent = 4
)

// PathEnv names the variable pointing Load at a YAML file.
const PathEnv = configPathEnv

// LLM providers understood by the enrichment backend.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Sources  SourcesConfig  `yaml:"sources"`
	LLM      LLMConfig      `yaml:"llm"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SourcesConfig groups settings for article sources.
type SourcesConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	UserAgent  string        `yaml:"userAgent"`
	NewsAPI    SourceConfig  `yaml:"newsapi"`
	Guardian   SourceConfig  `yaml:"guardian"`
	NewsData   SourceConfig  `yaml:"newsdata"`
	Reddit     RedditConfig  `yaml:"reddit"`
	HackerNews SourceConfig  `yaml:"hackernews"`
}

// SourceConfig describes one upstream endpoint.
type SourceConfig struct {
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseUrl"`
}

// RedditConfig adds the subreddit searched by the public JSON endpoint.
type RedditConfig struct {
	SourceConfig `yaml:",inline"`
	Subreddit    string `yaml:"subreddit"`
}

// LLMConfig defines how to contact the generative model.
type LLMConfig struct {
	Provider          string        `yaml:"provider"`
	Model             string        `yaml:"model"`
	APIKey            string        `yaml:"apiKey"`
	BaseURL           string        `yaml:"baseUrl"`
	Timeout           time.Duration `yaml:"timeout"`
	Concurrency       int           `yaml:"concurrency"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
}

// PipelineConfig holds request defaults used by the CLI.
type PipelineConfig struct {
	MaxItems int `yaml:"maxItems"`
	Days     int `yaml:"days"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		var err error
		cfg, err = LoadFile(path)
		if err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnvOverrides()
	cfg.normalize()
	return cfg, nil
}

// LoadFile decodes a YAML file on top of the defaults.
func LoadFile(path string) (Config, error) {
	cfg := defaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.normalize()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(newsAPIKeyEnv); v != "" {
		c.Sources.NewsAPI.APIKey = v
	}
	if v := os.Getenv(guardianKeyEnv); v != "" {
		c.Sources.Guardian.APIKey = v
	}
	if v := os.Getenv(newsDataKeyEnv); v != "" {
		c.Sources.NewsData.APIKey = v
	}

	overrideBool(enableNewsAPIEnv, &c.Sources.NewsAPI.Enabled)
	overrideBool(enableRedditEnv, &c.Sources.Reddit.Enabled)
	overrideBool(enableHNEnv, &c.Sources.HackerNews.Enabled)

	if v := os.Getenv(redditSubEnv); v != "" {
		c.Sources.Reddit.Subreddit = v
	}

	if v := os.Getenv(llmProviderEnv); v != "" {
		c.LLM.Provider = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(providerKeyEnv(c.LLM.Provider)); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(logFormatEnv); v != "" {
		c.Logging.Format = v
	}
}

func (c *Config) normalize() {
	if c.Sources.Timeout <= 0 {
		c.Sources.Timeout = defaultTimeout
	}
	if c.Sources.UserAgent == "" {
		c.Sources.UserAgent = defaultUserAgent
	}
	if c.Sources.Reddit.Subreddit == "" {
		c.Sources.Reddit.Subreddit = defaultSubreddit
	}
	c.Sources.Reddit.Subreddit = strings.TrimPrefix(strings.TrimSpace(c.Sources.Reddit.Subreddit), "r/")

	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderGemini
	}
	if c.LLM.Model == "" {
		c.LLM.Model = defaultModel(c.LLM.Provider)
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = defaultTimeout
	}
	if c.LLM.Concurrency <= 0 {
		c.LLM.Concurrency = defaultConcurrent
	}

	if c.Pipeline.MaxItems <= 0 {
		c.Pipeline.MaxItems = defaultMaxItems
	}
	if c.Pipeline.Days <= 0 {
		c.Pipeline.Days = defaultDays
	}
}

func overrideBool(env string, dst *bool) {
	v := os.Getenv(env)
	if v == "" {
		return
	}
	if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
		*dst = parsed
	}
}

func providerKeyEnv(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return openAIKeyEnv
	case ProviderAnthropic:
		return anthropicKeyEnv
	default:
		return geminiKeyEnv
	}
}

func defaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderAnthropic:
		return "claude-haiku-4-5"
	default:
		return "gemini-2.0-flash"
	}
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Sources: SourcesConfig{
			Timeout:   defaultTimeout,
			UserAgent: defaultUserAgent,
			NewsAPI: SourceConfig{
				Enabled: true,
				BaseURL: "https://newsapi.org/v2/everything",
			},
			Guardian: SourceConfig{
				Enabled: true,
				BaseURL: "https://content.guardianapis.com/search",
			},
			NewsData: SourceConfig{
				Enabled: true,
				BaseURL: "https://newsdata.io/api/1/news",
			},
			Reddit: RedditConfig{
				SourceConfig: SourceConfig{
					Enabled: false,
					BaseURL: "https://www.reddit.com",
				},
				Subreddit: defaultSubreddit,
			},
			HackerNews: SourceConfig{
				Enabled: false,
				BaseURL: "https://hn.algolia.com/api/v1/search",
			},
		},
		LLM: LLMConfig{
			Provider:    ProviderGemini,
			Timeout:     defaultTimeout,
			Concurrency: defaultConcurrent,
		},
		Pipeline: PipelineConfig{MaxItems: defaultMaxItems, Days: defaultDays},
	}
}
