package app

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"

	"NewsMosaic/internal/cluster"
	"NewsMosaic/internal/config"
	"NewsMosaic/internal/domain"
	"NewsMosaic/internal/enrich"
	"NewsMosaic/internal/infrastructure/llm"
	"NewsMosaic/internal/infrastructure/sources"
	"NewsMosaic/internal/logging"
	"NewsMosaic/internal/ports"
	"NewsMosaic/internal/source"
	"NewsMosaic/internal/usecase"
)

// Application wires configs to use cases.
type Application struct {
	cfg        config.Config
	caps       config.Capabilities
	registry   *source.Registry
	aggregator *usecase.Aggregator
	engine     *enrich.Engine
	pipeline   *usecase.Pipeline
}

// New builds a runnable application instance. Capabilities are resolved once here.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	caps := config.ResolveCapabilities(cfg)
	registry := newRegistry(cfg, baseLogger)
	aggregator := usecase.NewAggregator(registry, caps, baseLogger.With("component", "aggregator"))

	engine := enrich.New(enrich.Options{
		Generator:   newGenerator(ctx, cfg, caps, baseLogger),
		Concurrency: cfg.LLM.Concurrency,
		Limiter:     newLimiter(cfg.LLM.RequestsPerSecond),
		Logger:      baseLogger.With("component", "enrich"),
	})

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Fetcher:   aggregator,
		Clusterer: cluster.New(cluster.Options{Logger: baseLogger.With("component", "cluster")}),
		Enricher:  engine,
		Logger:    baseLogger.With("component", "pipeline"),
	})

	baseLogger.Debug("application wired",
		"sources", registry.Names(),
		"offline", aggregator.Offline(),
		"llm", engine.Generative())

	return &Application{
		cfg:        cfg,
		caps:       caps,
		registry:   registry,
		aggregator: aggregator,
		engine:     engine,
		pipeline:   pipeline,
	}
}

func newRegistry(cfg config.Config, logger *slog.Logger) *source.Registry {
	opts := func(name string) sources.Options {
		return sources.Options{
			Timeout:   cfg.Sources.Timeout,
			UserAgent: cfg.Sources.UserAgent,
			Logger:    logger.With("component", "source."+name),
		}
	}

	registry := source.NewRegistry()
	registry.Register(sources.NewNewsAPI(cfg.Sources.NewsAPI, opts(source.NewsAPI)))
	registry.Register(sources.NewGuardian(cfg.Sources.Guardian, opts(source.Guardian)))
	registry.Register(sources.NewNewsData(cfg.Sources.NewsData, opts(source.NewsData)))
	registry.Register(sources.NewReddit(cfg.Sources.Reddit, opts(source.Reddit)))
	registry.Register(sources.NewHackerNews(cfg.Sources.HackerNews, opts(source.HackerNews)))
	return registry
}

func newGenerator(ctx context.Context, cfg config.Config, caps config.Capabilities, logger *slog.Logger) ports.Generator {
	if !caps.LLM {
		return nil
	}
	gen, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		logger.Warn("llm disabled", "provider", cfg.LLM.Provider, "error", err)
		return nil
	}
	return gen
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// Capabilities returns the resolved source and model switches.
func (a *Application) Capabilities() config.Capabilities {
	return a.caps
}

// SourceNames lists registered sources in fan-out order.
func (a *Application) SourceNames() []string {
	return a.registry.Names()
}

// Generative reports whether summaries and tiles come from a model.
func (a *Application) Generative() bool {
	return a.engine.Generative()
}

// Defaults returns the configured look-back window and article cap.
func (a *Application) Defaults() config.PipelineConfig {
	return a.cfg.Pipeline
}

// Mosaic runs the full fetch, cluster and enrich workflow. The request is
// passed through as given; callers resolve defaults with Defaults.
func (a *Application) Mosaic(ctx context.Context, req usecase.Request) (domain.Mosaic, error) {
	return a.pipeline.Build(ctx, req)
}

// Fetch aggregates articles without clustering.
func (a *Application) Fetch(ctx context.Context, query string, days, maxItems int) ([]domain.Article, error) {
	return a.aggregator.FetchNews(ctx, query, days, maxItems)
}

// Summarize writes one cluster summary over a caller-supplied article list.
func (a *Application) Summarize(ctx context.Context, articles []domain.Article) domain.ClusterSummary {
	return a.engine.SummarizeCluster(ctx, articles)
}
