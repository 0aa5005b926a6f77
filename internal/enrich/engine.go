// Package enrich classifies articles into tiles and writes cluster summaries,
// using a generative model when one is configured and rules otherwise.
package enrich

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"NewsMosaic/internal/domain"
	"NewsMosaic/internal/ports"
)

const defaultConcurrency = 4

// Options wires the engine. A nil Generator selects the rule-based path.
type Options struct {
	Generator   ports.Generator
	Concurrency int
	// Limiter throttles model calls when set.
	Limiter *rate.Limiter
	Logger  *slog.Logger
}

// Engine implements ports.Enricher.
type Engine struct {
	generator   ports.Generator
	concurrency int
	limiter     *rate.Limiter
	logger      *slog.Logger
}

var _ ports.Enricher = (*Engine)(nil)

// New creates an enrichment engine.
func New(opts Options) *Engine {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Engine{
		generator:   opts.Generator,
		concurrency: concurrency,
		limiter:     opts.Limiter,
		logger:      opts.Logger,
	}
}

// Generative reports whether a model backend is configured.
func (e *Engine) Generative() bool {
	return e.generator != nil
}

// ClassifyTile produces the tile for one article. It never fails: any model
// or parse error yields the fallback tile.
func (e *Engine) ClassifyTile(ctx context.Context, article domain.Article) domain.Tile {
	if e.generator == nil {
		return FallbackTile(article)
	}

	tile, err := e.classify(ctx, article)
	if err != nil {
		e.warn("tile_fallback", "article_id", article.ID, "error", err)
		return FallbackTile(article)
	}
	return tile
}

func (e *Engine) classify(ctx context.Context, article domain.Article) (domain.Tile, error) {
	prompt, err := tilePrompt(article)
	if err != nil {
		return domain.Tile{}, err
	}
	reply, err := e.generate(ctx, prompt)
	if err != nil {
		return domain.Tile{}, err
	}
	return parseTile(article, reply)
}

// ClassifyTiles classifies articles with bounded concurrency. The result has
// the same length and order as the input.
func (e *Engine) ClassifyTiles(ctx context.Context, articles []domain.Article) []domain.Tile {
	tiles := make([]domain.Tile, len(articles))
	if e.generator == nil {
		for i, a := range articles {
			tiles[i] = FallbackTile(a)
		}
		return tiles
	}

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, a := range articles {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					e.warn("tile_fallback", "article_id", a.ID, "error", fmt.Sprint(r))
					tiles[i] = FallbackTile(a)
				}
			}()
			tiles[i] = e.ClassifyTile(ctx, a)
			return nil
		})
	}
	_ = g.Wait()
	return tiles
}

// SummarizeCluster writes the narrative for a cluster. Any model error or
// missing key yields the fallback summary as a whole.
func (e *Engine) SummarizeCluster(ctx context.Context, articles []domain.Article) domain.ClusterSummary {
	if e.generator == nil || len(articles) == 0 {
		return FallbackSummary(articles)
	}

	summary, err := e.summarize(ctx, articles)
	if err != nil {
		e.warn("summary_fallback", "articles", len(articles), "error", err)
		return FallbackSummary(articles)
	}
	return summary
}

func (e *Engine) summarize(ctx context.Context, articles []domain.Article) (domain.ClusterSummary, error) {
	prompt, err := summaryPrompt(articles)
	if err != nil {
		return domain.ClusterSummary{}, err
	}
	reply, err := e.generate(ctx, prompt)
	if err != nil {
		return domain.ClusterSummary{}, err
	}
	return parseSummary(reply)
}

func (e *Engine) generate(ctx context.Context, prompt string) (string, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("wait for rate limiter: %w", err)
		}
	}
	reply, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%s generate: %w", e.generator.Provider(), err)
	}
	return reply, nil
}

func (e *Engine) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
