package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"NewsMosaic/internal/config"
	"NewsMosaic/internal/domain"
	"NewsMosaic/internal/fixtures"
	"NewsMosaic/internal/ports"
	"NewsMosaic/internal/source"
)

// Contract violations reported by FetchNews.
var (
	ErrEmptyQuery   = errors.New("query must not be empty")
	ErrInvalidLimit = errors.New("max items must be positive")
	ErrInvalidDays  = errors.New("days must not be negative")
)

// Aggregator fans a query out to every enabled source and merges the results.
type Aggregator struct {
	registry *source.Registry
	caps     config.Capabilities
	fixtures func(n int) []domain.Article
	logger   *slog.Logger
}

var _ ports.NewsFetcher = (*Aggregator)(nil)

// NewAggregator wires the source registry with the resolved capabilities.
func NewAggregator(reg *source.Registry, caps config.Capabilities, log *slog.Logger) *Aggregator {
	if reg == nil {
		reg = source.NewRegistry()
	}
	return &Aggregator{
		registry: reg,
		caps:     caps,
		fixtures: fixtures.First,
		logger:   log,
	}
}

// Offline reports whether FetchNews serves the static fixture set.
func (a *Aggregator) Offline() bool {
	return len(a.registry.Select(a.caps.Enabled)) == 0
}

// FetchNews returns up to maxItems unique articles, newest first.
// The days window is passed to sources but not enforced here.
func (a *Aggregator) FetchNews(ctx context.Context, query string, days, maxItems int) ([]domain.Article, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if maxItems <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, maxItems)
	}
	if days < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDays, days)
	}

	sources := a.registry.Select(a.caps.Enabled)
	if len(sources) == 0 {
		a.debug("no sources enabled, serving fixtures", "max_items", maxItems)
		return a.fixtures(maxItems), nil
	}

	req := source.Request{Query: query, MaxItems: maxItems, Days: days}
	results := make([][]domain.Article, len(sources))

	var g errgroup.Group
	for i, src := range sources {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					a.warn("source_panicked", "source", src.Name(), "panic", fmt.Sprint(r))
					results[i] = nil
				}
			}()
			results[i] = src.Fetch(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch news: %w", err)
	}

	var merged []domain.Article
	contributing := 0
	for i, batch := range results {
		if len(batch) > 0 {
			contributing++
		}
		a.debug("source produced articles", "source", sources[i].Name(), "count", len(batch))
		merged = append(merged, batch...)
	}

	articles := dedupeByTitle(merged)
	sort.SliceStable(articles, func(i, j int) bool {
		return domain.NewerFirst(articles[i], articles[j])
	})
	if len(articles) > maxItems {
		articles = articles[:maxItems]
	}

	a.info("news fetched", "query", query, "days", days, "sources", len(sources),
		"contributing", contributing, "merged", len(merged), "returned", len(articles))
	return articles, nil
}

// dedupeByTitle keeps the first article for every trimmed, lower-cased title.
func dedupeByTitle(articles []domain.Article) []domain.Article {
	seen := make(map[string]struct{}, len(articles))
	deduped := make([]domain.Article, 0, len(articles))
	for _, art := range articles {
		key := strings.ToLower(strings.TrimSpace(art.Title))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, art)
	}
	return deduped
}

func (a *Aggregator) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}

func (a *Aggregator) info(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Info(msg, args...)
	}
}

func (a *Aggregator) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
