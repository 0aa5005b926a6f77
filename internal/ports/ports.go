package ports

import (
	"context"
	"time"

	"NewsMosaic/internal/domain"
)

// NewsFetcher aggregates articles for a query from all enabled sources.
type NewsFetcher interface {
	FetchNews(ctx context.Context, query string, days, maxItems int) ([]domain.Article, error)
	// Offline reports whether results come from the static fixture set.
	Offline() bool
}

// Clusterer partitions articles into topical groups.
type Clusterer interface {
	Cluster(articles []domain.Article) []domain.Cluster
}

// Enricher turns articles into tiles and cluster summaries.
type Enricher interface {
	ClassifyTiles(ctx context.Context, articles []domain.Article) []domain.Tile
	SummarizeCluster(ctx context.Context, articles []domain.Article) domain.ClusterSummary
	// Generative reports whether a model backend is configured.
	Generative() bool
}

// Generator sends a prompt to a generative model and returns its raw text reply.
type Generator interface {
	Provider() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Scheduler triggers a job repeatedly until stopped or the context ends.
type Scheduler interface {
	Start(ctx context.Context, job func(context.Context, time.Time)) error
	Stop() error
}
