package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"NewsMosaic/internal/domain"
	"NewsMosaic/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Fetcher   ports.NewsFetcher
	Clusterer ports.Clusterer
	Enricher  ports.Enricher
	Logger    *slog.Logger
}

// Request describes one mosaic build.
type Request struct {
	Query    string
	Days     int
	MaxItems int
	// SkipSummaries returns clusters with tiles only.
	SkipSummaries bool
}

// Pipeline implements the fetch, cluster and enrich workflow.
type Pipeline struct {
	fetcher   ports.NewsFetcher
	clusterer ports.Clusterer
	enricher  ports.Enricher
	logger    *slog.Logger
	now       func() time.Time
	newRunID  func() string
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		fetcher:   deps.Fetcher,
		clusterer: deps.Clusterer,
		enricher:  deps.Enricher,
		logger:    deps.Logger,
		now:       time.Now,
		newRunID:  uuid.NewString,
	}
}

// Build orchestrates fetching, clustering, classification and summarization.
func (p *Pipeline) Build(ctx context.Context, req Request) (domain.Mosaic, error) {
	if p.fetcher == nil || p.clusterer == nil || p.enricher == nil {
		return domain.Mosaic{}, fmt.Errorf("pipeline is not fully wired")
	}

	started := p.now()
	runID := p.newRunID()
	log := p.logger
	if log != nil {
		log = log.With("run_id", runID)
	}

	articles, err := p.fetcher.FetchNews(ctx, req.Query, req.Days, req.MaxItems)
	if err != nil {
		return domain.Mosaic{}, fmt.Errorf("fetch news: %w", err)
	}

	clusters := p.clusterer.Cluster(articles)

	result := make([]domain.MosaicCluster, 0, len(clusters))
	for _, cluster := range clusters {
		if err := ctx.Err(); err != nil {
			return domain.Mosaic{}, fmt.Errorf("enrich cluster %s: %w", cluster.ID, err)
		}

		entry := domain.MosaicCluster{
			ClusterID: cluster.ID,
			Items:     p.enricher.ClassifyTiles(ctx, cluster.Articles),
		}
		if !req.SkipSummaries {
			summary := p.enricher.SummarizeCluster(ctx, cluster.Articles)
			entry.Summary = &summary
		}
		result = append(result, entry)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return len(result[i].Items) > len(result[j].Items)
	})

	mosaic := domain.Mosaic{
		RunID:       runID,
		Query:       req.Query,
		GeneratedAt: started.UTC(),
		Degraded:    p.fetcher.Offline() || !p.enricher.Generative(),
		Clusters:    result,
	}

	if log != nil {
		log.Info("mosaic built",
			"query", req.Query,
			"articles", len(articles),
			"clusters", len(result),
			"degraded", mosaic.Degraded,
			"elapsed", p.now().Sub(started))
	}
	return mosaic, nil
}
