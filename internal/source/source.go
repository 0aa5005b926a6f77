package source

import (
	"context"

	"NewsMosaic/internal/domain"
)

// Names of the supported sources, in invocation order.
const (
	NewsAPI    = "newsapi"
	Guardian   = "guardian"
	NewsData   = "newsdata"
	Reddit     = "reddit"
	HackerNews = "hackernews"
)

// Order is the adapter-invocation order used by the aggregator.
var Order = []string{NewsAPI, Guardian, NewsData, Reddit, HackerNews}

// Request carries all parameters required to query a source.
type Request struct {
	Query    string
	MaxItems int
	// Days is the requested recency window. Adapters receive it but do not filter on it yet.
	Days int
}

// Source captures a single upstream provider (NewsAPI, Reddit, etc.).
// Fetch never fails: transport, status and decode problems yield an empty slice.
type Source interface {
	Name() string
	Fetch(ctx context.Context, req Request) []domain.Article
}

// Registry keeps sources in registration order, addressable by name.
type Registry struct {
	sources map[string]Source
	order   []string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: map[string]Source{}}
}

// Register adds or replaces a source implementation.
func (r *Registry) Register(src Source) {
	if r.sources == nil {
		r.sources = map[string]Source{}
	}
	name := src.Name()
	if _, exists := r.sources[name]; !exists {
		r.order = append(r.order, name)
	}
	r.sources[name] = src
}

// Select returns the registered sources accepted by enabled, in registration order.
func (r *Registry) Select(enabled func(name string) bool) []Source {
	selected := make([]Source, 0, len(r.order))
	for _, name := range r.order {
		if enabled != nil && !enabled(name) {
			continue
		}
		selected = append(selected, r.sources[name])
	}
	return selected
}

// Names lists registered source names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}
