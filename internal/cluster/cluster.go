// Package cluster groups articles by topic using TF-IDF vectors and seeded k-means.
package cluster

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"NewsMosaic/internal/domain"
	"NewsMosaic/internal/ports"
)

const (
	defaultSeed        = 42
	defaultMaxIter     = 300
	defaultMaxFeatures = 5000

	minClusters = 3
	maxClusters = 8
)

// Options tunes the clusterer. Zero values select the defaults.
type Options struct {
	Seed        uint64
	MaxIter     int
	MaxFeatures int
	Logger      *slog.Logger
}

// Clusterer implements ports.Clusterer.
type Clusterer struct {
	seed        uint64
	maxIter     int
	maxFeatures int
	logger      *slog.Logger
}

var _ ports.Clusterer = (*Clusterer)(nil)

// New creates a deterministic clusterer.
func New(opts Options) *Clusterer {
	c := &Clusterer{
		seed:        opts.Seed,
		maxIter:     opts.MaxIter,
		maxFeatures: opts.MaxFeatures,
		logger:      opts.Logger,
	}
	if c.seed == 0 {
		c.seed = defaultSeed
	}
	if c.maxIter <= 0 {
		c.maxIter = defaultMaxIter
	}
	if c.maxFeatures <= 0 {
		c.maxFeatures = defaultMaxFeatures
	}
	return c
}

// ChooseK returns the target cluster count for n articles: n/10 rounded half
// to even, clamped to [3, 8].
func ChooseK(n int) int {
	k := int(math.RoundToEven(float64(n) / 10))
	return min(maxClusters, max(minClusters, k))
}

// Cluster partitions articles into topical groups labelled c0..c{k-1}.
// Every article lands in exactly one cluster and members are newest first.
func (c *Clusterer) Cluster(articles []domain.Article) []domain.Cluster {
	if len(articles) == 0 {
		return nil
	}

	docs := make([]string, len(articles))
	for i, a := range articles {
		docs[i] = a.Title + " " + a.Snippet
	}
	rows, dim := vectorize(docs, c.maxFeatures)

	k := min(ChooseK(len(articles)), len(articles))
	labels := newKMeans(k, dim, c.maxIter, c.seed).fit(rows)

	groups := make([][]domain.Article, k)
	for i, label := range labels {
		groups[label] = append(groups[label], articles[i])
	}

	clusters := make([]domain.Cluster, 0, k)
	for label, members := range groups {
		if len(members) == 0 {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool {
			return domain.NewerFirst(members[i], members[j])
		})
		clusters = append(clusters, domain.Cluster{
			ID:       fmt.Sprintf("c%d", label),
			Articles: members,
		})
	}

	if c.logger != nil {
		c.logger.Debug("articles clustered",
			"articles", len(articles),
			"vocabulary", dim,
			"k", k)
	}
	return clusters
}
