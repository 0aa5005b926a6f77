package enrich

import (
	"NewsMosaic/internal/domain"
	"NewsMosaic/internal/sentiment"
)

const (
	fallbackConfidence = 0.4

	maxTakeawayRunes      = 140
	maxFallbackTitleRunes = 80
	maxFallbackStoryRunes = 240
	maxTimelineEventRunes = 120
	fallbackTimelineLen   = 3

	placeholderTitle = "Event cluster"
	placeholderStory = "No items."
)

var (
	degradedWhyItMatters = []string{
		"This is a mock summary (LLM disabled).",
		"Add an LLM API key to enable richer synthesis.",
	}
	degradedWhatToWatch = []string{
		"Enable an LLM provider for stance/type labeling and better timeline extraction.",
	}
)

// FallbackTile classifies an article without a model: every tile is a FACT
// whose takeaway is the snippet, or the title when the snippet is empty.
func FallbackTile(article domain.Article) domain.Tile {
	return withSentiment(domain.Tile{
		Article:         article,
		TileType:        domain.TileFact,
		TopicTags:       []string{},
		OneLineTakeaway: fallbackTakeaway(article),
		Confidence:      fallbackConfidence,
	})
}

// FallbackSummary builds the rule-based narrative for a cluster.
func FallbackSummary(articles []domain.Article) domain.ClusterSummary {
	summary := domain.ClusterSummary{
		ClusterTitle: placeholderTitle,
		WhatHappened: placeholderStory,
		WhyItMatters: append([]string(nil), degradedWhyItMatters...),
		WhatToWatch:  append([]string(nil), degradedWhatToWatch...),
		Timeline:     []domain.TimelineEntry{},
	}
	if len(articles) == 0 {
		return summary
	}

	first := articles[0]
	summary.ClusterTitle = truncate(first.Title, maxFallbackTitleRunes)
	summary.WhatHappened = truncate(snippetOrTitle(first), maxFallbackStoryRunes)
	for _, a := range articles[:min(fallbackTimelineLen, len(articles))] {
		summary.Timeline = append(summary.Timeline, domain.TimelineEntry{
			Time:  a.PublishedAt,
			Event: truncate(a.Title, maxTimelineEventRunes),
		})
	}
	return summary
}

func fallbackTakeaway(article domain.Article) string {
	return truncate(snippetOrTitle(article), maxTakeawayRunes)
}

func snippetOrTitle(article domain.Article) string {
	if article.Snippet != "" {
		return article.Snippet
	}
	return article.Title
}

// withSentiment scores the tile's article locally, whatever path produced it.
func withSentiment(tile domain.Tile) domain.Tile {
	scores := sentiment.Score(tile.Article.Title + ". " + tile.Article.Snippet)
	tile.Valence = scores.Valence
	tile.Intensity = scores.Intensity
	tile.IntensityLevel = sentiment.Level(scores.Intensity)
	return tile
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
