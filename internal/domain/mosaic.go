package domain

import (
	"strings"
	"time"
)

// TileType classifies the nature of an article.
type TileType string

const (
	TileFact       TileType = "FACT"
	TileAnalysis   TileType = "ANALYSIS"
	TileOpinion    TileType = "OPINION"
	TileUnverified TileType = "UNVERIFIED"
)

// ParseTileType accepts the enum values case-insensitively.
func ParseTileType(value string) (TileType, bool) {
	switch TileType(strings.ToUpper(strings.TrimSpace(value))) {
	case TileFact:
		return TileFact, true
	case TileAnalysis:
		return TileAnalysis, true
	case TileOpinion:
		return TileOpinion, true
	case TileUnverified:
		return TileUnverified, true
	}
	return "", false
}

// IntensityLevel is the discretized sentiment strength.
type IntensityLevel string

const (
	IntensityCalm    IntensityLevel = "CALM"
	IntensityLow     IntensityLevel = "LOW"
	IntensityMedium  IntensityLevel = "MEDIUM"
	IntensityHigh    IntensityLevel = "HIGH"
	IntensityExtreme IntensityLevel = "EXTREME"
)

// Cluster is a group of topically similar articles, newest first.
type Cluster struct {
	ID       string    `json:"cluster_id"`
	Articles []Article `json:"items"`
}

// Tile wraps one article with its classification and sentiment.
type Tile struct {
	Article         Article        `json:"article"`
	TileType        TileType       `json:"tile_type"`
	TopicTags       []string       `json:"topic_tags"`
	OneLineTakeaway string         `json:"one_line_takeaway"`
	Confidence      float64        `json:"confidence"`
	Valence         float64        `json:"valence"`
	Intensity       float64        `json:"intensity"`
	IntensityLevel  IntensityLevel `json:"intensity_level"`
}

// TimelineEntry is one dated event inside a cluster summary.
type TimelineEntry struct {
	Time  string `json:"time"`
	Event string `json:"event"`
}

// ClusterSummary is the narrative produced for one cluster.
type ClusterSummary struct {
	ClusterTitle string          `json:"cluster_title"`
	WhatHappened string          `json:"what_happened"`
	WhyItMatters []string        `json:"why_it_matters"`
	WhatToWatch  []string        `json:"what_to_watch"`
	Timeline     []TimelineEntry `json:"timeline"`
}

// MosaicCluster is one entry of the final result.
type MosaicCluster struct {
	ClusterID string          `json:"cluster_id"`
	Items     []Tile          `json:"items"`
	Summary   *ClusterSummary `json:"summary,omitempty"`
}

// Mosaic is the terminal artifact of a pipeline run.
type Mosaic struct {
	RunID       string          `json:"run_id"`
	Query       string          `json:"query"`
	GeneratedAt time.Time       `json:"generated_at"`
	Degraded    bool            `json:"degraded"`
	Clusters    []MosaicCluster `json:"clusters"`
}
