package enrich

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"NewsMosaic/internal/domain"
)

const (
	maxModelTitleRunes    = 120
	maxModelStoryRunes    = 1200
	maxModelListItemRunes = 300
	maxModelTagRunes      = 60
	maxTimelineEntries    = 8
)

var (
	errMissingKey  = errors.New("missing required key")
	errUnknownType = errors.New("unknown tile type")
)

var strictPolicy = bluemonday.StrictPolicy()

// cleanJSON extracts the JSON object from a model reply. A fenced block wins
// over surrounding prose; otherwise the outermost braces are used.
func cleanJSON(content string) string {
	content = strings.TrimSpace(content)
	if fenced, ok := fencedBlock(content); ok {
		content = fenced
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

// fencedBlock returns the body of the first markdown code fence.
func fencedBlock(content string) (string, bool) {
	const fence = "```"
	open := strings.Index(content, fence)
	if open < 0 {
		return "", false
	}
	body := content[open+len(fence):]
	body = strings.TrimPrefix(body, "json")
	body = strings.TrimPrefix(body, "JSON")
	if end := strings.Index(body, fence); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body), true
}

// sanitize removes markup from model text and collapses whitespace.
func sanitize(s string) string {
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

// confidence accepts a JSON number or a numeric string.
type confidence float64

func (c *confidence) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(raw))
	}
	value, err := strconv.ParseFloat(string(data), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("confidence is not numeric: %s", data)
	}
	*c = confidence(value)
	return nil
}

type tileReply struct {
	Type            *string     `json:"type"`
	TopicTags       *[]string   `json:"topic_tags"`
	OneLineTakeaway *string     `json:"one_line_takeaway"`
	Confidence      *confidence `json:"confidence"`
}

// parseTile decodes a model reply into a tile. Absent fields take their
// fallback default; a malformed reply or an unknown type is an error.
func parseTile(article domain.Article, reply string) (domain.Tile, error) {
	var data tileReply
	if err := json.Unmarshal([]byte(cleanJSON(reply)), &data); err != nil {
		return domain.Tile{}, fmt.Errorf("decode tile reply: %w", err)
	}

	tile := domain.Tile{
		Article:         article,
		TileType:        domain.TileFact,
		TopicTags:       []string{},
		OneLineTakeaway: fallbackTakeaway(article),
		Confidence:      fallbackConfidence,
	}

	if data.Type != nil {
		tileType, ok := domain.ParseTileType(*data.Type)
		if !ok {
			return domain.Tile{}, fmt.Errorf("%w: %q", errUnknownType, *data.Type)
		}
		tile.TileType = tileType
	}
	if data.TopicTags != nil {
		for _, tag := range *data.TopicTags {
			if tag = truncate(sanitize(tag), maxModelTagRunes); tag != "" {
				tile.TopicTags = append(tile.TopicTags, tag)
			}
		}
	}
	if data.OneLineTakeaway != nil {
		if takeaway := sanitize(*data.OneLineTakeaway); takeaway != "" {
			tile.OneLineTakeaway = truncate(takeaway, maxTakeawayRunes)
		}
	}
	if data.Confidence != nil {
		tile.Confidence = math.Max(0, math.Min(1, float64(*data.Confidence)))
	}
	return withSentiment(tile), nil
}

type storyReply struct {
	WhatHappened *string   `json:"what_happened"`
	WhyItMatters *[]string `json:"why_it_matters"`
	WhatToWatch  *[]string `json:"what_to_watch"`
}

type timelineReply struct {
	Time  string `json:"time"`
	Event string `json:"event"`
}

type summaryReply struct {
	ClusterTitle *string          `json:"cluster_title"`
	WholeStory   *storyReply      `json:"whole_story"`
	Timeline     *[]timelineReply `json:"timeline"`
}

// parseSummary decodes a model reply into a summary. Every key is required.
func parseSummary(reply string) (domain.ClusterSummary, error) {
	var data summaryReply
	if err := json.Unmarshal([]byte(cleanJSON(reply)), &data); err != nil {
		return domain.ClusterSummary{}, fmt.Errorf("decode summary reply: %w", err)
	}

	switch {
	case data.ClusterTitle == nil:
		return domain.ClusterSummary{}, fmt.Errorf("%w: cluster_title", errMissingKey)
	case data.WholeStory == nil:
		return domain.ClusterSummary{}, fmt.Errorf("%w: whole_story", errMissingKey)
	case data.WholeStory.WhatHappened == nil:
		return domain.ClusterSummary{}, fmt.Errorf("%w: whole_story.what_happened", errMissingKey)
	case data.WholeStory.WhyItMatters == nil:
		return domain.ClusterSummary{}, fmt.Errorf("%w: whole_story.why_it_matters", errMissingKey)
	case data.WholeStory.WhatToWatch == nil:
		return domain.ClusterSummary{}, fmt.Errorf("%w: whole_story.what_to_watch", errMissingKey)
	case data.Timeline == nil:
		return domain.ClusterSummary{}, fmt.Errorf("%w: timeline", errMissingKey)
	}

	summary := domain.ClusterSummary{
		ClusterTitle: truncate(sanitize(*data.ClusterTitle), maxModelTitleRunes),
		WhatHappened: truncate(sanitize(*data.WholeStory.WhatHappened), maxModelStoryRunes),
		WhyItMatters: sanitizeList(*data.WholeStory.WhyItMatters),
		WhatToWatch:  sanitizeList(*data.WholeStory.WhatToWatch),
		Timeline:     make([]domain.TimelineEntry, 0, min(len(*data.Timeline), maxTimelineEntries)),
	}
	for _, entry := range *data.Timeline {
		if len(summary.Timeline) == maxTimelineEntries {
			break
		}
		summary.Timeline = append(summary.Timeline, domain.TimelineEntry{
			Time:  sanitize(entry.Time),
			Event: truncate(sanitize(entry.Event), maxModelListItemRunes),
		})
	}
	return summary, nil
}

func sanitizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = truncate(sanitize(item), maxModelListItemRunes); item != "" {
			out = append(out, item)
		}
	}
	return out
}
