package sources

import (
	"context"
	"net/url"
	"strconv"

	"NewsMosaic/internal/config"
	"NewsMosaic/internal/domain"
	"NewsMosaic/internal/source"
)

const (
	hackerNewsMaxHits    = 100
	hackerNewsSourceName = "HackerNews"
	hackerNewsItemURL    = "https://news.ycombinator.com/item?id="
)

// HackerNews searches stories and comments through the Algolia HN API.
type HackerNews struct {
	adapter
	endpoint string
}

var _ source.Source = (*HackerNews)(nil)

// NewHackerNews wires the search endpoint from configuration.
func NewHackerNews(cfg config.SourceConfig, opts Options) *HackerNews {
	return &HackerNews{
		adapter:  newAdapter(source.HackerNews, opts),
		endpoint: cfg.BaseURL,
	}
}

// Fetch returns matching hits or an empty slice on any failure.
func (h *HackerNews) Fetch(ctx context.Context, req source.Request) []domain.Article {
	return h.guard(ctx, req, h.fetch)
}

func (h *HackerNews) fetch(ctx context.Context, req source.Request) ([]domain.Article, error) {
	params := url.Values{}
	params.Set("query", req.Query)
	params.Set("hitsPerPage", strconv.Itoa(capItems(req.MaxItems, hackerNewsMaxHits)))
	params.Set("numericFilters", "created_at_i>0")

	var payload hackerNewsResponse
	if err := h.getJSON(ctx, h.endpoint, params, nil, &payload); err != nil {
		return nil, err
	}

	var out collector
	for _, hit := range payload.Hits {
		title := hit.StoryTitle
		if title == "" {
			title = hit.Title
		}

		link := hit.StoryURL
		if link == "" {
			link = hit.URL
		}
		if link == "" && hit.ObjectID != "" {
			link = hackerNewsItemURL + hit.ObjectID
		}

		snippet := truncateRunes(cleanText(hit.StoryText), maxSnippetRunes)
		out.add(title, snippet, hackerNewsSourceName, normalizeTimestamp(hit.CreatedAt), link)
	}
	return out.articles, nil
}

type hackerNewsResponse struct {
	Hits []hackerNewsHit `json:"hits"`
}

type hackerNewsHit struct {
	ObjectID   string `json:"objectID"`
	Title      string `json:"title"`
	StoryTitle string `json:"story_title"`
	URL        string `json:"url"`
	StoryURL   string `json:"story_url"`
	StoryText  string `json:"story_text"`
	CreatedAt  string `json:"created_at"`
}
