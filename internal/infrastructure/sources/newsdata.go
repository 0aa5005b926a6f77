package sources

import (
	"context"
	"net/url"
	"strconv"

	"NewsMosaic/internal/config"
	"NewsMosaic/internal/domain"
	"NewsMosaic/internal/source"
)

const newsDataMaxPageSize = 50

// NewsData queries the newsdata.io latest news endpoint.
type NewsData struct {
	adapter
	endpoint string
	apiKey   string
}

var _ source.Source = (*NewsData)(nil)

// NewNewsData wires endpoint and key from configuration.
func NewNewsData(cfg config.SourceConfig, opts Options) *NewsData {
	return &NewsData{
		adapter:  newAdapter(source.NewsData, opts),
		endpoint: cfg.BaseURL,
		apiKey:   cfg.APIKey,
	}
}

// Fetch returns matching articles or an empty slice on any failure.
func (n *NewsData) Fetch(ctx context.Context, req source.Request) []domain.Article {
	return n.guard(ctx, req, n.fetch)
}

func (n *NewsData) fetch(ctx context.Context, req source.Request) ([]domain.Article, error) {
	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("size", strconv.Itoa(capItems(req.MaxItems, newsDataMaxPageSize)))
	params.Set("language", "en")
	params.Set("apikey", n.apiKey)

	var payload newsDataResponse
	if err := n.getJSON(ctx, n.endpoint, params, nil, &payload); err != nil {
		return nil, err
	}

	var out collector
	for _, item := range payload.Results {
		name := item.SourceID
		if name == "" {
			name = "NewsData"
		}
		out.add(item.Title, cleanText(item.Description), name, normalizeTimestamp(item.PubDate), item.Link)
	}
	return out.articles, nil
}

type newsDataResponse struct {
	Status  string           `json:"status"`
	Results []newsDataResult `json:"results"`
}

type newsDataResult struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	PubDate     string `json:"pubDate"`
	SourceID    string `json:"source_id"`
}
