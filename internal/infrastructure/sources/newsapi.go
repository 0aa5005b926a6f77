package sources

import (
	"context"
	"net/url"
	"strconv"

	"NewsMosaic/internal/config"
	"NewsMosaic/internal/domain"
	"NewsMosaic/internal/source"
)

const newsAPIMaxPageSize = 100

// NewsAPI queries the newsapi.org "everything" endpoint.
type NewsAPI struct {
	adapter
	endpoint string
	apiKey   string
}

var _ source.Source = (*NewsAPI)(nil)

// NewNewsAPI wires endpoint and key from configuration.
func NewNewsAPI(cfg config.SourceConfig, opts Options) *NewsAPI {
	return &NewsAPI{
		adapter:  newAdapter(source.NewsAPI, opts),
		endpoint: cfg.BaseURL,
		apiKey:   cfg.APIKey,
	}
}

// Fetch returns the newest matching articles or an empty slice on any failure.
func (n *NewsAPI) Fetch(ctx context.Context, req source.Request) []domain.Article {
	return n.guard(ctx, req, n.fetch)
}

func (n *NewsAPI) fetch(ctx context.Context, req source.Request) ([]domain.Article, error) {
	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("pageSize", strconv.Itoa(capItems(req.MaxItems, newsAPIMaxPageSize)))
	params.Set("sortBy", "publishedAt")
	params.Set("language", "en")

	var payload newsAPIResponse
	if err := n.getJSON(ctx, n.endpoint, params, map[string]string{"X-Api-Key": n.apiKey}, &payload); err != nil {
		return nil, err
	}

	var out collector
	for _, item := range payload.Articles {
		name := item.Source.Name
		if name == "" {
			name = "NewsAPI"
		}
		out.add(item.Title, cleanText(item.Description), name, normalizeTimestamp(item.PublishedAt), item.URL)
	}
	return out.articles, nil
}

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}
