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
	guardianMaxPageSize = 200
	guardianSourceName  = "The Guardian"
)

// Guardian queries the Guardian open content search API.
type Guardian struct {
	adapter
	endpoint string
	apiKey   string
}

var _ source.Source = (*Guardian)(nil)

// NewGuardian wires endpoint and key from configuration.
func NewGuardian(cfg config.SourceConfig, opts Options) *Guardian {
	return &Guardian{
		adapter:  newAdapter(source.Guardian, opts),
		endpoint: cfg.BaseURL,
		apiKey:   cfg.APIKey,
	}
}

// Fetch returns the newest matching articles or an empty slice on any failure.
func (g *Guardian) Fetch(ctx context.Context, req source.Request) []domain.Article {
	return g.guard(ctx, req, g.fetch)
}

func (g *Guardian) fetch(ctx context.Context, req source.Request) ([]domain.Article, error) {
	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("page-size", strconv.Itoa(capItems(req.MaxItems, guardianMaxPageSize)))
	params.Set("order-by", "newest")
	params.Set("show-fields", "trailText")
	params.Set("api-key", g.apiKey)

	var payload guardianResponse
	if err := g.getJSON(ctx, g.endpoint, params, nil, &payload); err != nil {
		return nil, err
	}

	var out collector
	for _, item := range payload.Response.Results {
		out.add(item.WebTitle, cleanText(item.Fields.TrailText), guardianSourceName, normalizeTimestamp(item.WebPublicationDate), item.WebURL)
	}
	return out.articles, nil
}

type guardianResponse struct {
	Response struct {
		Status  string           `json:"status"`
		Results []guardianResult `json:"results"`
	} `json:"response"`
}

type guardianResult struct {
	WebTitle           string `json:"webTitle"`
	WebURL             string `json:"webUrl"`
	WebPublicationDate string `json:"webPublicationDate"`
	Fields             struct {
		TrailText string `json:"trailText"`
	} `json:"fields"`
}
