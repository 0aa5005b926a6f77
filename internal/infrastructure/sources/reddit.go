package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"NewsMosaic/internal/config"
	"NewsMosaic/internal/domain"
	"NewsMosaic/internal/source"
)

const (
	redditMaxLimit = 100
	redditLinkBase = "https://reddit.com"
)

// Reddit searches a subreddit through the unauthenticated public JSON endpoint.
type Reddit struct {
	adapter
	baseURL   string
	subreddit string
}

var _ source.Source = (*Reddit)(nil)

// NewReddit wires base URL and subreddit from configuration.
func NewReddit(cfg config.RedditConfig, opts Options) *Reddit {
	return &Reddit{
		adapter:   newAdapter(source.Reddit, opts),
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		subreddit: cfg.Subreddit,
	}
}

// Fetch returns the newest matching posts or an empty slice on any failure.
func (r *Reddit) Fetch(ctx context.Context, req source.Request) []domain.Article {
	return r.guard(ctx, req, r.fetch)
}

func (r *Reddit) fetch(ctx context.Context, req source.Request) ([]domain.Article, error) {
	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("limit", strconv.Itoa(capItems(req.MaxItems, redditMaxLimit)))
	params.Set("sort", "new")
	params.Set("restrict_sr", "on")

	endpoint := fmt.Sprintf("%s/r/%s/search.json", r.baseURL, url.PathEscape(r.subreddit))

	var payload redditListing
	if err := r.getJSON(ctx, endpoint, params, nil, &payload); err != nil {
		return nil, err
	}

	var out collector
	for _, child := range payload.Data.Children {
		post := child.Data
		if post.Permalink == "" {
			continue
		}
		sub := post.Subreddit
		if sub == "" {
			sub = "reddit"
		}
		snippet := truncateRunes(strings.TrimSpace(post.Selftext), maxSnippetRunes)
		out.add(post.Title, snippet, "r/"+sub, epochTimestamp(post.CreatedUTC), redditLinkBase+post.Permalink)
	}
	return out.articles, nil
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	Subreddit  string  `json:"subreddit"`
	Permalink  string  `json:"permalink"`
	CreatedUTC float64 `json:"created_utc"`
}
