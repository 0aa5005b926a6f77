package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"NewsMosaic/internal/domain"
	"NewsMosaic/internal/source"
)

const maxBodyBytes = 8 << 20

// Options carries the transport settings shared by every adapter.
type Options struct {
	Client    *http.Client
	Timeout   time.Duration
	UserAgent string
	Logger    *slog.Logger
}

// adapter holds the plumbing every source shares: HTTP client, per-call
// timeout and the failure guard that turns errors into empty results.
type adapter struct {
	name      string
	client    *http.Client
	timeout   time.Duration
	userAgent string
	logger    *slog.Logger
}

func newAdapter(name string, opts Options) adapter {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "NewsMosaic/1.0"
	}
	return adapter{
		name:      name,
		client:    client,
		timeout:   timeout,
		userAgent: userAgent,
		logger:    opts.Logger,
	}
}

// Name identifies the source inside the registry.
func (a adapter) Name() string {
	return a.name
}

// guard runs fetch under the per-call timeout and absorbs every failure.
func (a adapter) guard(ctx context.Context, req source.Request, fetch func(ctx context.Context, req source.Request) ([]domain.Article, error)) (articles []domain.Article) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			a.warn("source_failed", "source", a.name, "error", fmt.Sprint(r))
			articles = []domain.Article{}
		}
	}()

	result, err := fetch(ctx, req)
	if err != nil {
		a.warn("source_failed", "source", a.name, "error", err, "elapsed", time.Since(started))
		return []domain.Article{}
	}

	a.debug("source_fetched", "source", a.name, "count", len(result), "days", req.Days, "elapsed", time.Since(started))
	if result == nil {
		result = []domain.Article{}
	}
	return result
}

// getJSON issues a GET with query params and decodes a JSON body into out.
func (a adapter) getJSON(ctx context.Context, endpoint string, params url.Values, headers map[string]string, out any) error {
	target, err := withQuery(endpoint, params)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", a.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned %s: %s", a.name, resp.Status, strings.TrimSpace(string(payload)))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", a.name, err)
	}
	return nil
}

func withQuery(endpoint string, params url.Values) (string, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %s: %w", endpoint, err)
	}
	query := parsed.Query()
	for k, vs := range params {
		for _, v := range vs {
			query.Set(k, v)
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func (a adapter) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}

func (a adapter) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
