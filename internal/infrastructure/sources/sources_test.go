package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsMosaic/internal/config"
	"NewsMosaic/internal/domain"
	"NewsMosaic/internal/logging"
	"NewsMosaic/internal/source"
)

func testOptions(srv *httptest.Server) Options {
	return Options{
		Client:  srv.Client(),
		Timeout: 2 * time.Second,
		Logger:  logging.Discard(),
	}
}

func jsonServer(t *testing.T, body string, inspect func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inspect != nil {
			inspect(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewsAPIFetch(t *testing.T) {
	t.Parallel()

	var got url.Values
	var key string
	srv := jsonServer(t, `{
	  "status": "ok",
	  "articles": [
	    {"source": {"name": "Reuters"}, "title": "Climate summit opens", "description": "Leaders <b>meet</b> &amp; talk.", "url": "https://example.com/a", "publishedAt": "2026-02-06T12:00:00Z"},
	    {"source": {"name": ""}, "title": "No source name", "description": null, "url": "https://example.com/b", "publishedAt": "2026-02-05T08:30:00Z"},
	    {"source": {"name": "X"}, "title": "   ", "url": "https://example.com/blank"},
	    {"source": {"name": "X"}, "title": "Missing url", "url": ""},
	    {"source": {"name": "X"}, "title": "Relative url", "url": "/relative"}
	  ]
	}`, func(r *http.Request) {
		got = r.URL.Query()
		key = r.Header.Get("X-Api-Key")
	})

	n := NewNewsAPI(config.SourceConfig{BaseURL: srv.URL, APIKey: "secret"}, testOptions(srv))
	articles := n.Fetch(context.Background(), source.Request{Query: "climate", MaxItems: 500, Days: 7})

	require.Len(t, articles, 2)
	assert.Equal(t, "climate", got.Get("q"))
	assert.Equal(t, "100", got.Get("pageSize"))
	assert.Equal(t, "publishedAt", got.Get("sortBy"))
	assert.Equal(t, "secret", key)

	a := articles[0]
	assert.Equal(t, "Climate summit opens", a.Title)
	assert.Equal(t, "Leaders meet & talk.", a.Snippet)
	assert.Equal(t, "Reuters", a.Source)
	assert.Equal(t, "2026-02-06T12:00:00Z", a.PublishedAt)
	assert.Equal(t, domain.MakeID(a.Title, a.Source, a.PublishedAt), a.ID)

	assert.Equal(t, "NewsAPI", articles[1].Source)
	assert.Equal(t, "", articles[1].Snippet)
}

func TestGuardianFetch(t *testing.T) {
	t.Parallel()

	var got url.Values
	srv := jsonServer(t, `{"response": {"status": "ok", "results": [
	  {"webTitle": "Heatwave hits Europe", "webUrl": "https://www.theguardian.com/x", "webPublicationDate": "2026-02-04T09:00:00Z", "fields": {"trailText": "<p>Temperatures soar</p><p>again</p>"}}
	]}}`, func(r *http.Request) { got = r.URL.Query() })

	g := NewGuardian(config.SourceConfig{BaseURL: srv.URL, APIKey: "gkey"}, testOptions(srv))
	articles := g.Fetch(context.Background(), source.Request{Query: "heat", MaxItems: 10})

	require.Len(t, articles, 1)
	assert.Equal(t, "10", got.Get("page-size"))
	assert.Equal(t, "gkey", got.Get("api-key"))
	assert.Equal(t, "trailText", got.Get("show-fields"))
	assert.Equal(t, "The Guardian", articles[0].Source)
	assert.Equal(t, "Temperatures soar again", articles[0].Snippet)
}

func TestNewsDataFetch(t *testing.T) {
	t.Parallel()

	var got url.Values
	srv := jsonServer(t, `{"status": "success", "results": [
	  {"title": "Floods in the north", "link": "https://example.org/floods", "description": "Rivers overflow.", "pubDate": "2026-02-03 17:45:00", "source_id": "bbc"},
	  {"title": "Anonymous outlet", "link": "https://example.org/anon", "pubDate": ""}
	]}`, func(r *http.Request) { got = r.URL.Query() })

	n := NewNewsData(config.SourceConfig{BaseURL: srv.URL, APIKey: "nkey"}, testOptions(srv))
	articles := n.Fetch(context.Background(), source.Request{Query: "floods", MaxItems: 80})

	require.Len(t, articles, 2)
	assert.Equal(t, "50", got.Get("size"))
	assert.Equal(t, "nkey", got.Get("apikey"))
	assert.Equal(t, "bbc", articles[0].Source)
	assert.Equal(t, "2026-02-03T17:45:00Z", articles[0].PublishedAt)
	assert.Equal(t, "NewsData", articles[1].Source)
	assert.Equal(t, "", articles[1].PublishedAt)
}

func TestRedditFetch(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", 600)
	var path string
	var got url.Values
	var agent string
	srv := jsonServer(t, `{"data": {"children": [
	  {"data": {"title": "Storm warning issued", "selftext": "`+long+`", "subreddit": "news", "permalink": "/r/news/comments/abc/storm/", "created_utc": 1770379200.0}},
	  {"data": {"title": "No permalink", "subreddit": "news", "permalink": "", "created_utc": 1770379200}},
	  {"data": {"title": "", "permalink": "/r/news/comments/def/"}}
	]}}`, func(r *http.Request) {
		path = r.URL.Path
		got = r.URL.Query()
		agent = r.Header.Get("User-Agent")
	})

	opts := testOptions(srv)
	opts.UserAgent = "NewsMosaicTest/1.0"
	r := NewReddit(config.RedditConfig{SourceConfig: config.SourceConfig{BaseURL: srv.URL + "/"}, Subreddit: "news"}, opts)
	articles := r.Fetch(context.Background(), source.Request{Query: "storm", MaxItems: 5})

	require.Len(t, articles, 1)
	assert.Equal(t, "/r/news/search.json", path)
	assert.Equal(t, "5", got.Get("limit"))
	assert.Equal(t, "new", got.Get("sort"))
	assert.Equal(t, "NewsMosaicTest/1.0", agent)

	a := articles[0]
	assert.Equal(t, "r/news", a.Source)
	assert.Equal(t, "https://reddit.com/r/news/comments/abc/storm/", a.URL)
	assert.Equal(t, "2026-02-06T12:00:00Z", a.PublishedAt)
	assert.Equal(t, 500, len([]rune(a.Snippet)))
}

func TestHackerNewsFetch(t *testing.T) {
	t.Parallel()

	var got url.Values
	srv := jsonServer(t, `{"hits": [
	  {"objectID": "1", "title": "Show HN: Carbon tracker", "url": "https://carbon.example.com", "story_text": null, "created_at": "2026-02-06T10:15:30.000Z"},
	  {"objectID": "2", "title": null, "story_title": "Parent story", "story_url": "https://story.example.com", "created_at": "2026-02-05T10:00:00Z"},
	  {"objectID": "3", "title": "Ask HN: climate jobs?", "story_text": "<p>Looking for <i>ideas</i></p>", "created_at": "2026-02-04T10:00:00Z"},
	  {"objectID": "4", "title": null, "story_title": null}
	]}`, func(r *http.Request) { got = r.URL.Query() })

	h := NewHackerNews(config.SourceConfig{BaseURL: srv.URL}, testOptions(srv))
	articles := h.Fetch(context.Background(), source.Request{Query: "climate", MaxItems: 20})

	require.Len(t, articles, 3)
	assert.Equal(t, "climate", got.Get("query"))
	assert.Equal(t, "20", got.Get("hitsPerPage"))

	assert.Equal(t, "2026-02-06T10:15:30Z", articles[0].PublishedAt)
	assert.Equal(t, "HackerNews", articles[0].Source)
	assert.Equal(t, "Parent story", articles[1].Title)
	assert.Equal(t, "https://story.example.com", articles[1].URL)
	assert.Equal(t, "https://news.ycombinator.com/item?id=3", articles[2].URL)
	assert.Equal(t, "Looking for ideas", articles[2].Snippet)
}

func TestFetchFailuresYieldEmpty(t *testing.T) {
	t.Parallel()

	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"unauthorized": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad key", http.StatusUnauthorized)
		},
		"malformed json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"articles": [`))
		},
		"wrong shape": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"articles": "nope"}`))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(handler)
			defer srv.Close()

			n := NewNewsAPI(config.SourceConfig{BaseURL: srv.URL, APIKey: "k"}, testOptions(srv))
			articles := n.Fetch(context.Background(), source.Request{Query: "q", MaxItems: 5})
			assert.NotNil(t, articles)
			assert.Empty(t, articles)
		})
	}
}

func TestFetchTimeoutYieldsEmpty(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}))
	defer srv.Close()

	opts := testOptions(srv)
	opts.Timeout = 50 * time.Millisecond
	h := NewHackerNews(config.SourceConfig{BaseURL: srv.URL}, opts)

	started := time.Now()
	articles := h.Fetch(context.Background(), source.Request{Query: "q", MaxItems: 5})
	assert.Empty(t, articles)
	assert.Less(t, time.Since(started), 2*time.Second)
}

func TestFetchHonoursCallerCancellation(t *testing.T) {
	t.Parallel()

	srv := jsonServer(t, `{"hits": []}`, nil)
	h := NewHackerNews(config.SourceConfig{BaseURL: srv.URL}, testOptions(srv))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Empty(t, h.Fetch(ctx, source.Request{Query: "q", MaxItems: 5}))
}

func TestUnreachableEndpointYieldsEmpty(t *testing.T) {
	t.Parallel()

	g := NewGuardian(config.SourceConfig{BaseURL: "http://127.0.0.1:1/search", APIKey: "k"}, Options{Timeout: time.Second, Logger: logging.Discard()})
	assert.Empty(t, g.Fetch(context.Background(), source.Request{Query: "q", MaxItems: 1}))
}

func TestNormalizeTimestamp(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"2026-02-06T12:00:00Z":      "2026-02-06T12:00:00Z",
		"2026-02-06T12:00:00.000Z":  "2026-02-06T12:00:00Z",
		"2026-02-06 12:00:00":       "2026-02-06T12:00:00Z",
		"2026-02-06T14:00:00+02:00": "2026-02-06T12:00:00Z",
		"":                          "",
		"not a date":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeTimestamp(in), "input %q", in)
	}
}

func TestEpochTimestamp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2026-02-06T12:00:00Z", epochTimestamp(1770379200))
	assert.Equal(t, "", epochTimestamp(0))
}

func TestCleanTextAndTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b", cleanText("  a \n b "))
	assert.Equal(t, "one two & three", cleanText("<div>one<br>two &amp; three</div>"))
	assert.Equal(t, "héll", truncateRunes("héllo", 4))
	assert.Equal(t, "hi", truncateRunes("hi", 4))
}

func TestCapItems(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 10, capItems(10, 100))
	assert.Equal(t, 100, capItems(250, 100))
	assert.Equal(t, 100, capItems(0, 100))
}
