package enrich

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"NewsMosaic/internal/domain"
	"NewsMosaic/internal/fixtures"
	"NewsMosaic/internal/logging"
)

type fakeGenerator struct {
	reply func(prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

func (f *fakeGenerator) Provider() string { return "fake" }

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.reply(prompt)
}

func staticReply(reply string) *fakeGenerator {
	return &fakeGenerator{reply: func(string) (string, error) { return reply, nil }}
}

func newEngine(gen *fakeGenerator) *Engine {
	opts := Options{Logger: logging.Discard()}
	if gen != nil {
		opts.Generator = gen
	}
	return New(opts)
}

var sample = domain.NewArticle(
	"OpenAI releases new model update focused on reasoning and safety",
	"The update targets fewer hallucinations.",
	"TechWire",
	"2026-02-06T12:00:00Z",
	"https://example.com/openai",
)

func TestFallbackTile(t *testing.T) {
	t.Parallel()

	tile := New(Options{}).ClassifyTile(context.Background(), sample)

	assert.Equal(t, sample, tile.Article)
	assert.Equal(t, domain.TileFact, tile.TileType)
	assert.Empty(t, tile.TopicTags)
	assert.NotNil(t, tile.TopicTags)
	assert.Equal(t, sample.Snippet, tile.OneLineTakeaway)
	assert.Equal(t, 0.4, tile.Confidence)
	assert.GreaterOrEqual(t, tile.Intensity, 0.0)
	assert.LessOrEqual(t, tile.Intensity, 1.0)
}

func TestFallbackTileTakeawayUsesTitleAndTruncates(t *testing.T) {
	t.Parallel()

	long := domain.NewArticle(strings.Repeat("é", 200), "", "S", "", "https://example.com")
	tile := FallbackTile(long)
	assert.Equal(t, strings.Repeat("é", 140), tile.OneLineTakeaway)
}

func TestClassifyTileGenerative(t *testing.T) {
	t.Parallel()

	gen := staticReply("Here you go:\n```json\n{\"type\": \"analysis\", \"topic_tags\": [\"AI\", \"<b>safety</b>\", \"  \"], \"one_line_takeaway\": \"Model gets <i>safer</i> &amp; smarter\", \"confidence\": 0.83}\n```")
	tile := newEngine(gen).ClassifyTile(context.Background(), sample)

	assert.Equal(t, domain.TileAnalysis, tile.TileType)
	assert.Equal(t, []string{"AI", "safety"}, tile.TopicTags)
	assert.Equal(t, "Model gets safer & smarter", tile.OneLineTakeaway)
	assert.InDelta(t, 0.83, tile.Confidence, 1e-9)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], `"title":"OpenAI releases new model update focused on reasoning and safety"`)
	assert.Contains(t, gen.prompts[0], "FACT/ANALYSIS/OPINION/UNVERIFIED")

	local := FallbackTile(sample)
	assert.Equal(t, local.Valence, tile.Valence)
	assert.Equal(t, local.IntensityLevel, tile.IntensityLevel)
}

func TestClassifyTilePartialReply(t *testing.T) {
	t.Parallel()

	tile := newEngine(staticReply(`{"type": "OPINION"}`)).ClassifyTile(context.Background(), sample)

	assert.Equal(t, domain.TileOpinion, tile.TileType)
	assert.Empty(t, tile.TopicTags)
	assert.Equal(t, sample.Snippet, tile.OneLineTakeaway)
	assert.Equal(t, 0.4, tile.Confidence)
}

func TestClassifyTileConfidence(t *testing.T) {
	t.Parallel()

	cases := map[string]float64{
		`{"confidence": 1.7}`:    1,
		`{"confidence": -0.2}`:   0,
		`{"confidence": "0.25"}`: 0.25,
		`{"confidence": null}`:   0.4,
	}
	for reply, want := range cases {
		tile := newEngine(staticReply(reply)).ClassifyTile(context.Background(), sample)
		assert.InDelta(t, want, tile.Confidence, 1e-9, reply)
		assert.Equal(t, domain.TileFact, tile.TileType, reply)
	}
}

func TestClassifyTileFallsBackWholesale(t *testing.T) {
	t.Parallel()

	replies := []string{
		"not json at all",
		`{"type": "RUMOR", "one_line_takeaway": "x"}`,
		`{"type": "FACT", "confidence": "high", "topic_tags": ["a"]}`,
		`{"topic_tags": "not-a-list"}`,
	}
	for _, reply := range replies {
		tile := newEngine(staticReply(reply)).ClassifyTile(context.Background(), sample)
		assert.Equal(t, FallbackTile(sample), tile, reply)
	}

	failing := &fakeGenerator{reply: func(string) (string, error) { return "", errors.New("quota") }}
	assert.Equal(t, FallbackTile(sample), newEngine(failing).ClassifyTile(context.Background(), sample))
}

func TestClassifyTilesPreservesOrderAndIsolatesFailures(t *testing.T) {
	t.Parallel()

	articles := fixtures.Articles()
	var inFlight, peak atomic.Int32
	gen := &fakeGenerator{reply: func(prompt string) (string, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)

		switch {
		case strings.Contains(prompt, articles[3].Title):
			return "", errors.New("boom")
		case strings.Contains(prompt, articles[5].Title):
			panic("generator exploded")
		}
		return `{"type": "UNVERIFIED", "confidence": 0.9}`, nil
	}}

	engine := New(Options{Generator: gen, Concurrency: 3, Logger: logging.Discard()})
	tiles := engine.ClassifyTiles(context.Background(), articles)

	require.Len(t, tiles, len(articles))
	for i, tile := range tiles {
		assert.Equal(t, articles[i], tile.Article)
		if i == 3 || i == 5 {
			assert.Equal(t, FallbackTile(articles[i]), tile)
			continue
		}
		assert.Equal(t, domain.TileUnverified, tile.TileType)
	}
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestClassifyTilesEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, New(Options{}).ClassifyTiles(context.Background(), nil))
	assert.Empty(t, newEngine(staticReply(`{}`)).ClassifyTiles(context.Background(), nil))
}

func TestClassifyTileCancelledLimiter(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := staticReply(`{"type": "OPINION"}`)
	engine := New(Options{Generator: gen, Limiter: rate.NewLimiter(rate.Every(time.Hour), 1), Logger: logging.Discard()})
	assert.Equal(t, FallbackTile(sample), engine.ClassifyTile(ctx, sample))
	assert.Empty(t, gen.prompts)
}

func TestFallbackSummary(t *testing.T) {
	t.Parallel()

	articles := fixtures.Articles()
	summary := New(Options{}).SummarizeCluster(context.Background(), articles)

	assert.Equal(t, truncate(articles[0].Title, 80), summary.ClusterTitle)
	assert.Equal(t, truncate(articles[0].Snippet, 240), summary.WhatHappened)
	assert.Equal(t, degradedWhyItMatters, summary.WhyItMatters)
	assert.Equal(t, degradedWhatToWatch, summary.WhatToWatch)
	require.Len(t, summary.Timeline, 3)
	for i, entry := range summary.Timeline {
		assert.Equal(t, articles[i].PublishedAt, entry.Time)
		assert.Equal(t, truncate(articles[i].Title, 120), entry.Event)
	}
}

func TestFallbackSummaryEmpty(t *testing.T) {
	t.Parallel()

	gen := staticReply(`{}`)
	summary := newEngine(gen).SummarizeCluster(context.Background(), nil)

	assert.Equal(t, "Event cluster", summary.ClusterTitle)
	assert.Equal(t, "No items.", summary.WhatHappened)
	assert.Empty(t, summary.Timeline)
	assert.NotNil(t, summary.Timeline)
	assert.Empty(t, gen.prompts)
}

func TestSummarizeClusterGenerative(t *testing.T) {
	t.Parallel()

	timeline := strings.Repeat(`{"time": "2026-02-06", "event": "step"},`, 10)
	reply := "```json\n{" +
		`"cluster_title": "<h1>AI safety push</h1>",` +
		`"whole_story": {"what_happened": "Labs shipped updates.", "why_it_matters": ["Trust", ""], "what_to_watch": ["Regulation"]},` +
		`"timeline": [` + strings.TrimSuffix(timeline, ",") + `]` +
		"}\n```"
	gen := staticReply(reply)

	articles := make([]domain.Article, 30)
	for i := range articles {
		articles[i] = sample
	}
	summary := newEngine(gen).SummarizeCluster(context.Background(), articles)

	assert.Equal(t, "AI safety push", summary.ClusterTitle)
	assert.Equal(t, "Labs shipped updates.", summary.WhatHappened)
	assert.Equal(t, []string{"Trust"}, summary.WhyItMatters)
	assert.Equal(t, []string{"Regulation"}, summary.WhatToWatch)
	assert.Len(t, summary.Timeline, 8)

	require.Len(t, gen.prompts, 1)
	assert.Equal(t, 25, strings.Count(gen.prompts[0], `"source":"TechWire"`))
}

func TestSummarizeClusterFallsBackOnMissingKey(t *testing.T) {
	t.Parallel()

	articles := fixtures.First(4)
	replies := []string{
		`{"whole_story": {"what_happened": "x", "why_it_matters": [], "what_to_watch": []}, "timeline": []}`,
		`{"cluster_title": "t", "timeline": []}`,
		`{"cluster_title": "t", "whole_story": {"what_happened": "x", "what_to_watch": []}, "timeline": []}`,
		`{"cluster_title": "t", "whole_story": {"what_happened": "x", "why_it_matters": [], "what_to_watch": []}}`,
		`{"cluster_title": "t", "whole_story": {"what_happened": "x", "why_it_matters": [], "what_to_watch": []}, "timeline": null}`,
		"garbage",
	}
	for _, reply := range replies {
		summary := newEngine(staticReply(reply)).SummarizeCluster(context.Background(), articles)
		assert.Equal(t, FallbackSummary(articles), summary, reply)
	}
}

func TestGenerative(t *testing.T) {
	t.Parallel()

	assert.False(t, New(Options{}).Generative())
	assert.True(t, newEngine(staticReply("{}")).Generative())
}

func TestCleanJSON(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `{"a":1}`, cleanJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSON("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":{"b":2}}`, cleanJSON(`Sure! {"a":{"b":2}} hope this helps`))
	assert.Equal(t, "no braces", cleanJSON("no braces"))
	assert.Equal(t, `{"a":1}`, cleanJSON("```json\n{\"a\":1}\n```\nWant {more} detail?"))
	assert.Equal(t, `{"a":1}`, cleanJSON("Here:\n```JSON\n{\"a\":1}"))
}

func TestSummarizeClusterFencedReplyWithTrailingBraces(t *testing.T) {
	t.Parallel()

	reply := "```json\n{" +
		`"cluster_title": "Grid strain",` +
		`"whole_story": {"what_happened": "Demand peaked.", "why_it_matters": ["Outages"], "what_to_watch": ["Storage"]},` +
		`"timeline": [{"time": "2026-02-06", "event": "Peak"}]` +
		"}\n```\nLet me know if you want {more} detail."

	summary := newEngine(staticReply(reply)).SummarizeCluster(context.Background(), fixtures.First(2))
	assert.Equal(t, "Grid strain", summary.ClusterTitle)
	assert.Equal(t, []domain.TimelineEntry{{Time: "2026-02-06", Event: "Peak"}}, summary.Timeline)
}

func TestClassifyTileAsksModelEveryCall(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	gen := &fakeGenerator{reply: func(string) (string, error) {
		if calls.Add(1) == 1 {
			return `{"type": "OPINION", "one_line_takeaway": "first take"}`, nil
		}
		return `{"type": "ANALYSIS", "one_line_takeaway": "second take"}`, nil
	}}
	engine := New(Options{Generator: gen, Logger: logging.Discard()})
	ctx := context.Background()

	first := engine.ClassifyTile(ctx, sample)
	assert.Equal(t, domain.TileOpinion, first.TileType)
	assert.Equal(t, "first take", first.OneLineTakeaway)

	second := engine.ClassifyTile(ctx, sample)
	assert.Equal(t, domain.TileAnalysis, second.TileType)
	assert.Equal(t, "second take", second.OneLineTakeaway)
	assert.Equal(t, int32(2), calls.Load())
}
