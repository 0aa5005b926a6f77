package sources

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"

	"NewsMosaic/internal/domain"
)

const maxSnippetRunes = 500

// collector accumulates articles, skipping upstream items that cannot form one.
type collector struct {
	articles []domain.Article
}

func (c *collector) add(title, snippet, sourceName, publishedAt, link string) {
	if strings.TrimSpace(title) == "" {
		return
	}
	if !isAbsoluteURL(link) {
		return
	}
	c.articles = append(c.articles, domain.NewArticle(title, snippet, sourceName, publishedAt, link))
}

func isAbsoluteURL(link string) bool {
	parsed, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// cleanText turns HTML fragments into plain text with collapsed whitespace.
func cleanText(raw string) string {
	if !strings.ContainsAny(raw, "<&") {
		return strings.Join(strings.Fields(raw), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.Join(strings.Fields(raw), " ")
	}
	doc.Find("br, p, li, div, h1, h2, h3, h4, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// normalizeTimestamp renders any recognizable timestamp as UTC in domain.TimestampLayout.
// Unrecognized input yields an empty string.
func normalizeTimestamp(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parsed, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return ""
	}
	return parsed.UTC().Format(domain.TimestampLayout)
}

func epochTimestamp(seconds float64) string {
	if seconds <= 0 {
		return ""
	}
	return time.Unix(int64(seconds), 0).UTC().Format(domain.TimestampLayout)
}

func capItems(requested, sourceMax int) int {
	if requested <= 0 || requested > sourceMax {
		return sourceMax
	}
	return requested
}
