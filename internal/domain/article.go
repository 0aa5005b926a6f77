package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// Article is a core entity describing a news or discussion item fetched from a source.
type Article struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Snippet     string `json:"snippet"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
	URL         string `json:"url"`
}

// TimestampLayout is the single representation used for PublishedAt.
// Every value is either empty or in this layout, so string order is time order.
const TimestampLayout = "2006-01-02T15:04:05Z"

// MakeID derives the stable article identity from title, source and publish time.
func MakeID(title, source, publishedAt string) string {
	sum := sha256.Sum256([]byte(title + "|" + source + "|" + publishedAt))
	return hex.EncodeToString(sum[:])[:16]
}

// NewArticle builds an Article and computes its ID.
func NewArticle(title, snippet, source, publishedAt, url string) Article {
	return Article{
		ID:          MakeID(title, source, publishedAt),
		Title:       title,
		Snippet:     snippet,
		Source:      source,
		PublishedAt: publishedAt,
		URL:         url,
	}
}

// NewerFirst reports whether a should be ordered before b: later timestamps first,
// empty timestamps last.
func NewerFirst(a, b Article) bool {
	if a.PublishedAt == "" {
		return false
	}
	if b.PublishedAt == "" {
		return true
	}
	return a.PublishedAt > b.PublishedAt
}
