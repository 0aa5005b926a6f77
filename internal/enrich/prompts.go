package enrich

import (
	"encoding/json"
	"fmt"

	"NewsMosaic/internal/domain"
)

const maxSummaryArticles = 25

type promptItem struct {
	Title       string `json:"title"`
	Snippet     string `json:"snippet"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
}

func toPromptItem(a domain.Article) promptItem {
	return promptItem{
		Title:       a.Title,
		Snippet:     a.Snippet,
		Source:      a.Source,
		PublishedAt: a.PublishedAt,
	}
}

func tilePrompt(article domain.Article) (string, error) {
	payload, err := json.Marshal(toPromptItem(article))
	if err != nil {
		return "", fmt.Errorf("marshal tile payload: %w", err)
	}
	return fmt.Sprintf(`You label news fragments for a mosaic board. Output strict JSON only.

%s

Respond with JSON containing: type (FACT/ANALYSIS/OPINION/UNVERIFIED), topic_tags (list), one_line_takeaway (string), confidence (0-1 float).`, payload), nil
}

func summaryPrompt(articles []domain.Article) (string, error) {
	items := make([]promptItem, 0, min(len(articles), maxSummaryArticles))
	for _, a := range articles[:min(len(articles), maxSummaryArticles)] {
		items = append(items, toPromptItem(a))
	}
	payload, err := json.Marshal(map[string]any{"items": items})
	if err != nil {
		return "", fmt.Errorf("marshal summary payload: %w", err)
	}
	return fmt.Sprintf(`Summarize a news cluster as a mosaic story. Output strict JSON only.

%s

Respond with JSON containing: cluster_title (string), whole_story (object with what_happened, why_it_matters list, what_to_watch list), timeline (list of objects with time and event).`, payload), nil
}
