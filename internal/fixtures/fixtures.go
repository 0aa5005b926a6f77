// Package fixtures holds the static demo articles served when no source is enabled.
package fixtures

import "NewsMosaic/internal/domain"

var sample = []domain.Article{
	domain.NewArticle(
		"OpenAI releases new model update focused on reasoning and safety",
		"The update improves reliability and introduces new tooling for developers.",
		"TechWire", "2026-02-06T12:00:00Z", "https://example.com/openai-update",
	),
	domain.NewArticle(
		"Researchers debate the environmental cost of scaling AI training",
		"New estimates suggest energy use varies widely depending on hardware and datacenter mix.",
		"Science Daily", "2026-02-06T10:30:00Z", "https://example.com/ai-energy",
	),
	domain.NewArticle(
		"Major cloud providers roll out new AI security features",
		"The features include better audit logs, policy controls, and incident response integrations.",
		"CloudNews", "2026-02-06T09:10:00Z", "https://example.com/cloud-security",
	),
	domain.NewArticle(
		"Startup ecosystem shifts as investors look for efficient growth",
		"Founders respond by prioritizing profitability and tighter operating models.",
		"MarketWatchers", "2026-02-05T22:00:00Z", "https://example.com/startups",
	),
	domain.NewArticle(
		"Public sector explores AI guidelines for transparency",
		"Draft policies emphasize documentation, evaluations, and disclosure requirements.",
		"PolicyBrief", "2026-02-05T18:15:00Z", "https://example.com/ai-policy",
	),
	domain.NewArticle(
		"Datacenter operators sign record renewable power contracts",
		"Long-term wind and solar agreements aim to offset rising electricity demand from AI workloads.",
		"Energy Ledger", "2026-02-05T15:40:00Z", "https://example.com/datacenter-renewables",
	),
	domain.NewArticle(
		"Chipmakers report strong demand for AI accelerators",
		"Quarterly results show supply constraints easing while orders from cloud providers keep growing.",
		"MarketWatchers", "2026-02-05T11:05:00Z", "https://example.com/chip-demand",
	),
	domain.NewArticle(
		"Regulators open consultation on AI model disclosure rules",
		"The consultation asks developers how evaluations and incident reports should be published.",
		"PolicyBrief", "2026-02-05T08:20:00Z", "https://example.com/ai-disclosure",
	),
	domain.NewArticle(
		"Security researchers warn of prompt injection attacks on enterprise assistants",
		"Attackers hide instructions in documents to exfiltrate data from connected tools.",
		"CloudNews", "2026-02-04T21:30:00Z", "https://example.com/prompt-injection",
	),
	domain.NewArticle(
		"Venture funding for climate tech rebounds in early 2026",
		"Investors back grid storage and carbon removal startups after a slow previous year.",
		"Science Daily", "2026-02-04T16:00:00Z", "https://example.com/climate-funding",
	),
	domain.NewArticle(
		"Open source community releases lightweight reasoning benchmark",
		"The benchmark targets small models and publishes evaluation scripts for reproducibility.",
		"TechWire", "2026-02-04T12:45:00Z", "https://example.com/reasoning-benchmark",
	),
	domain.NewArticle(
		"Heat waves strain power grids as cooling demand climbs",
		"Grid operators call for flexible demand programs and more storage capacity.",
		"Energy Ledger", "2026-02-04T07:10:00Z", "https://example.com/grid-heat",
	),
}

// Articles returns a copy of the full fixture set, newest first.
func Articles() []domain.Article {
	return append([]domain.Article(nil), sample...)
}

// First returns at most n fixture articles.
func First(n int) []domain.Article {
	if n < 0 {
		n = 0
	}
	if n > len(sample) {
		n = len(sample)
	}
	return append([]domain.Article(nil), sample[:n]...)
}
