package core

import (
	"strings"
	"time"
)

// SourceType identifies which collector produced an item.
type SourceType string

const (
	SourceNewsAPI SourceType = "newsapi"
	SourceRSS     SourceType = "rss"
	SourceGitHub  SourceType = "github"
)

// Category is the briefing category assigned to a ranked item.
// The zero value means the model did not assign one; display-time
// defaulting is handled by the render package, not here.
type Category string

const (
	CategoryWorkflow Category = "workflow"
	CategoryLeads    Category = "leads"
	CategoryFiles    Category = "files"
)

// ParseCategory maps a category string from the model to a Category.
// Unrecognized values map to CategoryWorkflow.
func ParseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryWorkflow:
		return CategoryWorkflow
	case CategoryLeads:
		return CategoryLeads
	case CategoryFiles:
		return CategoryFiles
	default:
		return CategoryWorkflow
	}
}

// Item represents a collected news article or GitHub repository.
type Item struct {
	ID          string     `json:"id"`           // Unique identifier for the item
	Title       string     `json:"title"`        // Display title
	URL         string     `json:"url"`          // Canonical locator, primary dedup key
	Source      string     `json:"source"`       // Human-readable provenance (feed name, publisher, "GitHub")
	SourceType  SourceType `json:"source_type"`  // Which collector produced this item
	PublishedAt time.Time  `json:"published_at"` // Publication timestamp, timezone-aware
	Description string     `json:"description"`  // Optional free text, truncated by the collector (<=500 chars)
}

// RankedItem is an Item annotated by the ranking call. It is built as a new
// value from the source Item rather than mutating it, so earlier pipeline
// stages never observe ranking annotations.
type RankedItem struct {
	Item
	Summary        string   `json:"summary"`         // Model-generated two-sentence summary
	RelevanceScore float64  `json:"relevance_score"` // Score in [0,1], higher is more relevant
	Category       Category `json:"category"`        // Assigned category, empty if the model omitted one
}

// Ranked builds a RankedItem from an Item plus ranking annotations.
func (it Item) Ranked(summary string, score float64, category Category) RankedItem {
	return RankedItem{
		Item:           it,
		Summary:        summary,
		RelevanceScore: score,
		Category:       category,
	}
}

// Digest is the final payload handed to the delivery channels.
type Digest struct {
	Date             time.Time    `json:"date"`              // Run date in the configured timezone
	ExecutiveSummary string       `json:"executive_summary"` // Narrative summary of the top items
	TLDR             []string     `json:"tldr"`              // Per-category highlight bullets
	Items            []RankedItem `json:"items"`             // Top ranked items, at most six
}
