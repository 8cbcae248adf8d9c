package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"mortgagebrief/internal/core"
)

// defaultRelevanceScore is applied when the model omits relevance_score.
const defaultRelevanceScore = 0.5

// rankingResponse mirrors the JSON schema requested from the model. Every
// field is optional; the model's cardinality is never trusted.
type rankingResponse struct {
	TLDR        []string `json:"tldr"`
	RankedItems []struct {
		Index          int      `json:"index"`
		Category       string   `json:"category"`
		Summary        string   `json:"summary"`
		RelevanceScore *float64 `json:"relevance_score"`
	} `json:"ranked_items"`
}

// parseRankingResponse extracts the ranking JSON from a free-form model
// response and maps entries back to the original items. The returned order
// is the model's order and is the final rank order. An unparseable response
// returns empty results wrapped in ErrMalformedResponse; out-of-range
// indices are skipped silently.
func parseRankingResponse(response string, items []core.Item) ([]core.RankedItem, []string, error) {
	var parsed rankingResponse
	if err := json.Unmarshal([]byte(extractJSON(response)), &parsed); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	ranked := make([]core.RankedItem, 0, len(parsed.RankedItems))
	for _, entry := range parsed.RankedItems {
		idx := entry.Index - 1
		if idx < 0 || idx >= len(items) {
			continue
		}
		item := items[idx]

		summary := entry.Summary
		if summary == "" {
			summary = item.Description
		}

		score := defaultRelevanceScore
		if entry.RelevanceScore != nil {
			score = *entry.RelevanceScore
		}

		var category core.Category
		if entry.Category != "" {
			category = core.ParseCategory(entry.Category)
		}

		ranked = append(ranked, item.Ranked(summary, score, category))
	}

	return ranked, parsed.TLDR, nil
}

// extractJSON strips Markdown code fences from a model response, trying
// json-fenced, generic-fenced, then raw in that order.
func extractJSON(response string) string {
	if strings.Contains(response, "```json") {
		parts := strings.SplitN(response, "```json", 2)
		response = strings.SplitN(parts[1], "```", 2)[0]
	} else if strings.Contains(response, "```") {
		parts := strings.SplitN(response, "```", 3)
		if len(parts) >= 2 {
			response = parts[1]
		}
	}
	return strings.TrimSpace(response)
}
