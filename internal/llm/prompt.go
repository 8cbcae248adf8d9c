package llm

import (
	"fmt"
	"strings"

	"mortgagebrief/internal/core"
)

const (
	// maxPromptItems caps how many items are serialized into the ranking
	// prompt to bound token cost. Items beyond this index are never ranked.
	maxPromptItems = 20
	// maxRankedItems is the number of top items requested from the model.
	maxRankedItems = 6
	// promptDescriptionLimit truncates item descriptions in the prompt.
	promptDescriptionLimit = 300
)

// rankingPromptTemplate wraps the serialized item block in the ranking
// instructions. Only the item block is interpolated.
const rankingPromptTemplate = `You are a mortgage industry AI analyst. Analyze these news items and GitHub repositories about mortgage AI and fintech innovation.

CONTENT TO ANALYZE:
%s

TASK:
1. Rank these items by innovation and relevance to mortgage AI technology
2. Assign each of the TOP %d items to exactly one category:
   - "workflow": process automation, document processing, OCR, underwriting tech
   - "leads": lead generation, CRM, borrower acquisition
   - "files": loan file quality, compliance, data extraction
3. For each of the TOP %d items, write exactly 2 sentences: the first explains what it is, the second suggests a concrete action
4. Write exactly 3 TL;DR bullets, one highlight per category

RESPONSE FORMAT (JSON only, no other text):
{
  "tldr": [
    "Workflow highlight in one sentence.",
    "Leads highlight in one sentence.",
    "Files highlight in one sentence."
  ],
  "ranked_items": [
    {
      "index": 1,
      "category": "workflow",
      "summary": "First sentence about the innovation. Second sentence with a suggested action.",
      "relevance_score": 0.95
    }
  ]
}

Return ONLY valid JSON. Include exactly %d items. Use the original index numbers from the content above.`

// executiveSummaryPromptTemplate frames the top items for a short strategic
// narrative. The response is free text, not JSON.
const executiveSummaryPromptTemplate = `Based on these mortgage AI news items from yesterday, write a 2-3 sentence executive summary highlighting the key trends and innovations in the mortgage AI space. Frame it strategically for a mortgage technology leader deciding where to focus.

%s

Write a professional, concise executive summary (2-3 sentences only):`

// buildRankingPrompt serializes at most maxPromptItems items and wraps them
// in the ranking instruction block.
func buildRankingPrompt(items []core.Item) string {
	return fmt.Sprintf(rankingPromptTemplate, prepareContent(items), maxRankedItems, maxRankedItems, maxRankedItems)
}

// prepareContent formats items for the ranking prompt as a 1-based indexed
// block of title, source, description, and URL.
func prepareContent(items []core.Item) string {
	if len(items) > maxPromptItems {
		items = items[:maxPromptItems]
	}

	var sb strings.Builder
	for i, item := range items {
		desc := item.Description
		if desc == "" {
			desc = "N/A"
		} else if len(desc) > promptDescriptionLimit {
			desc = desc[:promptDescriptionLimit]
		}

		sb.WriteString(fmt.Sprintf("[%d] %s\n", i+1, item.Title))
		sb.WriteString(fmt.Sprintf("    Source: %s\n", item.Source))
		sb.WriteString(fmt.Sprintf("    Description: %s\n", desc))
		sb.WriteString(fmt.Sprintf("    URL: %s\n", item.URL))
		sb.WriteString("\n")
	}
	return sb.String()
}

// buildExecutiveSummaryPrompt lists each top item's title with its summary
// (or description) for the narrative summary call.
func buildExecutiveSummaryPrompt(items []core.RankedItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		detail := item.Summary
		if detail == "" {
			detail = item.Description
		}
		if detail == "" {
			detail = "No details"
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", item.Title, detail))
	}
	return fmt.Sprintf(executiveSummaryPromptTemplate, strings.Join(lines, "\n"))
}
