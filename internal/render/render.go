// Package render holds the presentation helpers shared by the delivery
// channels: sentence splitting, category display defaulting, and the plain
// text newsletter body.
package render

import (
	"fmt"
	"strings"
	"unicode"

	"mortgagebrief/internal/core"
)

// titleDisplayLimit trims long titles for compact channels.
const titleDisplayLimit = 70

// CategoryLabel returns the display label for a category. An unset category
// displays as Workflow; this is the only place that default is applied.
func CategoryLabel(c core.Category) string {
	switch c {
	case core.CategoryLeads:
		return "Leads"
	case core.CategoryFiles:
		return "Clean Files"
	default:
		return "Workflow"
	}
}

// SplitSentences splits text on sentence-ending punctuation followed by
// whitespace. Empty segments are dropped.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// TrimTitle shortens a title for compact display.
func TrimTitle(title string) string {
	if len(title) > titleDisplayLimit {
		return title[:titleDisplayLimit-3] + "..."
	}
	return title
}

// PlainNewsletter formats the digest as a plain text newsletter body, used
// for push notifications and the text alternative of the email.
func PlainNewsletter(digest core.Digest) string {
	var lines []string

	lines = append(lines,
		"STRATEGIC BRIEFING",
		strings.Repeat("=", 30),
		"",
		digest.ExecutiveSummary,
		"",
	)

	if len(digest.TLDR) > 0 {
		lines = append(lines, "TL;DR")
		for _, bullet := range digest.TLDR {
			lines = append(lines, fmt.Sprintf("* %s", bullet))
		}
		lines = append(lines, "")
	}

	lines = append(lines,
		strings.Repeat("=", 30),
		"TOP ACTIONABLE ITEMS",
		"(Workflow | Leads | Clean Files)",
		strings.Repeat("=", 30),
		"",
	)

	for i, item := range digest.Items {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, TrimTitle(item.Title)))
		lines = append(lines, fmt.Sprintf("   [%s | %s]", item.Source, CategoryLabel(item.Category)))
		lines = append(lines, "")

		if item.Summary != "" {
			sentences := SplitSentences(item.Summary)
			if len(sentences) > 2 {
				sentences = sentences[:2]
			}
			for j, sentence := range sentences {
				prefix := ">"
				if j > 0 {
					prefix = "ACTION:"
				}
				lines = append(lines, fmt.Sprintf("   %s %s", prefix, sentence))
			}
		} else if item.Description != "" {
			lines = append(lines, fmt.Sprintf("   > %s", item.Description))
		}

		lines = append(lines, "", fmt.Sprintf("   %s", item.URL), "", strings.Repeat("-", 30), "")
	}

	lines = append(lines, "Curated for mortgage tech leaders")

	return strings.Join(lines, "\n")
}
