// Package dedup collapses collected items into a unique set using exact URL
// matching and near-duplicate title detection.
package dedup

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"mortgagebrief/internal/core"
)

// TitleSimilarityThreshold is the similarity ratio above which two titles are
// considered the same story.
const TitleSimilarityThreshold = 0.8

// Deduplicate removes duplicate items based on URL and title similarity.
// It is order-preserving: the first occurrence of a story wins. Titles are
// compared case-insensitively; accents and punctuation are not normalized.
func Deduplicate(items []core.Item) []core.Item {
	seenURLs := make(map[string]bool, len(items))
	seenTitles := make([]string, 0, len(items))
	unique := make([]core.Item, 0, len(items))

	for _, item := range items {
		if seenURLs[item.URL] {
			continue
		}

		isDuplicate := false
		for _, seenTitle := range seenTitles {
			if TitleSimilarity(item.Title, seenTitle) > TitleSimilarityThreshold {
				isDuplicate = true
				break
			}
		}
		if isDuplicate {
			continue
		}

		seenURLs[item.URL] = true
		seenTitles = append(seenTitles, item.Title)
		unique = append(unique, item)
	}

	return unique
}

// TitleSimilarity returns a case-insensitive edit-distance similarity ratio
// between two titles in [0,1]. Identical titles score 1.0.
func TitleSimilarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1.0
	}

	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(distance)/float64(longest)
}
