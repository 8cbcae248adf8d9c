package collect

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"mortgagebrief/internal/core"
	"mortgagebrief/internal/logger"
)

// rssKeywords filter feed entries down to mortgage/AI content.
var rssKeywords = []string{
	"mortgage", "ai", "artificial intelligence", "automation",
	"lending", "fintech", "underwriting", "loan", "machine learning",
	"proptech", "real estate tech", "housing",
}

// rssLookback keeps entries from the last two days to catch late feeds.
const rssLookback = 48 * time.Hour

// RSSCollector collects articles from the configured RSS/Atom feeds.
type RSSCollector struct {
	feedURLs []string
	parser   *gofeed.Parser
}

// NewRSSCollector creates a collector for the given feed URLs.
func NewRSSCollector(feedURLs []string, userAgent string) *RSSCollector {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	parser.Client = &http.Client{
		Timeout: 30 * time.Second,
	}

	return &RSSCollector{
		feedURLs: feedURLs,
		parser:   parser,
	}
}

// SourceName returns the name of this source.
func (c *RSSCollector) SourceName() string {
	return "RSS Feeds"
}

// Collect fetches every configured feed and keeps recent, relevant entries.
// A feed that fails to fetch or parse is logged and skipped.
func (c *RSSCollector) Collect(ctx context.Context) ([]core.Item, error) {
	log := logger.Get()
	cutoff := time.Now().UTC().Add(-rssLookback)

	var items []core.Item
	for _, feedURL := range c.feedURLs {
		feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			log.Warn().Err(err).Str("feed", feedURL).Msg("RSS fetch failed")
			continue
		}

		feedTitle := feed.Title
		if feedTitle == "" {
			feedTitle = feedURL
		}

		for _, entry := range feed.Items {
			published := entryPublished(entry)
			if published.IsZero() || published.Before(cutoff) {
				continue
			}
			if !isRelevant(entry) {
				continue
			}

			items = append(items, core.Item{
				ID:          uuid.New().String(),
				Title:       entryTitle(entry),
				URL:         entry.Link,
				Source:      feedTitle,
				SourceType:  core.SourceRSS,
				PublishedAt: published,
				Description: cleanDescription(entry.Description),
			})
		}

		log.Debug().Str("feed", feedTitle).Msg("Processed feed")
	}

	return items, nil
}

// isRelevant reports whether an entry mentions any mortgage/AI keyword.
func isRelevant(entry *gofeed.Item) bool {
	text := strings.ToLower(entry.Title + " " + entry.Description)
	for _, kw := range rssKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func entryTitle(entry *gofeed.Item) string {
	if entry.Title == "" {
		return "Untitled"
	}
	return entry.Title
}

// entryPublished picks the publication timestamp, falling back to the
// update timestamp. Returns the zero time when neither is available.
func entryPublished(entry *gofeed.Item) time.Time {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed.UTC()
	}
	if entry.UpdatedParsed != nil {
		return entry.UpdatedParsed.UTC()
	}
	return time.Time{}
}

// cleanDescription strips HTML markup from a feed description and truncates
// it to the collection limit.
func cleanDescription(desc string) string {
	if desc == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(desc))
	if err == nil {
		desc = doc.Text()
	}
	desc = strings.Join(strings.Fields(desc), " ")
	return truncateDescription(desc)
}
