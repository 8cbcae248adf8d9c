package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"mortgagebrief/internal/core"
)

// newsAPIBaseURL is the NewsAPI.org everything endpoint.
const newsAPIBaseURL = "https://newsapi.org/v2/everything"

// NewsAPICollector collects news articles from NewsAPI.org.
type NewsAPICollector struct {
	apiKey  string
	query   string
	baseURL string
	client  *http.Client
}

// NewNewsAPICollector creates a collector for the given API key and query.
func NewNewsAPICollector(apiKey, query string) *NewsAPICollector {
	return &NewsAPICollector{
		apiKey:  apiKey,
		query:   query,
		baseURL: newsAPIBaseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SourceName returns the name of this source.
func (c *NewsAPICollector) SourceName() string {
	return "NewsAPI"
}

type newsAPIResponse struct {
	Articles []struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		PublishedAt string `json:"publishedAt"`
		Description string `json:"description"`
	} `json:"articles"`
}

// Collect fetches articles published since yesterday matching the query.
func (c *NewsAPICollector) Collect(ctx context.Context) ([]core.Item, error) {
	now := time.Now().UTC()
	params := url.Values{}
	params.Set("q", c.query)
	params.Set("from", now.AddDate(0, 0, -1).Format("2006-01-02"))
	params.Set("to", now.Format("2006-01-02"))
	params.Set("language", "en")
	params.Set("sortBy", "relevancy")
	params.Set("pageSize", "25")
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create NewsAPI request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("NewsAPI request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("NewsAPI authentication failed - check API key")
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("NewsAPI rate limit exceeded")
	default:
		return nil, fmt.Errorf("NewsAPI returned status %d", resp.StatusCode)
	}

	var data newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode NewsAPI response: %w", err)
	}

	items := make([]core.Item, 0, len(data.Articles))
	for _, article := range data.Articles {
		if article.URL == "" {
			continue
		}

		title := article.Title
		if title == "" {
			title = "Untitled"
		}
		source := article.Source.Name
		if source == "" {
			source = "Unknown"
		}

		publishedAt := now
		if article.PublishedAt != "" {
			if parsed, err := time.Parse(time.RFC3339, article.PublishedAt); err == nil {
				publishedAt = parsed
			}
		}

		items = append(items, core.Item{
			ID:          uuid.New().String(),
			Title:       title,
			URL:         article.URL,
			Source:      source,
			SourceType:  core.SourceNewsAPI,
			PublishedAt: publishedAt,
			Description: truncateDescription(article.Description),
		})
	}

	return items, nil
}
