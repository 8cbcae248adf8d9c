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
	"mortgagebrief/internal/logger"
)

// githubSearchURL is the GitHub repository search endpoint.
const githubSearchURL = "https://api.github.com/search/repositories"

// githubQueries are the repository searches run each day to surface
// mortgage tech projects.
var githubQueries = []string{
	// Workflow & automation
	"mortgage automation",
	"loan origination system",
	"lending workflow",
	// Document processing
	"mortgage document OCR",
	"loan document extraction",
	"pdf extraction financial",
	// Lead generation & CRM
	"mortgage CRM",
	"lead scoring lending",
	// AI/ML for lending
	"underwriting machine learning",
	"credit decisioning AI",
}

// githubQueryDelay spaces out search calls to stay under the rate limit.
const githubQueryDelay = 2 * time.Second

// GitHubCollector collects recently pushed mortgage AI repositories from
// the GitHub search API.
type GitHubCollector struct {
	token      string
	baseURL    string
	queryDelay time.Duration
	client     *http.Client
}

// NewGitHubCollector creates a collector. The token is optional; without it
// the search API allows fewer requests per minute.
func NewGitHubCollector(token string) *GitHubCollector {
	return &GitHubCollector{
		token:      token,
		baseURL:    githubSearchURL,
		queryDelay: githubQueryDelay,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SourceName returns the name of this source.
func (c *GitHubCollector) SourceName() string {
	return "GitHub"
}

type githubSearchResponse struct {
	Items []struct {
		FullName        string `json:"full_name"`
		HTMLURL         string `json:"html_url"`
		Description     string `json:"description"`
		UpdatedAt       string `json:"updated_at"`
		StargazersCount int    `json:"stargazers_count"`
	} `json:"items"`
}

// Collect searches for repositories pushed in the last week across the
// fixed query list, deduplicating by repository URL.
func (c *GitHubCollector) Collect(ctx context.Context) ([]core.Item, error) {
	log := logger.Get()
	weekAgo := time.Now().UTC().AddDate(0, 0, -7).Format("2006-01-02")

	seen := make(map[string]bool)
	var items []core.Item

	for i, query := range githubQueries {
		if i > 0 {
			select {
			case <-ctx.Done():
				return items, ctx.Err()
			case <-time.After(c.queryDelay):
			}
		}

		repos, err := c.search(ctx, query, weekAgo)
		if err != nil {
			log.Warn().Err(err).Str("query", query).Msg("GitHub search failed")
			continue
		}

		for _, item := range repos {
			if seen[item.URL] {
				continue
			}
			seen[item.URL] = true
			items = append(items, item)
		}
	}

	return items, nil
}

// search runs one repository search query.
func (c *GitHubCollector) search(ctx context.Context, query, pushedAfter string) ([]core.Item, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s pushed:>%s", query, pushedAfter))
	params.Set("sort", "updated")
	params.Set("order", "desc")
	params.Set("per_page", "5")

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "MortgageBrief/1.0")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GitHub search failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden:
		return nil, fmt.Errorf("GitHub rate limit hit")
	default:
		return nil, fmt.Errorf("GitHub search returned status %d", resp.StatusCode)
	}

	var data githubSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode GitHub response: %w", err)
	}

	items := make([]core.Item, 0, len(data.Items))
	for _, repo := range data.Items {
		if repo.HTMLURL == "" {
			continue
		}

		title := fmt.Sprintf("[GitHub] %s", repo.FullName)
		if repo.StargazersCount > 0 {
			title = fmt.Sprintf("%s (%d stars)", title, repo.StargazersCount)
		}

		updatedAt := time.Now().UTC()
		if parsed, err := time.Parse(time.RFC3339, repo.UpdatedAt); err == nil {
			updatedAt = parsed
		}

		items = append(items, core.Item{
			ID:          uuid.New().String(),
			Title:       title,
			URL:         repo.HTMLURL,
			Source:      "GitHub",
			SourceType:  core.SourceGitHub,
			PublishedAt: updatedAt,
			Description: truncateDescription(repo.Description),
		})
	}

	return items, nil
}
