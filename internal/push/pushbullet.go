// Package push delivers the digest as a Pushbullet note.
package push

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mortgagebrief/internal/core"
	"mortgagebrief/internal/logger"
	"mortgagebrief/internal/render"
)

// pushbulletURL is the Pushbullet pushes endpoint.
const pushbulletURL = "https://api.pushbullet.com/v2/pushes"

// Service sends push notifications via Pushbullet.
type Service struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewService creates a Pushbullet service for the given access token.
func NewService(apiKey string) *Service {
	return &Service{
		apiKey:  apiKey,
		baseURL: pushbulletURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type pushRequest struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// SendNewsletter pushes the digest as a note.
func (s *Service) SendNewsletter(digest core.Digest, dateStr string) error {
	payload := pushRequest{
		Type:  "note",
		Title: fmt.Sprintf("Mortgage AI Daily - %s", dateStr),
		Body:  render.PlainNewsletter(digest),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode push payload: %w", err)
	}

	req, err := http.NewRequest("POST", s.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create push request: %w", err)
	}
	req.Header.Set("Access-Token", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("pushbullet request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		logger.Get().Info().Msg("Newsletter sent via Pushbullet")
		return nil
	case http.StatusUnauthorized:
		return fmt.Errorf("pushbullet authentication failed - check access token")
	case http.StatusTooManyRequests:
		return fmt.Errorf("pushbullet rate limit exceeded")
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("pushbullet returned status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
