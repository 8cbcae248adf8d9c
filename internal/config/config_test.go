package config

import (
	"strings"
	"testing"
)

func TestValidateMissingKeys(t *testing.T) {
	cfg := &Config{}
	missing := cfg.Validate()

	if len(missing) != 3 {
		t.Fatalf("Expected 3 missing keys, got %d: %v", len(missing), missing)
	}
	if missing[0] != "NEWSAPI_KEY" {
		t.Errorf("Expected NEWSAPI_KEY first, got %s", missing[0])
	}
	if missing[1] != "NANOGPT_API_KEY" {
		t.Errorf("Expected NANOGPT_API_KEY second, got %s", missing[1])
	}
	if !strings.Contains(missing[2], "PUSHBULLET_API_KEY") {
		t.Errorf("Expected delivery channel entry, got %s", missing[2])
	}
}

func TestValidateComplete(t *testing.T) {
	cfg := &Config{
		NewsAPI: NewsAPI{APIKey: "news-key"},
		LLM:     LLM{APIKey: "llm-key"},
		Push:    Push{PushbulletAPIKey: "push-key"},
	}

	if missing := cfg.Validate(); len(missing) != 0 {
		t.Errorf("Expected no missing keys, got %v", missing)
	}
}

func TestHasEmail(t *testing.T) {
	cfg := &Config{Email: Email{From: "a@example.com", To: "b@example.com"}}
	if cfg.HasEmail() {
		t.Error("Email without a credential should not count as configured")
	}

	cfg.Email.GmailAppPassword = "app-password"
	if !cfg.HasEmail() {
		t.Error("Gmail app password with from/to should count as configured")
	}

	cfg.Email.GmailAppPassword = ""
	cfg.Email.SendGridAPIKey = "sg-key"
	if !cfg.HasEmail() {
		t.Error("SendGrid key with from/to should count as configured")
	}
}

func TestFeedURLsSplitsCommaSeparated(t *testing.T) {
	cfg := &Config{Feeds: Feeds{URLs: []string{"https://a.example/feed, https://b.example/feed"}}}
	urls := cfg.FeedURLs()

	if len(urls) != 2 {
		t.Fatalf("Expected 2 feed URLs, got %d: %v", len(urls), urls)
	}
	if urls[0] != "https://a.example/feed" || urls[1] != "https://b.example/feed" {
		t.Errorf("Unexpected feed URLs: %v", urls)
	}
}

func TestFeedURLsPassthrough(t *testing.T) {
	cfg := &Config{Feeds: Feeds{URLs: []string{"https://a.example/feed", "https://b.example/feed"}}}
	urls := cfg.FeedURLs()

	if len(urls) != 2 {
		t.Fatalf("Expected 2 feed URLs, got %d", len(urls))
	}
}
