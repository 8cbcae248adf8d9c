package push

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mortgagebrief/internal/core"
)

func sampleDigest() core.Digest {
	return core.Digest{
		ExecutiveSummary: "Lenders leaned into automation.",
		TLDR:             []string{"One bullet."},
		Items: []core.RankedItem{
			{
				Item:     core.Item{Title: "OCR launch", URL: "https://a.example/1", Source: "Finextra"},
				Summary:  "What it is. What to do.",
				Category: core.CategoryWorkflow,
			},
		},
	}
}

func TestSendNewsletter(t *testing.T) {
	var gotToken string
	var gotBody pushRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("Access-Token")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Failed to decode push payload: %v", err)
		}
	}))
	defer server.Close()

	svc := NewService("pb-token")
	svc.baseURL = server.URL

	if err := svc.SendNewsletter(sampleDigest(), "August 29, 2026"); err != nil {
		t.Fatalf("SendNewsletter failed: %v", err)
	}

	if gotToken != "pb-token" {
		t.Errorf("Expected access token header, got %q", gotToken)
	}
	if gotBody.Type != "note" {
		t.Errorf("Expected note push, got %q", gotBody.Type)
	}
	if gotBody.Title != "Mortgage AI Daily - August 29, 2026" {
		t.Errorf("Unexpected title: %q", gotBody.Title)
	}
	if !strings.Contains(gotBody.Body, "Lenders leaned into automation.") {
		t.Error("Expected executive summary in push body")
	}
	if !strings.Contains(gotBody.Body, "1. OCR launch") {
		t.Error("Expected items in push body")
	}
}

func TestSendNewsletterAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	svc := NewService("bad-token")
	svc.baseURL = server.URL

	if err := svc.SendNewsletter(sampleDigest(), "today"); err == nil || !strings.Contains(err.Error(), "authentication") {
		t.Errorf("Expected authentication error, got %v", err)
	}
}

func TestSendNewsletterRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := NewService("token")
	svc.baseURL = server.URL

	if err := svc.SendNewsletter(sampleDigest(), "today"); err == nil || !strings.Contains(err.Error(), "rate limit") {
		t.Errorf("Expected rate limit error, got %v", err)
	}
}
