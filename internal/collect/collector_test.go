package collect

import (
	"context"
	"errors"
	"testing"

	"mortgagebrief/internal/core"
)

type stubCollector struct {
	name  string
	items []core.Item
	err   error
}

func (s *stubCollector) Collect(_ context.Context) ([]core.Item, error) {
	return s.items, s.err
}

func (s *stubCollector) SourceName() string {
	return s.name
}

func TestGatherMergesCollectors(t *testing.T) {
	collectors := []Collector{
		&stubCollector{name: "one", items: []core.Item{{URL: "https://a.example/1"}, {URL: "https://a.example/2"}}},
		&stubCollector{name: "two", items: []core.Item{{URL: "https://b.example/1"}}},
	}

	items := Gather(context.Background(), collectors)

	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	// Merged order groups items by collector position.
	if items[0].URL != "https://a.example/1" || items[2].URL != "https://b.example/1" {
		t.Errorf("Unexpected merge order: %v", items)
	}
}

func TestGatherIsolatesFailures(t *testing.T) {
	collectors := []Collector{
		&stubCollector{name: "broken", err: errors.New("upstream down")},
		&stubCollector{name: "working", items: []core.Item{{URL: "https://b.example/1"}}},
	}

	items := Gather(context.Background(), collectors)

	if len(items) != 1 {
		t.Fatalf("Expected the working collector's item, got %d items", len(items))
	}
	if items[0].URL != "https://b.example/1" {
		t.Errorf("Unexpected item: %s", items[0].URL)
	}
}

func TestGatherAllFailed(t *testing.T) {
	collectors := []Collector{
		&stubCollector{name: "a", err: errors.New("down")},
		&stubCollector{name: "b", err: errors.New("down")},
	}

	if items := Gather(context.Background(), collectors); len(items) != 0 {
		t.Errorf("Expected no items when every collector fails, got %d", len(items))
	}
}

func TestTruncateDescription(t *testing.T) {
	short := "short description"
	if got := truncateDescription(short); got != short {
		t.Errorf("Short description should pass through, got %q", got)
	}

	long := make([]byte, 600)
	for i := range long {
		long[i] = 'a'
	}
	if got := truncateDescription(string(long)); len(got) != descriptionLimit {
		t.Errorf("Expected truncation to %d chars, got %d", descriptionLimit, len(got))
	}
}
