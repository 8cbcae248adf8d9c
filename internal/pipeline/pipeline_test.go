package pipeline

import (
	"context"
	"errors"
	"testing"

	"mortgagebrief/internal/collect"
	"mortgagebrief/internal/core"
)

type stubCollector struct {
	items []core.Item
	err   error
}

func (s *stubCollector) Collect(_ context.Context) ([]core.Item, error) { return s.items, s.err }
func (s *stubCollector) SourceName() string                             { return "stub" }

type stubRanker struct {
	gotItems []core.Item
	ranked   []core.RankedItem
	tldr     []string
	summary  string
}

func (s *stubRanker) RankAndCategorize(_ context.Context, items []core.Item) ([]core.RankedItem, []string) {
	s.gotItems = items
	return s.ranked, s.tldr
}

func (s *stubRanker) GenerateExecutiveSummary(_ context.Context, _ []core.RankedItem) string {
	return s.summary
}

type stubDeliverer struct {
	digests []core.Digest
	err     error
}

func (s *stubDeliverer) SendNewsletter(digest core.Digest, _ string) error {
	if s.err != nil {
		return s.err
	}
	s.digests = append(s.digests, digest)
	return nil
}

func twoItems() []core.Item {
	return []core.Item{
		{Title: "First story", URL: "https://a.example/1"},
		{Title: "Second story", URL: "https://b.example/1"},
	}
}

func TestRunHappyPath(t *testing.T) {
	items := twoItems()
	ranker := &stubRanker{
		ranked:  []core.RankedItem{items[0].Ranked("S1. S2.", 0.9, core.CategoryLeads)},
		tldr:    []string{"A", "B", "C"},
		summary: "The summary.",
	}
	deliverer := &stubDeliverer{}

	p := New(
		[]collect.Collector{&stubCollector{items: items}},
		ranker,
		[]Channel{{Name: "email", Deliverer: deliverer}},
		nil,
	)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(deliverer.digests) != 1 {
		t.Fatalf("Expected 1 delivered digest, got %d", len(deliverer.digests))
	}
	digest := deliverer.digests[0]
	if digest.ExecutiveSummary != "The summary." {
		t.Errorf("Unexpected executive summary: %q", digest.ExecutiveSummary)
	}
	if len(digest.TLDR) != 3 || len(digest.Items) != 1 {
		t.Errorf("Unexpected digest contents: %d tldr, %d items", len(digest.TLDR), len(digest.Items))
	}
}

func TestRunDeduplicatesBeforeRanking(t *testing.T) {
	items := []core.Item{
		{Title: "Same story", URL: "https://a.example/1"},
		{Title: "Same story", URL: "https://a.example/1"},
		{Title: "Another story", URL: "https://b.example/1"},
	}
	ranker := &stubRanker{
		ranked: []core.RankedItem{items[0].Ranked("S.", 0.5, "")},
	}

	p := New(
		[]collect.Collector{&stubCollector{items: items}},
		ranker,
		[]Channel{{Name: "push", Deliverer: &stubDeliverer{}}},
		nil,
	)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(ranker.gotItems) != 2 {
		t.Errorf("Expected ranker to receive deduplicated items, got %d", len(ranker.gotItems))
	}
}

func TestRunNoItemsCollected(t *testing.T) {
	p := New(
		[]collect.Collector{&stubCollector{err: errors.New("down")}},
		&stubRanker{},
		[]Channel{{Name: "email", Deliverer: &stubDeliverer{}}},
		nil,
	)

	if err := p.Run(context.Background()); err == nil {
		t.Error("Expected error when nothing was collected")
	}
}

func TestRunRankingProducedNothing(t *testing.T) {
	p := New(
		[]collect.Collector{&stubCollector{items: twoItems()}},
		&stubRanker{ranked: nil},
		[]Channel{{Name: "email", Deliverer: &stubDeliverer{}}},
		nil,
	)

	if err := p.Run(context.Background()); err == nil {
		t.Error("Expected error when ranking produced no items")
	}
}

func TestRunOneChannelSucceeding(t *testing.T) {
	items := twoItems()
	working := &stubDeliverer{}

	p := New(
		[]collect.Collector{&stubCollector{items: items}},
		&stubRanker{ranked: []core.RankedItem{items[0].Ranked("S.", 0.5, "")}},
		[]Channel{
			{Name: "email", Deliverer: &stubDeliverer{err: errors.New("smtp down")}},
			{Name: "push", Deliverer: working},
		},
		nil,
	)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("One working channel should be enough: %v", err)
	}
	if len(working.digests) != 1 {
		t.Errorf("Expected delivery on the working channel, got %d", len(working.digests))
	}
}

func TestRunAllChannelsFailing(t *testing.T) {
	items := twoItems()

	p := New(
		[]collect.Collector{&stubCollector{items: items}},
		&stubRanker{ranked: []core.RankedItem{items[0].Ranked("S.", 0.5, "")}},
		[]Channel{
			{Name: "email", Deliverer: &stubDeliverer{err: errors.New("smtp down")}},
			{Name: "push", Deliverer: &stubDeliverer{err: errors.New("api down")}},
		},
		nil,
	)

	if err := p.Run(context.Background()); err == nil {
		t.Error("Expected error when every channel fails")
	}
}
