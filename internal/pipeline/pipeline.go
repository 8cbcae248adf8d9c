// Package pipeline wires one newsletter run: collect, deduplicate, rank,
// summarize, deliver.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"mortgagebrief/internal/collect"
	"mortgagebrief/internal/core"
	"mortgagebrief/internal/dedup"
	"mortgagebrief/internal/logger"
)

// Ranker ranks and summarizes deduplicated items.
type Ranker interface {
	RankAndCategorize(ctx context.Context, items []core.Item) ([]core.RankedItem, []string)
	GenerateExecutiveSummary(ctx context.Context, items []core.RankedItem) string
}

// Deliverer sends the finished digest over one channel.
type Deliverer interface {
	SendNewsletter(digest core.Digest, dateStr string) error
}

// Channel pairs a deliverer with a name for logging.
type Channel struct {
	Name      string
	Deliverer Deliverer
}

// Pipeline runs the daily newsletter from collection through delivery.
type Pipeline struct {
	collectors []collect.Collector
	ranker     Ranker
	channels   []Channel
	location   *time.Location
	log        *zerolog.Logger
}

// New creates a pipeline. The location determines the date shown on the
// newsletter; nil means UTC.
func New(collectors []collect.Collector, ranker Ranker, channels []Channel, location *time.Location) *Pipeline {
	if location == nil {
		location = time.UTC
	}
	return &Pipeline{
		collectors: collectors,
		ranker:     ranker,
		channels:   channels,
		location:   location,
		log:        logger.Get(),
	}
}

// Run executes one newsletter run. It returns an error when nothing was
// collected, nothing survived deduplication, ranking produced no items, or
// every delivery channel failed. Ranking-call failures do not surface here;
// the ranker degrades to its fallback output instead.
func (p *Pipeline) Run(ctx context.Context) error {
	now := time.Now().In(p.location)
	dateStr := now.Format("January 2, 2006")

	p.log.Info().Str("date", dateStr).Msg("Starting newsletter run")

	items := collect.Gather(ctx, p.collectors)
	if len(items) == 0 {
		return fmt.Errorf("no content collected from any source")
	}
	p.log.Info().Int("items", len(items)).Msg("Collection finished")

	unique := dedup.Deduplicate(items)
	if len(unique) == 0 {
		return fmt.Errorf("no unique items after deduplication")
	}
	p.log.Info().Int("unique", len(unique)).Msg("Deduplication finished")

	topItems, tldr := p.ranker.RankAndCategorize(ctx, unique)
	if len(topItems) == 0 {
		return fmt.Errorf("ranking produced no items")
	}
	for i, item := range topItems {
		p.log.Info().Int("rank", i+1).Str("title", item.Title).Msg("Selected item")
	}

	executiveSummary := p.ranker.GenerateExecutiveSummary(ctx, topItems)

	digest := core.Digest{
		Date:             now,
		ExecutiveSummary: executiveSummary,
		TLDR:             tldr,
		Items:            topItems,
	}

	delivered := false
	for _, channel := range p.channels {
		if err := channel.Deliverer.SendNewsletter(digest, dateStr); err != nil {
			p.log.Error().Err(err).Str("channel", channel.Name).Msg("Delivery failed")
			continue
		}
		p.log.Info().Str("channel", channel.Name).Msg("Delivered newsletter")
		delivered = true
	}

	if !delivered {
		return fmt.Errorf("all delivery channels failed")
	}

	p.log.Info().Msg("Newsletter run completed")
	return nil
}
