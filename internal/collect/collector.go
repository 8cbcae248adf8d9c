// Package collect gathers candidate items from the configured news sources.
// Each collector is isolated: one source failing never aborts the others.
package collect

import (
	"context"
	"sync"

	"mortgagebrief/internal/core"
	"mortgagebrief/internal/logger"
)

// descriptionLimit caps item descriptions at collection time.
const descriptionLimit = 500

// Collector fetches items from a single source.
type Collector interface {
	// Collect fetches items from the source.
	Collect(ctx context.Context) ([]core.Item, error)
	// SourceName returns the name of this source for logging.
	SourceName() string
}

// Gather runs all collectors concurrently and merges their results.
// A failed collector is logged and skipped; its failure does not affect the
// items gathered from the other sources. The merged order groups items by
// collector in the order the collectors were given.
func Gather(ctx context.Context, collectors []Collector) []core.Item {
	log := logger.Get()

	results := make([][]core.Item, len(collectors))
	var wg sync.WaitGroup

	for i, collector := range collectors {
		wg.Add(1)
		go func(i int, c Collector) {
			defer wg.Done()

			items, err := c.Collect(ctx)
			if err != nil {
				log.Error().Err(err).Str("source", c.SourceName()).Msg("Collector failed")
				return
			}
			log.Info().Str("source", c.SourceName()).Int("items", len(items)).Msg("Collected items")
			results[i] = items
		}(i, collector)
	}

	wg.Wait()

	var all []core.Item
	for _, items := range results {
		all = append(all, items...)
	}
	return all
}

func truncateDescription(s string) string {
	if len(s) > descriptionLimit {
		return s[:descriptionLimit]
	}
	return s
}
