package llm

import (
	"context"

	"github.com/rs/zerolog"

	"mortgagebrief/internal/core"
	"mortgagebrief/internal/logger"
)

const (
	// fallbackSummaryText fills an item summary when ranking is unavailable
	// and the item has no description.
	fallbackSummaryText = "No description available."
	// fallbackTLDR is the single TL;DR entry used when the ranking call
	// fails or its output cannot be parsed.
	fallbackTLDR = "Ranking was unavailable today; showing the most recent items collected."
	// emptyExecutiveSummary is returned without a model call when there are
	// no items to summarize.
	emptyExecutiveSummary = "No significant mortgage AI developments to report today."
	// fallbackExecutiveSummary is returned when the summary call fails.
	fallbackExecutiveSummary = "Today's mortgage AI landscape shows continued innovation across automation, lending technology, and AI-driven underwriting solutions."
)

// Completer is the completion surface the ranking service depends on.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service ranks, categorizes, and summarizes collected items using a
// completion endpoint, degrading to deterministic local output when the
// endpoint is unavailable.
type Service struct {
	completer Completer
	log       *zerolog.Logger
}

// NewService creates a ranking service backed by the given completer.
func NewService(completer Completer) *Service {
	return &Service{
		completer: completer,
		log:       logger.Get(),
	}
}

// RankAndCategorize asks the model to rank, categorize, and summarize the
// given items, returning at most six ranked items and the TL;DR bullets.
// On empty input it returns immediately without a network call. On any call
// or parse failure it falls back to the first items in input order; the run
// never fails solely because ranking is unavailable.
func (s *Service) RankAndCategorize(ctx context.Context, items []core.Item) ([]core.RankedItem, []string) {
	if len(items) == 0 {
		return nil, nil
	}

	prompt := buildRankingPrompt(items)

	response, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		s.log.Error().Err(err).Msg("Ranking call failed, using fallback ranking")
		return s.fallbackRanking(items)
	}

	ranked, tldr, err := parseRankingResponse(response, items)
	if err != nil {
		s.log.Error().Err(err).Msg("Ranking response unparseable, using fallback ranking")
		return s.fallbackRanking(items)
	}

	if len(ranked) > maxRankedItems {
		ranked = ranked[:maxRankedItems]
	}
	s.log.Info().Int("ranked", len(ranked)).Int("tldr", len(tldr)).Msg("Parsed ranked items from model")
	return ranked, tldr
}

// fallbackRanking returns the first items in input order with summaries
// filled from descriptions and every item categorized as workflow.
func (s *Service) fallbackRanking(items []core.Item) ([]core.RankedItem, []string) {
	n := len(items)
	if n > maxRankedItems {
		n = maxRankedItems
	}

	ranked := make([]core.RankedItem, 0, n)
	for _, item := range items[:n] {
		summary := item.Description
		if summary == "" {
			summary = fallbackSummaryText
		}
		ranked = append(ranked, item.Ranked(summary, 0, core.CategoryWorkflow))
	}

	return ranked, []string{fallbackTLDR}
}

// GenerateExecutiveSummary produces a short narrative summary of the top
// items. Empty input returns a fixed neutral sentence without a network
// call; a failed call returns a fixed fallback sentence.
func (s *Service) GenerateExecutiveSummary(ctx context.Context, items []core.RankedItem) string {
	if len(items) == 0 {
		return emptyExecutiveSummary
	}

	prompt := buildExecutiveSummaryPrompt(items)

	response, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		s.log.Error().Err(err).Msg("Executive summary generation failed, using fallback text")
		return fallbackExecutiveSummary
	}
	return response
}
