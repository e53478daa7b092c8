package recommend

import (
	"context"
	"sort"

	"github.com/vidpulse/vidpulse/internal/metrics"
	"github.com/vidpulse/vidpulse/internal/video"
)

// HiddenGems runs the discovery strategy: recent, relevance-ordered searches
// over the term shortlist, filtered to mid-tier channels with real traction,
// ranked by engagement density, and deduplicated to one video per channel.
// Any fetch failure yields an empty result.
func (e *Engine) HiddenGems(ctx context.Context, terms []string) []video.Record {
	startedAt := e.clock()

	selected := terms
	if len(selected) > e.opts.GemQueries {
		selected = selected[:e.opts.GemQueries]
	}

	publishedAfter := e.clock().Add(-e.opts.GemWindow)

	var pool []video.Record
	for i, term := range selected {
		records, err := e.searcher.Search(ctx, Query{
			Query:          term,
			MaxResults:     e.opts.GemFetchSize,
			Order:          OrderRelevance,
			PublishedAfter: publishedAfter,
		})
		if err != nil {
			e.logger.Warn().Err(err).Str("term", term).Msg("Gem search failed, returning empty")
			e.finishRun(ctx, "hidden_gems", startedAt, i+1, 0, true)
			return []video.Record{}
		}
		pool = append(pool, records...)
	}

	// Mid-tier channel heuristic: enough views to prove traction, but a
	// subscriber base small enough to still count as undiscovered.
	filtered := pool[:0:0]
	for _, r := range pool {
		if r.ViewCount <= e.opts.GemMinViews {
			continue
		}
		if !r.HasSubscriberCount || r.SubscriberCount < e.opts.GemMinSubs || r.SubscriberCount > e.opts.GemMaxSubs {
			continue
		}
		filtered = append(filtered, r)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return engagementOf(filtered[i]) > engagementOf(filtered[j])
	})

	// One video per channel, keeping the highest-ranked entry.
	seen := make(map[string]bool, len(filtered))
	unique := filtered[:0:0]
	for _, r := range filtered {
		if seen[r.ChannelID] {
			continue
		}
		seen[r.ChannelID] = true
		unique = append(unique, r)
	}

	if len(unique) > e.opts.GemTopN {
		unique = unique[:e.opts.GemTopN]
	}

	e.finishRun(ctx, "hidden_gems", startedAt, len(selected), len(unique), false)
	return unique
}

func engagementOf(r video.Record) float64 {
	return metrics.EngagementDensity(r.ViewCount, r.LikeCount, r.CommentCountOrZero())
}
