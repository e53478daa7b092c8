package recommend

import (
	"context"
	"sort"

	"github.com/vidpulse/vidpulse/internal/video"
)

// Rising runs the velocity prediction strategy: one date-ordered search over
// the trend query restricted to the last day, scored by views accumulated
// per hour since publication. Records published moments ago are floored to a
// one hour age so the division cannot blow up. The transient score is not
// part of the returned shape. A fetch failure yields an empty result.
func (e *Engine) Rising(ctx context.Context) []video.Record {
	startedAt := e.clock()
	now := e.clock()

	records, err := e.searcher.Search(ctx, Query{
		Query:          e.opts.RisingQuery,
		MaxResults:     e.opts.RisingFetchSize,
		Order:          OrderDate,
		PublishedAfter: now.Add(-e.opts.RisingWindow),
	})
	if err != nil {
		e.logger.Warn().Err(err).Msg("Rising search failed, returning empty")
		e.finishRun(ctx, "rising", startedAt, 1, 0, true)
		return []video.Record{}
	}

	scores := make([]float64, len(records))
	for i, r := range records {
		hoursOld := now.Sub(r.PublishedAt).Hours()
		if hoursOld < 1 {
			hoursOld = 1
		}
		scores[i] = float64(r.ViewCount) / hoursOld
	}

	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return scores[idx[i]] > scores[idx[j]]
	})

	topN := e.opts.RisingTopN
	if topN > len(idx) {
		topN = len(idx)
	}
	out := make([]video.Record, 0, topN)
	for _, i := range idx[:topN] {
		out = append(out, records[i])
	}

	e.finishRun(ctx, "rising", startedAt, 1, len(out), false)
	return out
}
