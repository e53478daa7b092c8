package recommend

import (
	"context"
	"sort"

	"github.com/vidpulse/vidpulse/internal/metrics"
	"github.com/vidpulse/vidpulse/internal/video"
)

// KeywordDigest is the aggregated result for one keyword: its top fetched
// videos, the summed view count across the fetched set, and the mean
// per-video engagement density.
type KeywordDigest struct {
	Keyword       string         `json:"keyword"`
	Videos        []video.Record `json:"videos"`
	TotalViews    int64          `json:"total_views"`
	AvgEngagement float64        `json:"avg_engagement"`
}

// Keywords runs the keyword combination strategy: one search per keyword up
// to the configured query budget, one digest per non-empty result set,
// digests ordered descending by mean engagement density. A keyword whose
// fetch fails or returns nothing contributes no digest; the failure is
// logged and the remaining keywords still run.
func (e *Engine) Keywords(ctx context.Context, candidates []string) []KeywordDigest {
	startedAt := e.clock()

	selected := candidates
	if len(selected) > e.opts.KeywordQueries {
		selected = selected[:e.opts.KeywordQueries]
	}

	digests := make([]KeywordDigest, 0, len(selected))
	degraded := false

	for _, keyword := range selected {
		records, err := e.searcher.Search(ctx, Query{
			Query:      keyword,
			MaxResults: e.opts.KeywordFetchSize,
		})
		if err != nil {
			e.logger.Warn().Err(err).Str("keyword", keyword).Msg("Keyword search failed, skipping")
			degraded = true
			continue
		}
		if len(records) == 0 {
			continue
		}

		var totalViews int64
		var engagementSum float64
		for _, r := range records {
			totalViews += r.ViewCount
			engagementSum += metrics.EngagementDensity(r.ViewCount, r.LikeCount, r.CommentCountOrZero())
		}

		top := records
		if len(top) > e.opts.KeywordTopN {
			top = top[:e.opts.KeywordTopN]
		}

		digests = append(digests, KeywordDigest{
			Keyword:       keyword,
			Videos:        top,
			TotalViews:    totalViews,
			AvgEngagement: engagementSum / float64(len(records)),
		})
	}

	sort.SliceStable(digests, func(i, j int) bool {
		return digests[i].AvgEngagement > digests[j].AvgEngagement
	})

	results := 0
	for _, d := range digests {
		results += len(d.Videos)
	}
	e.finishRun(ctx, "keywords", startedAt, len(selected), results, degraded)

	return digests
}
