package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidpulse/vidpulse/internal/video"
)

func TestKeywords_DigestAggregation(t *testing.T) {
	searcher := &fakeSearcher{batches: map[string][]video.Record{
		"요리": {
			vid("v1", "ch1", 1000, 80, 20), // density 0.10
			vid("v2", "ch2", 2000, 100, 0), // density 0.05
		},
	}}
	engine := NewEngine(searcher, DefaultOptions()).WithClock(fixedClock(testNow))

	digests := engine.Keywords(context.Background(), []string{"요리"})

	require.Len(t, digests, 1)
	d := digests[0]
	assert.Equal(t, "요리", d.Keyword)
	assert.Equal(t, int64(3000), d.TotalViews)
	assert.InDelta(t, 0.075, d.AvgEngagement, 1e-9)
	require.Len(t, d.Videos, 2)
	// Videos stay in fetch order, not engagement order
	assert.Equal(t, "v1", d.Videos[0].ID)
	assert.Equal(t, "v2", d.Videos[1].ID)
}

func TestKeywords_TopNKeepsFetchOrder(t *testing.T) {
	records := make([]video.Record, 0, 8)
	for i := 0; i < 8; i++ {
		records = append(records, vid(string(rune('a'+i)), "ch", 1000, int64(i), 0))
	}
	searcher := &fakeSearcher{batches: map[string][]video.Record{"k": records}}
	engine := NewEngine(searcher, DefaultOptions()).WithClock(fixedClock(testNow))

	digests := engine.Keywords(context.Background(), []string{"k"})

	require.Len(t, digests, 1)
	require.Len(t, digests[0].Videos, 5)
	for i, r := range digests[0].Videos {
		assert.Equal(t, string(rune('a'+i)), r.ID)
	}
	// The digest aggregates stay computed over all eight fetched records
	assert.Equal(t, int64(8000), digests[0].TotalViews)
}

func TestKeywords_OrderedByEngagementDesc(t *testing.T) {
	searcher := &fakeSearcher{batches: map[string][]video.Record{
		"low":  {vid("v1", "ch1", 1000, 10, 0)},  // density 0.01
		"high": {vid("v2", "ch2", 1000, 200, 0)}, // density 0.20
		"mid":  {vid("v3", "ch3", 1000, 50, 0)},  // density 0.05
	}}
	engine := NewEngine(searcher, DefaultOptions()).WithClock(fixedClock(testNow))

	digests := engine.Keywords(context.Background(), []string{"low", "high", "mid"})

	require.Len(t, digests, 3)
	assert.Equal(t, "high", digests[0].Keyword)
	assert.Equal(t, "mid", digests[1].Keyword)
	assert.Equal(t, "low", digests[2].Keyword)
}

func TestKeywords_FailedKeywordSkipped(t *testing.T) {
	searcher := &fakeSearcher{
		batches: map[string][]video.Record{
			"ok": {vid("v1", "ch1", 1000, 50, 0)},
		},
		errs: map[string]error{
			"broken": errors.New("quota exceeded"),
		},
	}
	engine := NewEngine(searcher, DefaultOptions()).WithClock(fixedClock(testNow))

	digests := engine.Keywords(context.Background(), []string{"broken", "ok"})

	require.Len(t, digests, 1, "failure of one keyword must not block the rest")
	assert.Equal(t, "ok", digests[0].Keyword)
}

func TestKeywords_EmptyResultContributesNoDigest(t *testing.T) {
	searcher := &fakeSearcher{batches: map[string][]video.Record{
		"silent": nil,
		"ok":     {vid("v1", "ch1", 1000, 50, 0)},
	}}
	engine := NewEngine(searcher, DefaultOptions()).WithClock(fixedClock(testNow))

	digests := engine.Keywords(context.Background(), []string{"silent", "ok"})

	require.Len(t, digests, 1)
	assert.Equal(t, "ok", digests[0].Keyword)
}

func TestKeywords_AllFailuresYieldEmptySlice(t *testing.T) {
	searcher := &fakeSearcher{errs: map[string]error{
		"a": errors.New("down"),
		"b": errors.New("down"),
	}}
	engine := NewEngine(searcher, DefaultOptions()).WithClock(fixedClock(testNow))

	digests := engine.Keywords(context.Background(), []string{"a", "b"})
	assert.Empty(t, digests)
}
