// Package recommend implements the recommendation strategies over batches of
// fetched video records. Every strategy is stateless per call: it issues a
// bounded, sequential series of searches through the injected Searcher,
// ranks the results, and returns a new batch. External failures degrade the
// output instead of propagating; no strategy ever halts the caller.
package recommend

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vidpulse/vidpulse/internal/telemetry"
	"github.com/vidpulse/vidpulse/internal/video"
)

// Order selects the provider-side result ordering for a search.
type Order string

const (
	OrderRelevance Order = "relevance"
	OrderDate      Order = "date"
	OrderViewCount Order = "viewCount"
)

// Query describes one search request against the video metadata provider.
type Query struct {
	Query          string
	MaxResults     int
	Order          Order
	PublishedAfter time.Time
}

// Searcher is the external video metadata collaborator. An empty result is
// not an error; errors indicate the fetch itself failed (network, quota,
// auth) and are swallowed by the strategies.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]video.Record, error)
}

// Run summarizes one strategy execution for the optional history sink.
type Run struct {
	Strategy  string
	Queries   int
	Results   int
	Duration  time.Duration
	StartedAt time.Time
}

// RunSink records strategy runs. Implementations must tolerate being called
// off the hot path; errors are logged and ignored.
type RunSink interface {
	RecordRun(ctx context.Context, run Run) error
}

// Options bounds the external call volume and result sizes per strategy.
// The caps exist to control provider quota consumption: searches are issued
// sequentially and each strategy stops after its query budget.
type Options struct {
	KeywordQueries   int // keyword searches per aggregation call
	KeywordFetchSize int // results requested per keyword
	KeywordTopN      int // videos kept per keyword digest

	GemQueries   int           // discovery searches per call
	GemFetchSize int           // results requested per term
	GemWindow    time.Duration // recency window for discovery
	GemMinViews  int64
	GemMinSubs   int64
	GemMaxSubs   int64
	GemTopN      int

	RisingQuery     string
	RisingFetchSize int
	RisingWindow    time.Duration
	RisingTopN      int
}

// DefaultOptions returns the production call budget and caps.
func DefaultOptions() Options {
	return Options{
		KeywordQueries:   4,
		KeywordFetchSize: 10,
		KeywordTopN:      5,

		GemQueries:   3,
		GemFetchSize: 15,
		GemWindow:    7 * 24 * time.Hour,
		GemMinViews:  1000,
		GemMinSubs:   10000,
		GemMaxSubs:   500000,
		GemTopN:      20,

		RisingQuery:     "최신 트렌드 OR 화제 OR 인기급상승",
		RisingFetchSize: 30,
		RisingWindow:    24 * time.Hour,
		RisingTopN:      15,
	}
}

// DefaultKeywords is the candidate keyword shortlist for the combination
// strategy.
var DefaultKeywords = []string{
	"최신 트렌드",
	"AI 인공지능",
	"맛집 리뷰",
	"여행 vlog",
	"운동 루틴",
	"책 추천",
	"투자 재테크",
	"요리 레시피",
}

// DefaultGemTerms is the discovery term shortlist for the hidden gem
// strategy.
var DefaultGemTerms = []string{
	"신규채널 추천",
	"숨은 맛집",
	"꿀팁 정보",
	"신인 아티스트",
	"소규모 크리에이터",
}

// Engine executes the recommendation strategies.
type Engine struct {
	searcher Searcher
	opts     Options
	clock    func() time.Time
	logger   zerolog.Logger
	sink     RunSink
	metrics  *telemetry.Metrics
}

// NewEngine creates a strategy engine over the given searcher.
func NewEngine(searcher Searcher, opts Options) *Engine {
	if opts.KeywordQueries <= 0 {
		opts = DefaultOptions()
	}
	return &Engine{
		searcher: searcher,
		opts:     opts,
		clock:    time.Now,
		logger:   log.With().Str("component", "recommend").Logger(),
	}
}

// WithClock overrides the wall clock, used by velocity scoring and recency
// windows.
func (e *Engine) WithClock(clock func() time.Time) *Engine {
	e.clock = clock
	return e
}

// WithSink attaches an optional run history sink.
func (e *Engine) WithSink(sink RunSink) *Engine {
	e.sink = sink
	return e
}

// WithMetrics attaches the Prometheus registry.
func (e *Engine) WithMetrics(m *telemetry.Metrics) *Engine {
	e.metrics = m
	return e
}

// Options returns the engine's call budget configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// finishRun reports one completed strategy execution to logs, metrics, and
// the optional sink.
func (e *Engine) finishRun(ctx context.Context, strategy string, startedAt time.Time, queries, results int, degraded bool) {
	duration := e.clock().Sub(startedAt)

	outcome := "ok"
	if degraded {
		outcome = "degraded"
	}

	e.logger.Info().
		Str("strategy", strategy).
		Int("queries", queries).
		Int("results", results).
		Dur("duration", duration).
		Str("result", outcome).
		Msg("Strategy run completed")

	if e.metrics != nil {
		e.metrics.StrategyRuns.WithLabelValues(strategy, outcome).Inc()
		e.metrics.StrategyDuration.WithLabelValues(strategy).Observe(duration.Seconds())
		e.metrics.StrategyResults.WithLabelValues(strategy).Set(float64(results))
	}

	if e.sink != nil {
		run := Run{
			Strategy:  strategy,
			Queries:   queries,
			Results:   results,
			Duration:  duration,
			StartedAt: startedAt,
		}
		if err := e.sink.RecordRun(ctx, run); err != nil {
			e.logger.Warn().Err(err).Str("strategy", strategy).Msg("Run sink write failed")
		}
	}
}
