// Package youtube implements the video metadata provider client. A single
// logical search fans out into three API calls (search, videos, channels)
// whose results are merged into enriched records. The client carries the
// full middleware stack: per-endpoint rate limiting, daily quota budget,
// circuit breaking, and an optional Redis response cache.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/vidpulse/vidpulse/internal/cache"
	"github.com/vidpulse/vidpulse/internal/net/budget"
	"github.com/vidpulse/vidpulse/internal/net/ratelimit"
	"github.com/vidpulse/vidpulse/internal/recommend"
	"github.com/vidpulse/vidpulse/internal/telemetry"
	"github.com/vidpulse/vidpulse/internal/video"
)

// Quota unit costs per endpoint. Search is billed two orders of magnitude
// above plain list lookups.
const (
	costSearch   = 100
	costVideos   = 1
	costChannels = 1
)

// Config holds provider client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Region  string
	Timeout time.Duration

	RPS   float64
	Burst int

	DailyQuota     int64
	QuotaResetHour int

	BreakerFailures uint32
	BreakerCooloff  time.Duration
}

// Client is the metadata provider client. It satisfies recommend.Searcher.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *ratelimit.Limiter
	budget  *budget.Tracker
	breaker *gobreaker.CircuitBreaker
	cache   *cache.SearchCache
	metrics *telemetry.Metrics
	logger  zerolog.Logger
}

// NewClient creates a provider client, filling unset config fields with
// conservative free-tier defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.googleapis.com/youtube/v3"
	}
	if cfg.Region == "" {
		cfg.Region = "KR"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RPS == 0 {
		cfg.RPS = 5
	}
	if cfg.Burst == 0 {
		cfg.Burst = 5
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooloff == 0 {
		cfg.BreakerCooloff = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "youtube",
		Timeout: cfg.BreakerCooloff,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
	})

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: ratelimit.NewLimiter(cfg.RPS, cfg.Burst),
		budget:  budget.NewTracker(cfg.DailyQuota, cfg.QuotaResetHour),
		breaker: breaker,
		logger:  log.With().Str("component", "youtube").Logger(),
	}
}

// WithCache attaches an optional response cache.
func (c *Client) WithCache(sc *cache.SearchCache) *Client {
	c.cache = sc
	return c
}

// WithMetrics attaches the Prometheus registry.
func (c *Client) WithMetrics(m *telemetry.Metrics) *Client {
	c.metrics = m
	return c
}

// QuotaUsed returns the quota units consumed in the current window.
func (c *Client) QuotaUsed() int64 {
	return c.budget.Used()
}

// Search runs a keyword search and enriches each hit with statistics,
// duration, and the owning channel's subscriber count. An empty result set
// is returned as an empty slice, not an error.
func (c *Client) Search(ctx context.Context, q recommend.Query) ([]video.Record, error) {
	if strings.TrimSpace(q.Query) == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if q.MaxResults <= 0 {
		q.MaxResults = 10
	}

	key := searchCacheKey(q)
	if c.cache != nil {
		if records, ok := c.cache.Get(ctx, key); ok {
			return records, nil
		}
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", q.Query)
	params.Set("maxResults", fmt.Sprintf("%d", q.MaxResults))
	if q.Order != "" {
		params.Set("order", string(q.Order))
	}
	if !q.PublishedAfter.IsZero() {
		params.Set("publishedAfter", q.PublishedAfter.UTC().Format(time.RFC3339))
	}

	var sr searchResponse
	if err := c.get(ctx, "search", costSearch, params, &sr); err != nil {
		return nil, err
	}
	if len(sr.Items) == 0 {
		return []video.Record{}, nil
	}

	ids := make([]string, 0, len(sr.Items))
	for _, item := range sr.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}

	records, err := c.lookupVideos(ctx, ids)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(ctx, key, records)
	}
	return records, nil
}

// Trending returns the region's most popular videos, optionally constrained
// to one category, enriched the same way as search results.
func (c *Client) Trending(ctx context.Context, categoryID string, maxResults int) ([]video.Record, error) {
	if maxResults <= 0 {
		maxResults = 50
	}

	params := url.Values{}
	params.Set("part", "snippet,statistics,contentDetails")
	params.Set("chart", "mostPopular")
	params.Set("regionCode", c.cfg.Region)
	params.Set("maxResults", fmt.Sprintf("%d", maxResults))
	if categoryID != "" && categoryID != "all" {
		params.Set("videoCategoryId", categoryID)
	}

	var vr videoListResponse
	if err := c.get(ctx, "videos", costVideos, params, &vr); err != nil {
		return nil, err
	}
	if len(vr.Items) == 0 {
		return []video.Record{}, nil
	}

	return c.enrich(ctx, vr.Items)
}

// lookupVideos fetches details for the given video IDs and enriches them.
func (c *Client) lookupVideos(ctx context.Context, ids []string) ([]video.Record, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics,contentDetails")
	params.Set("id", strings.Join(ids, ","))

	var vr videoListResponse
	if err := c.get(ctx, "videos", costVideos, params, &vr); err != nil {
		return nil, err
	}
	if len(vr.Items) == 0 {
		return []video.Record{}, nil
	}

	return c.enrich(ctx, vr.Items)
}

// enrich joins channel subscriber counts onto the video items and builds the
// final records, sorted by view count descending. Channels missing from the
// statistics response keep an absent subscriber count.
func (c *Client) enrich(ctx context.Context, items []videoItem) ([]video.Record, error) {
	seen := make(map[string]bool)
	channelIDs := make([]string, 0, len(items))
	for _, item := range items {
		id := item.Snippet.ChannelID
		if id != "" && !seen[id] {
			seen[id] = true
			channelIDs = append(channelIDs, id)
		}
	}

	params := url.Values{}
	params.Set("part", "statistics")
	params.Set("id", strings.Join(channelIDs, ","))

	var cr channelListResponse
	if err := c.get(ctx, "channels", costChannels, params, &cr); err != nil {
		return nil, err
	}

	subscribers := make(map[string]channelStatistics, len(cr.Items))
	for _, ch := range cr.Items {
		subscribers[ch.ID] = ch.Statistics
	}

	records := make([]video.Record, 0, len(items))
	for _, item := range items {
		records = append(records, buildRecord(item, subscribers[item.Snippet.ChannelID]))
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ViewCount > records[j].ViewCount
	})
	return records, nil
}

func buildRecord(item videoItem, channel channelStatistics) video.Record {
	publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)

	r := video.Record{
		ID:              item.ID,
		Title:           item.Snippet.Title,
		ChannelTitle:    item.Snippet.ChannelTitle,
		ChannelID:       item.Snippet.ChannelID,
		PublishedAt:     publishedAt,
		ThumbnailURL:    item.Snippet.Thumbnails.Medium.URL,
		DurationSeconds: parseISODuration(item.ContentDetails.Duration),
	}

	r.ViewCount, _ = parseCount(item.Statistics.ViewCount)
	r.LikeCount, _ = parseCount(item.Statistics.LikeCount)
	r.CommentCount, r.HasCommentCount = parseCount(item.Statistics.CommentCount)

	if !channel.HiddenSubscribers {
		r.SubscriberCount, r.HasSubscriberCount = parseCount(channel.SubscriberCount)
	}

	return r
}

// get executes one API call through the middleware stack: quota budget, rate
// limiter, then the circuit breaker around the HTTP round trip.
func (c *Client) get(ctx context.Context, endpoint string, cost int64, params url.Values, out interface{}) error {
	if err := c.budget.Consume(cost); err != nil {
		c.observe(endpoint, "budget", 0)
		return fmt.Errorf("quota budget for %s: %w", endpoint, err)
	}

	if err := c.limiter.Wait(ctx, endpoint); err != nil {
		c.observe(endpoint, "rate_limit", 0)
		return fmt.Errorf("rate limit wait for %s: %w", endpoint, err)
	}

	params.Set("key", c.cfg.APIKey)
	reqURL := fmt.Sprintf("%s/%s?%s", c.cfg.BaseURL, endpoint, params.Encode())

	start := time.Now()
	body, err := c.breaker.Execute(func() (interface{}, error) {
		return c.roundTrip(ctx, reqURL)
	})
	elapsed := time.Since(start)

	if err != nil {
		c.observe(endpoint, "error", elapsed)
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Provider request failed")
		return fmt.Errorf("%s request: %w", endpoint, err)
	}

	c.observe(endpoint, "ok", elapsed)

	if err := json.Unmarshal(body.([]byte), out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, reqURL string) (interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		var apiErr apiErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	return body, nil
}

func (c *Client) observe(endpoint, result string, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.ProviderRequests.WithLabelValues(endpoint, result).Inc()
	if result == "ok" || result == "error" {
		c.metrics.ProviderLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
	}
}

// searchCacheKey normalizes a query into a stable cache key. The published
// window is bucketed to the hour so close-together calls share entries.
func searchCacheKey(q recommend.Query) string {
	after := ""
	if !q.PublishedAfter.IsZero() {
		after = q.PublishedAfter.UTC().Truncate(time.Hour).Format(time.RFC3339)
	}
	return fmt.Sprintf("%s|%d|%s|%s", q.Query, q.MaxResults, q.Order, after)
}
