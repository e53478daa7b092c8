// Package cache provides Redis-backed caching of provider search responses.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/vidpulse/vidpulse/internal/telemetry"
	"github.com/vidpulse/vidpulse/internal/video"
)

const keyPrefix = "vidpulse:search:"

// entry wraps a cached batch with its fetch metadata.
type entry struct {
	Records  []video.Record `json:"records"`
	CachedAt time.Time      `json:"cached_at"`
}

// SearchCache caches search result batches keyed by normalized query
// parameters. Cache failures are never fatal: a broken Redis degrades to
// cache misses.
type SearchCache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *telemetry.Metrics
}

// New creates a search cache over the given Redis client.
func New(client *redis.Client, ttl time.Duration) *SearchCache {
	return &SearchCache{client: client, ttl: ttl}
}

// WithMetrics attaches the Prometheus registry.
func (c *SearchCache) WithMetrics(m *telemetry.Metrics) *SearchCache {
	c.metrics = m
	return c
}

// Get returns the cached batch for the key, if present and decodable.
func (c *SearchCache) Get(ctx context.Context, key string) ([]video.Record, bool) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		c.miss()
		return nil, false
	}

	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache entry corrupt, treating as miss")
		c.miss()
		return nil, false
	}

	c.hit()
	return e.Records, true
}

// Set stores a batch under the key with the configured TTL.
func (c *SearchCache) Set(ctx context.Context, key string, records []video.Record) {
	data, err := json.Marshal(entry{Records: records, CachedAt: time.Now().UTC()})
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache encode failed")
		return
	}

	if err := c.client.Set(ctx, keyPrefix+key, string(data), c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// Ping verifies connectivity for the health endpoint.
func (c *SearchCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *SearchCache) hit() {
	if c.metrics != nil {
		c.metrics.CacheHits.Inc()
	}
}

func (c *SearchCache) miss() {
	if c.metrics != nil {
		c.metrics.CacheMisses.Inc()
	}
}
