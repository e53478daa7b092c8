// Package ratelimit provides per-endpoint token bucket limiting for the
// video metadata provider.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter rate limits requests per provider endpoint using token buckets.
type Limiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewLimiter creates a limiter with the specified requests per second and
// burst capacity applied to each endpoint independently.
func NewLimiter(rps float64, burst int) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

func (l *Limiter) limiterFor(endpoint string) *rate.Limiter {
	l.mu.RLock()
	limiter, ok := l.limiters[endpoint]
	l.mu.RUnlock()
	if ok {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring the write lock
	if limiter, ok := l.limiters[endpoint]; ok {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(l.rps), l.burst)
	l.limiters[endpoint] = limiter
	return limiter
}

// Allow reports whether a request to the endpoint may proceed immediately.
func (l *Limiter) Allow(endpoint string) bool {
	return l.limiterFor(endpoint).Allow()
}

// Wait blocks until a request to the endpoint is allowed or the context is
// cancelled.
func (l *Limiter) Wait(ctx context.Context, endpoint string) error {
	return l.limiterFor(endpoint).Wait(ctx)
}

// Tokens returns the tokens currently available for an endpoint.
func (l *Limiter) Tokens(endpoint string) float64 {
	return l.limiterFor(endpoint).Tokens()
}

// SetRPS updates the request rate for all endpoint buckets.
func (l *Limiter) SetRPS(rps float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rps = rps
	for _, limiter := range l.limiters {
		limiter.SetLimit(rate.Limit(rps))
	}
}
