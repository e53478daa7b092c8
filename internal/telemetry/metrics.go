// Package telemetry holds the Prometheus metrics registry shared by the
// provider, cache, and recommendation layers.
package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Metrics is the registry of all vidpulse Prometheus metrics.
type Metrics struct {
	registry *prometheus.Registry

	// Provider call metrics
	ProviderRequests *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec

	// Cache performance
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Strategy performance
	StrategyRuns     *prometheus.CounterVec
	StrategyDuration *prometheus.HistogramVec
	StrategyResults  *prometheus.GaugeVec

	// Live feed
	LiveClients prometheus.Gauge
}

// New creates a metrics registry with all vidpulse collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		ProviderRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vidpulse_provider_requests_total",
				Help: "Total provider API requests by endpoint and result",
			},
			[]string{"endpoint", "result"},
		),

		ProviderLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vidpulse_provider_latency_seconds",
				Help:    "Provider API request latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"endpoint"},
		),

		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "vidpulse_cache_hits_total",
				Help: "Total search cache hits",
			},
		),

		CacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "vidpulse_cache_misses_total",
				Help: "Total search cache misses",
			},
		),

		StrategyRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vidpulse_strategy_runs_total",
				Help: "Total recommendation strategy executions by strategy and result",
			},
			[]string{"strategy", "result"},
		),

		StrategyDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vidpulse_strategy_duration_seconds",
				Help:    "Recommendation strategy execution time in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"strategy"},
		),

		StrategyResults: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "vidpulse_strategy_results",
				Help: "Records returned by the most recent strategy run",
			},
			[]string{"strategy"},
		),

		LiveClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "vidpulse_live_clients",
				Help: "Connected live-feed WebSocket clients",
			},
		),
	}

	m.registry.MustRegister(
		m.ProviderRequests,
		m.ProviderLatency,
		m.CacheHits,
		m.CacheMisses,
		m.StrategyRuns,
		m.StrategyDuration,
		m.StrategyResults,
		m.LiveClients,
	)

	return m
}

// Registry exposes the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Snapshot gathers the current metric families keyed by name, used by the
// health endpoint and tests.
func (m *Metrics) Snapshot() (map[string]*dto.MetricFamily, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	out := make(map[string]*dto.MetricFamily, len(families))
	for _, fam := range families {
		out[fam.GetName()] = fam
	}
	return out, nil
}
