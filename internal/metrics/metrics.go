// Package metrics defines the Prometheus metrics exposed by the bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Scraper metrics
	ScraperRequestsTotal   *prometheus.CounterVec
	ScraperDurationSeconds *prometheus.HistogramVec

	// Cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal prometheus.Counter

	// Webhook metrics
	WebhookDurationSeconds *prometheus.HistogramVec
	WebhookRequestsTotal   *prometheus.CounterVec

	// Rate limiter metrics
	RateLimiterDropped *prometheus.CounterVec

	// Singleflight metrics
	SingleflightDedupTotal prometheus.Counter
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		ScraperRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nmubot_scraper_requests_total",
				Help: "Total number of scraper requests by operation and status",
			},
			[]string{"operation", "status"}, // operation: catalog, details; status: success, error
		),

		ScraperDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nmubot_scraper_duration_seconds",
				Help:    "Scraper request duration in seconds by operation",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 15}, // matches 15s request timeout
			},
			[]string{"operation"},
		),

		CacheHitsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nmubot_catalog_cache_hits_total",
				Help: "Total number of catalog cache hits by kind",
			},
			[]string{"kind"}, // kind: fresh, stale
		),

		CacheMissesTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "nmubot_catalog_cache_misses_total",
				Help: "Total number of catalog cache misses",
			},
		),

		WebhookDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nmubot_webhook_duration_seconds",
				Help:    "Update processing duration in seconds by update type",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 15, 30},
			},
			[]string{"update_type"}, // update_type: message, callback
		),

		WebhookRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nmubot_webhook_requests_total",
				Help: "Total number of processed updates by update type and status",
			},
			[]string{"update_type", "status"}, // status: success, error, dropped
		),

		RateLimiterDropped: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nmubot_rate_limiter_dropped_total",
				Help: "Total number of updates dropped by rate limiting",
			},
			[]string{"scope"}, // scope: chat
		),

		SingleflightDedupTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "nmubot_singleflight_dedup_total",
				Help: "Total number of catalog fetches coalesced by singleflight",
			},
		),
	}
}

// RecordScrape records one scraper request outcome.
func (m *Metrics) RecordScrape(operation, status string, seconds float64) {
	m.ScraperRequestsTotal.WithLabelValues(operation, status).Inc()
	m.ScraperDurationSeconds.WithLabelValues(operation).Observe(seconds)
}

// RecordWebhook records one processed update.
func (m *Metrics) RecordWebhook(updateType, status string, seconds float64) {
	m.WebhookRequestsTotal.WithLabelValues(updateType, status).Inc()
	m.WebhookDurationSeconds.WithLabelValues(updateType).Observe(seconds)
}

// RecordCacheHit records a catalog cache hit ("fresh" or "stale").
func (m *Metrics) RecordCacheHit(kind string) {
	m.CacheHitsTotal.WithLabelValues(kind).Inc()
}

// RecordCacheMiss records a catalog cache miss.
func (m *Metrics) RecordCacheMiss() {
	m.CacheMissesTotal.Inc()
}

// RecordRateLimiterDrop records an update dropped by the given limiter scope.
func (m *Metrics) RecordRateLimiterDrop(scope string) {
	m.RateLimiterDropped.WithLabelValues(scope).Inc()
}
