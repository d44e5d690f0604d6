// Centralized timeout constants.
//
// Telegram acknowledges webhook deliveries quickly and retries on failure,
// so the HTTP acknowledgment path must stay fast while the actual update
// processing happens asynchronously with its own deadline.

package config

import "time"

// Webhook timeouts
const (
	// UpdateProcessing is the deadline for handling a single Telegram update.
	// Covers the worst case of a cold catalog fetch plus a detail fetch.
	UpdateProcessing = 60 * time.Second

	// WebhookHTTPRead is the HTTP server read timeout for webhook requests.
	// Telegram sends small JSON payloads.
	WebhookHTTPRead = 10 * time.Second

	// WebhookHTTPWrite is the HTTP server write timeout. The webhook endpoint
	// only writes a status code, so this mostly guards the metrics endpoint.
	WebhookHTTPWrite = 30 * time.Second

	// WebhookHTTPIdle is the HTTP server idle timeout for keep-alive connections.
	WebhookHTTPIdle = 120 * time.Second
)

// Scraper timeouts
const (
	// ScraperRequest is the timeout for a single HTTP request to the
	// catalog site. Must bound every fetch; there is no mid-flight abort
	// beyond context cancellation.
	ScraperRequest = 15 * time.Second
)

// Cache settings
const (
	// CatalogCacheTTL is the freshness window for a cached semester catalog.
	// Stale entries are kept past the TTL and served only when a refetch fails.
	CatalogCacheTTL = 3600 * time.Second
)
