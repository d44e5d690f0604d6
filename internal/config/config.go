// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// the Telegram bot, scraper timeouts, and cache settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Telegram Bot Configuration
	TelegramToken string
	WebhookSecret string // Expected X-Telegram-Bot-Api-Secret-Token value (empty = no check)
	WebhookPath   string

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)

	// Error tracking (Better Stack via Sentry SDK)
	SentryToken string
	SentryHost  string
	Environment string

	// Log shipping
	BetterStackToken    string
	BetterStackEndpoint string

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Catalog Configuration
	BaseURL  string        // Base site URL for resolving relative course links
	CacheTTL time.Duration // Freshness window for cached semester catalogs

	// Scraper Configuration
	ScraperTimeout    time.Duration
	ScraperMaxRetries int // 0 = single attempt per call

	// Rate Limits (token bucket per chat)
	ChatRateLimitBurst        float64
	ChatRateLimitRefillPerSec float64
}

// Load reads configuration from environment variables.
// It attempts to load .env file first, then reads from env vars.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookSecret: getEnv("TELEGRAM_WEBHOOK_SECRET", ""),
		WebhookPath:   getEnv("TELEGRAM_WEBHOOK_PATH", "/webhook"),

		MetricsUsername: getEnv("METRICS_USERNAME", "prometheus"),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),

		SentryToken: getEnv("SENTRY_TOKEN", ""),
		SentryHost:  getEnv("SENTRY_HOST", "errors.betterstack.com"),
		Environment: getEnv("ENVIRONMENT", "production"),

		BetterStackToken:    getEnv("BETTERSTACK_TOKEN", ""),
		BetterStackEndpoint: getEnv("BETTERSTACK_ENDPOINT", ""),

		Port:            getEnv("PORT", "10000"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),

		BaseURL:  getEnv("BASE_URL", DefaultBaseURL),
		CacheTTL: getDurationEnv("CACHE_TTL", CatalogCacheTTL),

		ScraperTimeout:    getDurationEnv("SCRAPER_TIMEOUT", ScraperRequest),
		ScraperMaxRetries: getIntEnv("SCRAPER_MAX_RETRIES", 0),

		ChatRateLimitBurst:        getFloatEnv("CHAT_RATE_LIMIT_BURST", 10.0),
		ChatRateLimitRefillPerSec: getFloatEnv("CHAT_RATE_LIMIT_REFILL_PER_SEC", 0.5), // 1 per 2s
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.TelegramToken == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.WebhookPath == "" || c.WebhookPath[0] != '/' {
		errs = append(errs, fmt.Errorf("TELEGRAM_WEBHOOK_PATH must start with '/', got %q", c.WebhookPath))
	}
	if c.BaseURL == "" {
		errs = append(errs, errors.New("BASE_URL is required"))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("CACHE_TTL must be positive, got %v", c.CacheTTL))
	}
	if c.ScraperTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SCRAPER_TIMEOUT must be positive, got %v", c.ScraperTimeout))
	}
	if c.ScraperMaxRetries < 0 {
		errs = append(errs, fmt.Errorf("SCRAPER_MAX_RETRIES cannot be negative, got %d", c.ScraperMaxRetries))
	}
	if c.ChatRateLimitBurst <= 0 {
		errs = append(errs, fmt.Errorf("CHAT_RATE_LIMIT_BURST must be positive, got %v", c.ChatRateLimitBurst))
	}
	if c.ChatRateLimitRefillPerSec <= 0 {
		errs = append(errs, fmt.Errorf("CHAT_RATE_LIMIT_REFILL_PER_SEC must be positive, got %v", c.ChatRateLimitRefillPerSec))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
