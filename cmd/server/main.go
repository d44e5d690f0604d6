// Package main provides the Telegram bot server entry point.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nmubot/nmu-telebot-go/internal/bot"
	"github.com/nmubot/nmu-telebot-go/internal/catalog"
	"github.com/nmubot/nmu-telebot-go/internal/config"
	"github.com/nmubot/nmu-telebot-go/internal/logger"
	"github.com/nmubot/nmu-telebot-go/internal/metrics"
	"github.com/nmubot/nmu-telebot-go/internal/ratelimit"
	"github.com/nmubot/nmu-telebot-go/internal/scraper"
	"github.com/nmubot/nmu-telebot-go/internal/sentry"
	"github.com/nmubot/nmu-telebot-go/internal/session"
	"github.com/nmubot/nmu-telebot-go/internal/storage"
	"github.com/nmubot/nmu-telebot-go/internal/webhook"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger (with optional Better Stack log shipping)
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})
	slog.SetDefault(log.Logger)
	log.Info("Starting NMU Telegram Bot Server")

	// Initialize error tracking (no-op without a token)
	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.Environment,
	}); err != nil {
		log.WithError(err).Warn("Failed to initialize error tracking")
	} else if sentry.IsEnabled() {
		log.Info("Error tracking initialized")
		defer sentry.Flush(2 * time.Second)
	}

	// Create Prometheus registry
	registry := prometheus.NewRegistry()

	// Register Go and process collectors
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	// Create metrics
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Create Telegram API client
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.WithError(err).Fatal("Failed to create Telegram API client")
	}
	log.WithField("bot_username", api.Self.UserName).Info("Telegram API client created")

	// Create scraper client and catalog service
	scraperClient := scraper.NewClient(cfg.ScraperTimeout, cfg.ScraperMaxRetries)
	catalogCache := storage.NewCatalogCache(cfg.CacheTTL)
	catalogService := catalog.NewService(scraperClient, catalogCache, m, cfg.BaseURL)
	log.WithField("cache_ttl", cfg.CacheTTL).Info("Catalog service created")

	// Per-chat rate limiter
	chatLimiter := ratelimit.NewPerKeyLimiter(ratelimit.PerKeyLimiterConfig{
		MaxTokens:     cfg.ChatRateLimitBurst,
		RefillRate:    cfg.ChatRateLimitRefillPerSec,
		CleanupPeriod: 10 * time.Minute,
	})
	defer chatLimiter.Stop()

	// Create update processor
	processor := bot.NewProcessor(bot.ProcessorConfig{
		Sender:    api,
		Catalog:   catalogService,
		Sessions:  session.NewStore(),
		Limiter:   chatLimiter,
		Logger:    log,
		Metrics:   m,
		Semesters: config.Semesters(),
	})

	// Create webhook handler
	webhookHandler := webhook.NewHandler(webhook.HandlerConfig{
		SecretToken: cfg.WebhookSecret,
		Metrics:     m,
		Logger:      log,
		Processor:   processor,
	})
	log.Info("Webhook handler created")

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(log))

	// Setup routes
	setupRoutes(router, cfg, webhookHandler, catalogCache, registry)

	// Create HTTP server with timeouts suited for webhook handling
	// See internal/config/timeouts.go for detailed explanations
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  config.WebhookHTTPRead,
		WriteTimeout: config.WebhookHTTPWrite,
		IdleTimeout:  config.WebhookHTTPIdle,
	}

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	// Stop accepting new webhook requests
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	// Wait for in-flight update processing to finish
	if err := webhookHandler.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Timeout waiting for update processing to finish")
	}

	log.Info("Server stopped")
}
