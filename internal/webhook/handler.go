// Package webhook receives Telegram webhook requests, validates them and
// dispatches updates to the bot processor asynchronously.
package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nmubot/nmu-telebot-go/internal/bot"
	"github.com/nmubot/nmu-telebot-go/internal/config"
	"github.com/nmubot/nmu-telebot-go/internal/ctxutil"
	"github.com/nmubot/nmu-telebot-go/internal/logger"
	"github.com/nmubot/nmu-telebot-go/internal/metrics"
	"github.com/nmubot/nmu-telebot-go/internal/sentry"
)

// secretTokenHeader carries the secret configured via setWebhook.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// Handler handles Telegram webhook requests.
type Handler struct {
	secretToken string
	metrics     *metrics.Metrics
	logger      *logger.Logger
	processor   *bot.Processor
	wg          sync.WaitGroup
}

// HandlerConfig holds configuration for creating a new Handler.
type HandlerConfig struct {
	SecretToken string
	Metrics     *metrics.Metrics
	Logger      *logger.Logger
	Processor   *bot.Processor
}

// NewHandler creates a new webhook handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		secretToken: cfg.SecretToken,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
		processor:   cfg.Processor,
	}
}

// Handle is the Gin handler for the webhook endpoint. It validates the
// secret token, acknowledges with 200 immediately and processes the update
// in the background, which keeps Telegram from re-sending updates while a
// slow scrape is in flight.
func (h *Handler) Handle(c *gin.Context) {
	if h.secretToken != "" && c.GetHeader(secretTokenHeader) != h.secretToken {
		h.logger.Warn("Webhook request with invalid secret token")
		c.Status(http.StatusUnauthorized)
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(c.Request.Body).Decode(&update); err != nil {
		h.logger.WithError(err).Error("Failed to decode webhook update")
		c.Status(http.StatusBadRequest)
		return
	}

	c.Status(http.StatusOK)

	h.wg.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				h.logger.WithField("panic", r).Error("Panic in async update processing")
			}
		}()

		h.processUpdate(update)
	})
}

// processUpdate runs a single update through the bot processor with a
// bounded lifetime and a request ID for tracing.
func (h *Handler) processUpdate(update tgbotapi.Update) {
	requestID := uuid.NewString()
	ctx := ctxutil.WithRequestID(context.Background(), requestID)
	ctx, cancel := context.WithTimeout(ctx, config.UpdateProcessing)
	defer cancel()

	log := h.logger.WithRequestID(requestID).WithField("update_id", update.UpdateID)
	start := time.Now()

	updateType := classifyUpdate(update)
	err := h.processor.ProcessUpdate(ctx, update)

	durationSeconds := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
		log.WithError(err).WithField("update_type", updateType).Error("Failed to process update")
		sentry.CaptureExceptionWithContext(ctx, err)
	}
	h.metrics.RecordWebhook(updateType, status, durationSeconds)

	log.WithField("update_type", updateType).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Info("Update processed")
}

func classifyUpdate(update tgbotapi.Update) string {
	switch {
	case update.Message != nil:
		return "message"
	case update.CallbackQuery != nil:
		return "callback"
	default:
		return "other"
	}
}

// Shutdown waits for all async update processing to complete.
// It returns an error if the context is canceled before completion.
func (h *Handler) Shutdown(ctx context.Context) error {
	c := make(chan struct{})
	go func() {
		defer close(c)
		h.wg.Wait()
	}()

	select {
	case <-c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
