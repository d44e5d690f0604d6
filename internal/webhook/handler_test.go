package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmubot/nmu-telebot-go/internal/bot"
	"github.com/nmubot/nmu-telebot-go/internal/catalog"
	"github.com/nmubot/nmu-telebot-go/internal/config"
	"github.com/nmubot/nmu-telebot-go/internal/logger"
	"github.com/nmubot/nmu-telebot-go/internal/metrics"
	"github.com/nmubot/nmu-telebot-go/internal/scraper"
	"github.com/nmubot/nmu-telebot-go/internal/session"
	"github.com/nmubot/nmu-telebot-go/internal/storage"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
}

func (r *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, c)
	return tgbotapi.Message{}, nil
}

func (r *recordingSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func newTestHandler(t *testing.T, secret string) (*Handler, *recordingSender) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewWithWriter("error", io.Discard)
	m := metrics.New(prometheus.NewRegistry())
	sender := &recordingSender{}

	svc := catalog.NewService(
		scraper.NewClient(time.Second, 0),
		storage.NewCatalogCache(time.Hour),
		m,
		"http://127.0.0.1:0",
	)

	processor := bot.NewProcessor(bot.ProcessorConfig{
		Sender:    sender,
		Catalog:   svc,
		Sessions:  session.NewStore(),
		Logger:    log,
		Metrics:   m,
		Semesters: config.Semesters(),
	})

	h := NewHandler(HandlerConfig{
		SecretToken: secret,
		Metrics:     m,
		Logger:      log,
		Processor:   processor,
	})
	return h, sender
}

func postUpdate(t *testing.T, h *Handler, secret string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.POST("/webhook", h.Handle)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(secretTokenHeader, secret)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func startUpdateBody(t *testing.T) []byte {
	t.Helper()
	update := tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: 1,
			Chat:      &tgbotapi.Chat{ID: 42},
			Text:      "/start",
			Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
		},
	}
	body, err := json.Marshal(update)
	require.NoError(t, err)
	return body
}

func waitProcessed(t *testing.T, h *Handler) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, h.Shutdown(ctx))
}

func TestHandle(t *testing.T) {
	t.Run("valid update is accepted and processed", func(t *testing.T) {
		h, sender := newTestHandler(t, "s3cret")

		w := postUpdate(t, h, "s3cret", startUpdateBody(t))
		assert.Equal(t, http.StatusOK, w.Code)

		waitProcessed(t, h)
		assert.Equal(t, 1, sender.count())
	})

	t.Run("invalid secret token is rejected", func(t *testing.T) {
		h, sender := newTestHandler(t, "s3cret")

		w := postUpdate(t, h, "wrong", startUpdateBody(t))
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		waitProcessed(t, h)
		assert.Zero(t, sender.count())
	})

	t.Run("missing secret token is rejected", func(t *testing.T) {
		h, _ := newTestHandler(t, "s3cret")

		w := postUpdate(t, h, "", startUpdateBody(t))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("no secret configured accepts any request", func(t *testing.T) {
		h, sender := newTestHandler(t, "")

		w := postUpdate(t, h, "", startUpdateBody(t))
		assert.Equal(t, http.StatusOK, w.Code)

		waitProcessed(t, h)
		assert.Equal(t, 1, sender.count())
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		h, _ := newTestHandler(t, "")

		w := postUpdate(t, h, "", []byte("{not json"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update without message or callback is a no-op", func(t *testing.T) {
		h, sender := newTestHandler(t, "")

		w := postUpdate(t, h, "", []byte(`{"update_id": 7}`))
		assert.Equal(t, http.StatusOK, w.Code)

		waitProcessed(t, h)
		assert.Zero(t, sender.count())
	})
}

func TestShutdownTimeout(t *testing.T) {
	h, _ := newTestHandler(t, "")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, h.Shutdown(ctx))
}

func TestClassifyUpdate(t *testing.T) {
	assert.Equal(t, "message", classifyUpdate(tgbotapi.Update{Message: &tgbotapi.Message{}}))
	assert.Equal(t, "callback", classifyUpdate(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{}}))
	assert.Equal(t, "other", classifyUpdate(tgbotapi.Update{}))
}
