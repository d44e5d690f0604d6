package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiHandler_FanOut(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, nil),
	)

	log := slog.New(h)
	log.Info("hello")

	assert.Contains(t, a.String(), "hello")
	assert.Contains(t, b.String(), "hello")
}

func TestMultiHandler_NilHandlersFiltered(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(nil, slog.NewTextHandler(&buf, nil), nil)

	slog.New(h).Info("still works")

	assert.Contains(t, buf.String(), "still works")
}

func TestMultiHandler_LevelRespected(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)

	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))

	slog.New(h).Debug("verbose")

	assert.Contains(t, debugBuf.String(), "verbose")
	assert.Zero(t, warnBuf.Len(), "warn-level handler must not receive debug records")
}

func TestMultiHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(slog.NewTextHandler(&buf, nil))

	slog.New(h.WithAttrs([]slog.Attr{slog.String("module", "webhook")})).Info("tagged")

	out := buf.String()
	assert.True(t, strings.Contains(out, "module=webhook"), "expected attr in output, got %q", out)
}
