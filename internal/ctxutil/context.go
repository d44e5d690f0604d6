// Package ctxutil provides type-safe context value management.
// Uses private key types to prevent collisions.
package ctxutil

import (
	"context"
	"strconv"
)

type contextKey string

const (
	chatIDKey    contextKey = "ctxutil.chatID"
	requestIDKey contextKey = "ctxutil.requestID"
)

// WithChatID adds a Telegram chat ID to the context.
// Chat ID identifies the conversation and is used for rate limiting
// and session lookups.
func WithChatID(ctx context.Context, chatID int64) context.Context {
	return context.WithValue(ctx, chatIDKey, chatID)
}

// GetChatID retrieves the chat ID from the context.
// Returns the chat ID and true if found, 0 and false otherwise.
func GetChatID(ctx context.Context) (int64, bool) {
	if v := ctx.Value(chatIDKey); v != nil {
		if chatID, ok := v.(int64); ok && chatID != 0 {
			return chatID, true
		}
	}
	return 0, false
}

// ChatIDString returns the chat ID from the context formatted as a string,
// or empty string if absent. Convenience for log attributes and limiter keys.
func ChatIDString(ctx context.Context) string {
	if chatID, ok := GetChatID(ctx); ok {
		return strconv.FormatInt(chatID, 10)
	}
	return ""
}

// WithRequestID adds a request ID to the context for log correlation.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
// Returns the request ID and true if found, empty string and false otherwise.
func GetRequestID(ctx context.Context) (string, bool) {
	if v := ctx.Value(requestIDKey); v != nil {
		if requestID, ok := v.(string); ok && requestID != "" {
			return requestID, true
		}
	}
	return "", false
}
