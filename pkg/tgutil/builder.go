// Package tgutil provides utility functions for building Telegram messages
// with HTML markup and inline keyboards.
package tgutil

import (
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxMessageLength is the hard cap applied to outgoing message text.
// Telegram rejects longer payloads; truncation is a plain cut, not
// sentence-aware.
const MaxMessageLength = 4000

// Escape escapes text for safe interpolation into HTML-mode messages.
func Escape(s string) string {
	return html.EscapeString(s)
}

// Bold wraps already-escaped text in bold tags.
func Bold(s string) string {
	return "<b>" + s + "</b>"
}

// Link builds an HTML anchor. The title is escaped; the URL is used as-is.
func Link(title, url string) string {
	return `<a href='` + url + `'>` + Escape(title) + `</a>`
}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// NewHTMLMessage creates a text message with HTML parse mode and link
// previews disabled.
func NewHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, Truncate(text, MaxMessageLength))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	return msg
}

// NewHTMLEdit creates an edit of an existing message with HTML parse mode.
func NewHTMLEdit(chatID int64, messageID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, Truncate(text, MaxMessageLength))
	edit.ParseMode = tgbotapi.ModeHTML
	return edit
}

// CallbackButton creates a single inline keyboard button carrying an opaque
// callback token.
func CallbackButton(title, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(title, data)
}

// SingleColumnKeyboard builds an inline keyboard with one button per row,
// which is the layout Telegram renders best for long option lists.
func SingleColumnKeyboard(buttons ...tgbotapi.InlineKeyboardButton) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(b))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// JoinSections joins non-empty message sections, skipping absent ones.
func JoinSections(sections ...string) string {
	present := make([]string, 0, len(sections))
	for _, s := range sections {
		if strings.TrimSpace(s) != "" {
			present = append(present, s)
		}
	}
	return strings.Join(present, "\n")
}
