package tgutil

import (
	"strings"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscape(t *testing.T) {
	assert.Equal(t, "a &lt;b&gt; &amp; c", Escape("a <b> & c"))
	assert.Equal(t, "Анализ", Escape("Анализ"))
}

func TestBold(t *testing.T) {
	assert.Equal(t, "<b>Анализ</b>", Bold("Анализ"))
}

func TestLink(t *testing.T) {
	got := Link("Курс <1>", "https://mccme.ru/ru/nmu/a/")
	assert.Equal(t, "<a href='https://mccme.ru/ru/nmu/a/'>Курс &lt;1&gt;</a>", got)
}

func TestTruncate(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		assert.Equal(t, "hello", Truncate("hello", 10))
	})

	t.Run("exact length unchanged", func(t *testing.T) {
		assert.Equal(t, "hello", Truncate("hello", 5))
	})

	t.Run("cuts to rune count", func(t *testing.T) {
		got := Truncate(strings.Repeat("п", 4100), MaxMessageLength)
		assert.Equal(t, MaxMessageLength, utf8.RuneCountInString(got))
	})

	t.Run("does not split multibyte runes", func(t *testing.T) {
		got := Truncate("ппп", 2)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, "пп", got)
	})
}

func TestNewHTMLMessage(t *testing.T) {
	msg := NewHTMLMessage(42, strings.Repeat("x", 5000))
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.True(t, msg.DisableWebPagePreview)
	assert.Len(t, msg.Text, MaxMessageLength)
}

func TestNewHTMLEdit(t *testing.T) {
	edit := NewHTMLEdit(42, 7, "text")
	assert.Equal(t, int64(42), edit.ChatID)
	assert.Equal(t, 7, edit.MessageID)
	assert.Equal(t, tgbotapi.ModeHTML, edit.ParseMode)
}

func TestSingleColumnKeyboard(t *testing.T) {
	kb := SingleColumnKeyboard(
		CallbackButton("A", "crs$aaaa"),
		CallbackButton("B", "crs$bbbb"),
	)
	require.Len(t, kb.InlineKeyboard, 2)
	require.Len(t, kb.InlineKeyboard[0], 1)
	assert.Equal(t, "A", kb.InlineKeyboard[0][0].Text)
	require.NotNil(t, kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "crs$aaaa", *kb.InlineKeyboard[0][0].CallbackData)
}

func TestJoinSections(t *testing.T) {
	got := JoinSections("a", "", "  ", "b")
	assert.Equal(t, "a\nb", got)
}
