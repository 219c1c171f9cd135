package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitbot/internal/registration/flow"
)

func TestFromTelegram(t *testing.T) {
	t.Run("command message", func(t *testing.T) {
		raw := tgbotapi.Update{
			UpdateID: 5,
			Message: &tgbotapi.Message{
				From:     &tgbotapi.User{ID: 42},
				Chat:     &tgbotapi.Chat{ID: 43},
				Text:     "/start",
				Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
			},
		}
		u, ok := fromTelegram(raw)
		require.True(t, ok)
		assert.Equal(t, int64(42), u.UserID)
		assert.Equal(t, int64(43), u.ChatID)
		assert.Equal(t, "start", u.Command)
		assert.False(t, u.IsCallback())
	})

	t.Run("callback query", func(t *testing.T) {
		raw := tgbotapi.Update{
			CallbackQuery: &tgbotapi.CallbackQuery{
				ID:      "cb",
				From:    &tgbotapi.User{ID: 42},
				Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 43}},
				Data:    "report_day",
			},
		}
		u, ok := fromTelegram(raw)
		require.True(t, ok)
		assert.True(t, u.IsCallback())
		assert.Equal(t, "report_day", u.CallbackData)
		assert.Equal(t, int64(43), u.ChatID)
	})

	t.Run("non text updates are skipped", func(t *testing.T) {
		_, ok := fromTelegram(tgbotapi.Update{
			Message: &tgbotapi.Message{From: &tgbotapi.User{ID: 1}, Chat: &tgbotapi.Chat{ID: 1}},
		})
		assert.False(t, ok)
	})
}

func TestKeyboardMarkup(t *testing.T) {
	t.Run("yes no", func(t *testing.T) {
		markup, ok := keyboardMarkup(flow.KeyboardYesNo).(tgbotapi.ReplyKeyboardMarkup)
		require.True(t, ok)
		require.Len(t, markup.Keyboard, 1)
		assert.Equal(t, "Да", markup.Keyboard[0][0].Text)
		assert.Equal(t, "Нет", markup.Keyboard[0][1].Text)
		assert.True(t, markup.OneTimeKeyboard)
		assert.True(t, markup.ResizeKeyboard)
	})

	t.Run("report periods two per row", func(t *testing.T) {
		markup, ok := keyboardMarkup(flow.KeyboardReportPeriods).(tgbotapi.InlineKeyboardMarkup)
		require.True(t, ok)
		require.Len(t, markup.InlineKeyboard, 2)
		assert.Equal(t, "За день", markup.InlineKeyboard[0][0].Text)
		require.NotNil(t, markup.InlineKeyboard[1][1].CallbackData)
		assert.Equal(t, "report_year", *markup.InlineKeyboard[1][1].CallbackData)
	})

	t.Run("remove and none", func(t *testing.T) {
		_, ok := keyboardMarkup(flow.KeyboardRemove).(tgbotapi.ReplyKeyboardRemove)
		assert.True(t, ok)
		assert.Nil(t, keyboardMarkup(flow.KeyboardNone))
	})
}
