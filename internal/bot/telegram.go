package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"recruitbot/internal/registration/flow"
	"recruitbot/internal/report"
)

const pollTimeoutSeconds = 60

// Telegram is the Bot API transport. It implements Messenger and feeds updates
// to a handler one at a time.
type Telegram struct {
	api    *tgbotapi.BotAPI
	logger *slog.Logger
}

// NewTelegram authenticates with token.
func NewTelegram(token string, debug bool, logger *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	api.Debug = debug
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Info("authorized on telegram", "username", api.Self.UserName)
	return &Telegram{api: api, logger: logger}, nil
}

// Run long-polls for updates until ctx is cancelled. Handler errors are logged by
// the handler itself and never stop the loop.
func (t *Telegram) Run(ctx context.Context, handle func(context.Context, Update) error) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeoutSeconds
	updates := t.api.GetUpdatesChan(cfg)
	defer t.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-updates:
			if !ok {
				return nil
			}
			u, ok := fromTelegram(raw)
			if !ok {
				continue
			}
			_ = handle(ctx, u)
		}
	}
}

func fromTelegram(raw tgbotapi.Update) (Update, bool) {
	switch {
	case raw.CallbackQuery != nil:
		q := raw.CallbackQuery
		u := Update{
			ID:           raw.UpdateID,
			UserID:       q.From.ID,
			CallbackID:   q.ID,
			CallbackData: q.Data,
		}
		if q.Message != nil {
			u.ChatID = q.Message.Chat.ID
		} else {
			u.ChatID = q.From.ID
		}
		return u, true
	case raw.Message != nil && raw.Message.From != nil && raw.Message.Text != "":
		m := raw.Message
		return Update{
			ID:      raw.UpdateID,
			UserID:  m.From.ID,
			ChatID:  m.Chat.ID,
			Text:    m.Text,
			Command: m.Command(),
		}, true
	}
	return Update{}, false
}

func (t *Telegram) Send(_ context.Context, chatID int64, reply flow.Reply) error {
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if reply.HTML {
		msg.ParseMode = tgbotapi.ModeHTML
	}
	if markup := keyboardMarkup(reply.Keyboard); markup != nil {
		msg.ReplyMarkup = markup
	}
	_, err := t.api.Send(msg)
	return err
}

func (t *Telegram) SendDocument(_ context.Context, chatID int64, path string) error {
	_, err := t.api.Send(tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path)))
	return err
}

func (t *Telegram) AnswerCallback(_ context.Context, callbackID string) error {
	_, err := t.api.Request(tgbotapi.NewCallback(callbackID, ""))
	return err
}

func keyboardMarkup(kb flow.Keyboard) any {
	switch kb {
	case flow.KeyboardYesNo:
		row := make([]tgbotapi.KeyboardButton, 0, 2)
		for _, answer := range flow.YesNoAnswers() {
			row = append(row, tgbotapi.NewKeyboardButton(answer))
		}
		markup := tgbotapi.NewReplyKeyboard(row)
		markup.OneTimeKeyboard = true
		markup.ResizeKeyboard = true
		return markup
	case flow.KeyboardRemove:
		return tgbotapi.NewRemoveKeyboard(true)
	case flow.KeyboardReportPeriods:
		return reportKeyboard()
	}
	return nil
}

// reportKeyboard lays the periods out two per row.
func reportKeyboard() tgbotapi.InlineKeyboardMarkup {
	periods := report.Periods()
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(periods); i += 2 {
		var row []tgbotapi.InlineKeyboardButton
		for _, p := range periods[i:min(i+2, len(periods))] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(p.Label(), ReportCallbackData(string(p))))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
