package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram sends through the Bot API. The underlying client is not
// context-aware, so the per-call bound required for sweeps comes from the
// HTTP client timeout set at construction.
type Telegram struct {
	api *tgbotapi.BotAPI
}

func NewTelegram(token string, timeout time.Duration) (*Telegram, error) {
	client := &http.Client{Timeout: timeout}
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	return &Telegram{api: api}, nil
}

func (t *Telegram) SendMessage(ctx context.Context, chatID int64, text string, keyboard [][]Button) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if markup := inlineMarkup(keyboard); markup != nil {
		msg.ReplyMarkup = *markup
	}

	_, err := t.api.Send(msg)
	if err != nil {
		return fmt.Errorf("%w: chat %d: %v", ErrDelivery, chatID, err)
	}
	return nil
}

func (t *Telegram) EditMessage(ctx context.Context, chatID int64, messageID int, text string, keyboard [][]Button) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var edit tgbotapi.EditMessageTextConfig
	if markup := inlineMarkup(keyboard); markup != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, *markup)
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, text)
	}

	_, err := t.api.Send(edit)
	if err != nil {
		return fmt.Errorf("%w: chat %d: %v", ErrDelivery, chatID, err)
	}
	return nil
}

func (t *Telegram) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := t.api.Request(tgbotapi.NewCallback(callbackID, text))
	if err != nil {
		return fmt.Errorf("%w: callback %s: %v", ErrDelivery, callbackID, err)
	}
	return nil
}

func inlineMarkup(keyboard [][]Button) *tgbotapi.InlineKeyboardMarkup {
	if len(keyboard) == 0 {
		return nil
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range keyboard {
		var buttons []tgbotapi.InlineKeyboardButton
		for _, b := range row {
			if b.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(b.Label, b.URL))
			} else {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
			}
		}
		rows = append(rows, buttons)
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}
