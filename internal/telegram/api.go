package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the slice of *tgbotapi.BotAPI the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	// Request is for methods that answer with a bare boolean, such as
	// answerCallbackQuery.
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

var _ sender = (*tgbotapi.BotAPI)(nil)

// answerCallback stops the spinner on an inline button.
func (b *Bot) answerCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if _, err := b.s.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Warn(ctx, "failed to answer callback", "id", cb.ID, "error", err)
	}
}
