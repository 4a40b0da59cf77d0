package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"algotix/internal/analytics"
	"algotix/internal/assistant"
	"algotix/internal/events"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.assistant.History().Reset(msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, greetingFor(msg.From))
	case "events":
		b.sendMessage(msg.Chat.ID, eventList())
	case "insight":
		b.handleInsight(ctx, msg)
	case "status":
		b.handleStatus(ctx, msg)
	case "reset":
		b.assistant.History().Reset(msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, "Conversation reset. Fresh orbit!")
	case "report":
		if msg.From == nil || msg.From.ID != b.adminUserID {
			b.sendMessage(msg.Chat.ID, "This command is only available to the administrator.")
			return
		}
		if err := b.sendReport(ctx, msg.Chat.ID, b.now().UTC()); err != nil {
			b.log.Error(ctx, "report generation failed", "error", err)
			b.sendMessage(msg.Chat.ID, fmt.Sprintf("Report failed: %v", err))
		}
	default:
		b.sendMessage(msg.Chat.ID, "Unknown command. Try /events, /insight <id>, /status or just ask me anything.")
	}
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if strings.TrimSpace(msg.Text) == "" {
		return
	}
	b.log.Debug(ctx, "incoming message", "chat", msg.Chat.ID, "text", msg.Text)

	reply := b.assistant.Chat(ctx, msg.Chat.ID, msg.Text)

	out := tgbotapi.NewMessage(msg.Chat.ID, reply)
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Reset conversation", resetCmd),
		),
	)
	if _, err := b.s.Send(out); err != nil {
		b.log.Error(ctx, "failed to send reply", "chat", msg.Chat.ID, "error", err)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	b.answerCallback(ctx, cb)
	if cb.Data != resetCmd || cb.Message == nil {
		return
	}
	b.assistant.History().Reset(cb.Message.Chat.ID)
	b.sendMessage(cb.Message.Chat.ID, "Conversation reset. Fresh orbit!")
}

func (b *Bot) handleInsight(ctx context.Context, msg *tgbotapi.Message) {
	id, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	if err != nil {
		b.sendMessage(msg.Chat.ID, "Usage: /insight <event id>")
		return
	}
	ev, ok := events.Find(id)
	if !ok {
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("No event with id %d. See /events.", id))
		return
	}
	b.sendMessage(msg.Chat.ID, fmt.Sprintf("%s\n%s", ev.Title, b.assistant.Insight(ctx, ev)))
}

func (b *Bot) handleStatus(ctx context.Context, msg *tgbotapi.Message) {
	if b.status == nil {
		b.sendMessage(msg.Chat.ID, "Node status is not configured.")
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	st, err := b.status.Status(ctx)
	if err != nil {
		b.log.Warn(ctx, "status check failed", "error", err)
		b.sendMessage(msg.Chat.ID, "Algorand node status is unavailable right now.")
		return
	}
	state := "offline"
	if st.Connected {
		state = "connected"
	}
	b.sendMessage(msg.Chat.ID, fmt.Sprintf("Algorand node: %s\nApp ID: %d\nTicket asset: %d\nLast round: %d",
		state, st.AppID, st.AssetID, st.LastRound))
}

func (b *Bot) sendReport(ctx context.Context, chatID int64, day time.Time) error {
	if b.recorder == nil {
		return fmt.Errorf("interaction log is not configured")
	}
	evs, err := b.recorder.LoadInteractions()
	if err != nil {
		return fmt.Errorf("load interactions: %w", err)
	}
	b.sendMessage(chatID, analytics.AnalyzeDay(evs, day).Summary())
	return nil
}

func greetingFor(u *tgbotapi.User) string {
	return assistant.Greeting(displayName(u))
}

func eventList() string {
	var bld strings.Builder
	bld.WriteString("Upcoming and ongoing events:\n")
	for _, e := range events.All() {
		bld.WriteString(e.String())
		bld.WriteString("\n")
	}
	return bld.String()
}
