// Package telegram exposes the AlgoTix assistant as a Telegram bot.
package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"algotix/internal/assistant"
	"algotix/internal/logging"
	"algotix/internal/scheduler"
	"algotix/internal/session"
	"algotix/internal/storage"
	"algotix/internal/ticketing"
)

const resetCmd = "reset_ctx"

type Bot struct {
	api         *tgbotapi.BotAPI
	s           sender
	assistant   *assistant.Assistant
	status      ticketing.StatusSource
	recorder    storage.Recorder
	adminUserID int64
	log         logging.Logger
	now         func() time.Time

	wg sync.WaitGroup
}

type Deps struct {
	Assistant   *assistant.Assistant
	Status      ticketing.StatusSource
	Recorder    storage.Recorder
	AdminUserID int64
	Log         logging.Logger
}

func New(botToken string, d Deps) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	return &Bot{
		api:         api,
		s:           api,
		assistant:   d.Assistant,
		status:      d.Status,
		recorder:    d.Recorder,
		adminUserID: d.AdminUserID,
		log:         d.Log,
		now:         time.Now,
	}, nil
}

// Start consumes updates until ctx is cancelled. Each message is handled on
// its own goroutine.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	b.log.Info(ctx, "telegram bot started", "username", b.api.Self.UserName)

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		b.wg.Add(1)
		go func(update tgbotapi.Update) {
			defer b.wg.Done()
			b.handleUpdate(ctx, update)
		}(update)
	}
	b.wg.Wait()
}

// ScheduleDailyReport sends the admin the usage summary of the current UTC
// day every evening at 21:00 UTC.
func (b *Bot) ScheduleDailyReport(s *scheduler.Scheduler) error {
	if b.adminUserID == 0 {
		b.log.Warn(context.Background(), "ADMIN_USER not set, daily report disabled")
		return nil
	}
	return s.At(scheduler.DailyReportSpec, "daily-report", b.dailyReport)
}

func (b *Bot) dailyReport(ctx context.Context) error {
	return b.sendReport(ctx, b.adminUserID, b.now().UTC())
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		if update.Message.IsCommand() {
			b.handleCommand(ctx, update.Message)
			return
		}
		b.handleIncomingMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		b.log.Error(context.Background(), "failed to send message", "chat", chatID, "error", err)
	}
}

func displayName(u *tgbotapi.User) string {
	if u == nil {
		return session.DefaultDisplayName
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	if u.UserName != "" {
		return u.UserName
	}
	return session.DefaultDisplayName
}
