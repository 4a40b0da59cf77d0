package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"algotix/internal/assistant"
	"algotix/internal/config"
	"algotix/internal/events"
	"algotix/internal/history"
	"algotix/internal/llm"
	"algotix/internal/logging"
	"algotix/internal/scheduler"
	"algotix/internal/storage"
	"algotix/internal/telegram"
	"algotix/internal/ticketing"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.TelegramBotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	client, err := llm.New(cfg)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}
	rec, err := storage.NewFileRecorder(cfg.InteractionLogPath)
	if err != nil {
		log.Fatalf("failed to init interaction log: %v", err)
	}
	asst := assistant.New(client, history.NewManager(), logger,
		assistant.WithRecorder(rec),
		assistant.WithCatalog(events.All()),
	)

	bot, err := telegram.New(cfg.TelegramBotToken, telegram.Deps{
		Assistant:   asst,
		Status:      ticketing.New(cfg.APIBaseURL, 15*time.Second),
		Recorder:    rec,
		AdminUserID: cfg.AdminUserID,
		Log:         logger,
	})
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(logger)
	if err := bot.ScheduleDailyReport(sched); err != nil {
		log.Fatalf("failed to schedule daily report: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	bot.Start(ctx)
	logger.Info(context.Background(), "bot stopped")
}
