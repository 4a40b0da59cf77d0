package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"algotix/internal/assistant"
	"algotix/internal/config"
	"algotix/internal/events"
	"algotix/internal/history"
	"algotix/internal/llm"
	"algotix/internal/logging"
	"algotix/internal/mcpserver"
	"algotix/internal/storage"
	"algotix/internal/ticketing"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	// stdout carries the protocol; zap writes to stderr.
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	client, err := llm.New(cfg)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}
	opts := []assistant.Option{assistant.WithCatalog(events.All())}
	if rec, err := storage.NewFileRecorder(cfg.InteractionLogPath); err != nil {
		logger.Warn(context.Background(), "interaction log disabled", "error", err)
	} else {
		opts = append(opts, assistant.WithRecorder(rec))
	}
	asst := assistant.New(client, history.NewManager(), logger, opts...)

	tools := mcpserver.NewTools(asst, ticketing.New(cfg.APIBaseURL, 15*time.Second), logger)
	server := mcpserver.NewServer(tools, "1.0.0")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Starting AlgoTix MCP server...")
	if err := server.Run(ctx, mcp.NewStdioTransport()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
