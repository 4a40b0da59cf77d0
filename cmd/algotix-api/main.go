package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"algotix/internal/chain"
	"algotix/internal/config"
	"algotix/internal/logging"
	"algotix/internal/server"
	"algotix/internal/tokens"
	"algotix/internal/users"
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

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	repo, err := users.NewFileRepository(cfg.UsersFilePath)
	if err != nil {
		log.Fatalf("failed to init users repo: %v", err)
	}
	svc, err := users.NewService(repo, tokens.NewIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL))
	if err != nil {
		log.Fatalf("failed to load users: %v", err)
	}
	ledger, err := chain.NewAlgodLedger(cfg.AlgodAddress, cfg.AlgodToken)
	if err != nil {
		log.Fatalf("failed to create algod client: %v", err)
	}

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: server.New(server.Deps{
			Users:       svc,
			Ledger:      ledger,
			AppID:       cfg.AppID,
			AssetID:     cfg.AssetID,
			CORSOrigins: cfg.CORSOrigins,
			Log:         logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(gctx, "api listening", "addr", cfg.HTTPAddr, "users", svc.Count(), "algod", cfg.AlgodAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(context.Background(), "api stopped", "error", err)
		os.Exit(1)
	}
	logger.Info(context.Background(), "api stopped")
}
