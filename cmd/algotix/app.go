package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"algotix/internal/assistant"
	"algotix/internal/authclient"
	"algotix/internal/config"
	"algotix/internal/events"
	"algotix/internal/history"
	"algotix/internal/llm"
	"algotix/internal/logging"
	"algotix/internal/session"
	"algotix/internal/storage"
	"algotix/internal/ticketing"
	"algotix/internal/wallet"
	"algotix/internal/wallet/walletconnect"
)

// chatSessionID identifies the single local conversation.
const chatSessionID int64 = 1

// app holds the lazily built dependencies shared by all commands.
type app struct {
	cfg *config.Config
	log logging.Logger
	out io.Writer
	in  io.Reader

	store   *session.Store
	closeDB func() error

	wallet    *wallet.Manager
	assistant *assistant.Assistant
	recorder  *storage.FileRecorder
}

func (a *app) close() {
	if a.closeDB != nil {
		if err := a.closeDB(); err != nil {
			a.log.Warn(context.Background(), "close session db", "error", err)
		}
	}
}

func (a *app) sessionStore(ctx context.Context) (*session.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	st, closeDB, err := session.Open(ctx, a.cfg.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	a.store, a.closeDB = st, closeDB
	return st, nil
}

// requireAuth opens the store and fails unless a user is signed in.
func (a *app) requireAuth(ctx context.Context) (*session.Store, error) {
	st, err := a.sessionStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := authclient.RequireAuth(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (a *app) authClient(ctx context.Context) (*authclient.Client, error) {
	st, err := a.sessionStore(ctx)
	if err != nil {
		return nil, err
	}
	return authclient.New(a.cfg.APIBaseURL, st, a.log), nil
}

func (a *app) tickets() *ticketing.Client {
	return ticketing.New(a.cfg.APIBaseURL, 15*time.Second)
}

func (a *app) walletManager() *wallet.Manager {
	if a.wallet != nil {
		return a.wallet
	}
	p := walletconnect.New(walletconnect.Options{
		BridgeURL:   a.cfg.WalletBridgeURL,
		SessionPath: a.cfg.WalletSessionPath,
		ChainID:     a.cfg.WalletChainID,
		Meta: walletconnect.PeerMeta{
			Name:        "AlgoTix",
			Description: "Event tickets as Algorand Standard Assets",
			URL:         "https://algotix.app",
		},
		Display: func(uri string) {
			fmt.Fprintf(a.out, "Open this link with your Pera Wallet to connect:\n\n  %s\n\nPress Ctrl+C to cancel.\n", uri)
		},
	}, a.log)
	a.wallet = wallet.NewManager(p, a.log)
	return a.wallet
}

func (a *app) interactions() (*storage.FileRecorder, error) {
	if a.recorder != nil {
		return a.recorder, nil
	}
	rec, err := storage.NewFileRecorder(a.cfg.InteractionLogPath)
	if err != nil {
		return nil, err
	}
	a.recorder = rec
	return rec, nil
}

func (a *app) chatAssistant() (*assistant.Assistant, error) {
	if a.assistant != nil {
		return a.assistant, nil
	}
	client, err := llm.New(a.cfg)
	if err != nil {
		return nil, fmt.Errorf("create llm client: %w", err)
	}
	if llm.IsSimulated(client) {
		a.log.Info(context.Background(), "no llm credential configured, using simulated replies")
	}
	rec, err := a.interactions()
	if err != nil {
		return nil, err
	}
	a.assistant = assistant.New(client, history.NewManager(), a.log,
		assistant.WithRecorder(rec),
		assistant.WithCatalog(events.All()),
	)
	return a.assistant, nil
}
