package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"algotix/internal/authclient"
	"algotix/internal/config"
	"algotix/internal/logging"
	"algotix/internal/server"
	"algotix/internal/tokens"
	"algotix/internal/users"
)

type fakeLedger struct{}

func (fakeLedger) LastRound(context.Context) (uint64, error) { return 42, nil }

func (fakeLedger) HoldsAsset(context.Context, string, uint64) (bool, error) { return true, nil }

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	svc, err := users.NewService(nil, tokens.NewIssuer([]byte("test"), time.Hour))
	require.NoError(t, err)
	backend := httptest.NewServer(server.New(server.Deps{
		Users:   svc,
		Ledger:  fakeLedger{},
		AppID:   1004,
		AssetID: 1005,
		Log:     logging.Nop(),
	}))
	t.Cleanup(backend.Close)

	cfg, err := config.Parse()
	require.NoError(t, err)
	dir := t.TempDir()
	cfg.APIBaseURL = backend.URL
	cfg.SessionDBPath = filepath.Join(dir, "session.db")
	cfg.WalletSessionPath = filepath.Join(dir, "wallet.json")
	cfg.InteractionLogPath = filepath.Join(dir, "interactions.jsonl")
	cfg.GeminiAPIKey = ""
	cfg.LLMProvider = config.ProviderGemini
	cfg.SimulatedDelay = time.Millisecond
	return cfg
}

// run executes one CLI invocation against a fresh app, as a new process would.
func run(t *testing.T, cfg *config.Config, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := &app{cfg: cfg, log: logging.Nop(), out: &out, in: strings.NewReader(stdin)}
	defer a.close()
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_AuthFlow(t *testing.T) {
	cfg := newTestConfig(t)

	_, err := run(t, cfg, "", "whoami")
	require.ErrorIs(t, err, authclient.ErrNotAuthenticated)

	out, err := run(t, cfg, "secret1\n", "signup", "--name", "Ada Lovelace", "--email", "ada@example.com")
	require.NoError(t, err)
	require.Contains(t, out, "Welcome, Ada Lovelace!")

	out, err = run(t, cfg, "", "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "Display name: Ada Lovelace")
	require.Contains(t, out, "ada@example.com")

	out, err = run(t, cfg, "", "name", "Captain")
	require.NoError(t, err)
	require.Equal(t, "Captain\n", out)

	out, err = run(t, cfg, "", "logout")
	require.NoError(t, err)
	require.Contains(t, out, "Signed out.")

	_, err = run(t, cfg, "", "whoami")
	require.ErrorIs(t, err, authclient.ErrNotAuthenticated)

	out, err = run(t, cfg, "", "name")
	require.NoError(t, err)
	require.Equal(t, "Captain\n", out)

	out, err = run(t, cfg, "", "login", "--email", "ada@example.com", "--password", "secret1")
	require.NoError(t, err)
	require.Contains(t, out, "Welcome, Ada Lovelace!")
}

func TestCLI_LoginValidation(t *testing.T) {
	cfg := newTestConfig(t)

	_, err := run(t, cfg, "abc\n", "login", "--email", "ada@example.com")
	require.EqualError(t, err, "Password must be at least 6 characters.")

	_, err = run(t, cfg, "", "login", "--email", "ada@example.com", "--password", "secret1")
	require.EqualError(t, err, "Invalid email or password")
}

func TestCLI_VerifyNeedsWallet(t *testing.T) {
	cfg := newTestConfig(t)

	_, err := run(t, cfg, "", "verify", "1")
	require.ErrorIs(t, err, authclient.ErrNotAuthenticated)

	_, err = run(t, cfg, "", "signup", "--name", "Ada", "--email", "ada@example.com", "--password", "secret1")
	require.NoError(t, err)

	out, err := run(t, cfg, "", "verify", "1")
	require.NoError(t, err)
	require.Contains(t, out, "Please connect your wallet first!")

	_, err = run(t, cfg, "", "verify", "99")
	require.EqualError(t, err, "no event with id 99")
}

func TestCLI_StatusAndEvents(t *testing.T) {
	cfg := newTestConfig(t)

	out, err := run(t, cfg, "", "status")
	require.NoError(t, err)
	require.Equal(t, "Algorand node: connected | app 1004 | asset 1005 | round 42\n", out)

	out, err = run(t, cfg, "", "events")
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 7)

	cfg.APIBaseURL = "http://127.0.0.1:1"
	out, err = run(t, cfg, "", "status")
	require.NoError(t, err)
	require.Equal(t, "Algorand node: disconnected\n", out)
}

func TestCLI_ChatAndStats(t *testing.T) {
	cfg := newTestConfig(t)
	_, err := run(t, cfg, "", "signup", "--name", "Ada", "--email", "ada@example.com", "--password", "secret1")
	require.NoError(t, err)

	out, err := run(t, cfg, "hello\n\n/reset\nwhat is on?\n/quit\n", "chat")
	require.NoError(t, err)
	require.Contains(t, out, "Ada")
	require.Contains(t, out, "Conversation reset.")

	out, err = run(t, cfg, "", "insight", "5")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "Quantum Techno Rave: "))

	out, err = run(t, cfg, "", "stats")
	require.NoError(t, err)
	require.NotEmpty(t, strings.TrimSpace(out))
}

func TestShortAddress(t *testing.T) {
	require.Equal(t, "ABCDEF...WXYZ", shortAddress("ABCDEFGHIJKLMNOPQRSTUVWXYZ"))
	require.Equal(t, "SHORT", shortAddress("SHORT"))
}
