// Package wallet keeps the single active wallet account and mediates the
// connect, reconnect and disconnect calls against a wallet provider.
package wallet

import (
	"context"
	"errors"
	"sync"

	"algotix/internal/logging"
)

// ErrConnectModalClosed is returned by providers when the user dismissed
// the connect prompt.
var ErrConnectModalClosed = errors.New("connect modal closed by user")

// Account is a wallet address. The zero value means no account.
type Account string

func (a Account) Present() bool { return a != "" }

type Provider interface {
	Connect(ctx context.Context) ([]string, error)
	ReconnectSession(ctx context.Context) ([]string, error)
	Disconnect(ctx context.Context) error
	// OnDisconnect registers fn to run when the session ends on the wallet side.
	OnDisconnect(fn func())
}

type Manager struct {
	provider Provider
	log      logging.Logger

	mu             sync.RWMutex
	account        Account
	onSessionEnded func()
}

func NewManager(p Provider, log logging.Logger) *Manager {
	return &Manager{provider: p, log: log}
}

// OnSessionEnded sets the hook invoked after a wallet-side disconnect.
// Dependent state should be discarded there.
func (m *Manager) OnSessionEnded(fn func()) {
	m.mu.Lock()
	m.onSessionEnded = fn
	m.mu.Unlock()
}

// Connect makes one user-initiated connect attempt.
func (m *Manager) Connect(ctx context.Context) Account {
	accounts, err := m.provider.Connect(ctx)
	if err != nil {
		if errors.Is(err, ErrConnectModalClosed) || ctx.Err() != nil {
			return ""
		}
		m.log.Error(ctx, "wallet connect failed", "error", err)
		return ""
	}
	return m.adopt(accounts)
}

// Reconnect resumes a previous session without user interaction.
func (m *Manager) Reconnect(ctx context.Context) Account {
	accounts, err := m.provider.ReconnectSession(ctx)
	if err != nil {
		m.log.Error(ctx, "wallet reconnect failed", "error", err)
		return ""
	}
	return m.adopt(accounts)
}

// Disconnect ends the session. It always returns the zero Account.
func (m *Manager) Disconnect(ctx context.Context) Account {
	if err := m.provider.Disconnect(ctx); err != nil {
		m.log.Warn(ctx, "wallet disconnect failed", "error", err)
	}
	m.set("")
	return ""
}

func (m *Manager) Current() Account {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.account
}

func (m *Manager) adopt(accounts []string) Account {
	if len(accounts) == 0 || accounts[0] == "" {
		return ""
	}
	acct := Account(accounts[0])
	m.set(acct)
	m.provider.OnDisconnect(m.sessionEnded)
	return acct
}

func (m *Manager) sessionEnded() {
	m.mu.Lock()
	m.account = ""
	hook := m.onSessionEnded
	m.mu.Unlock()
	m.log.Info(context.Background(), "wallet session ended by provider")
	if hook != nil {
		hook()
	}
}

func (m *Manager) set(a Account) {
	m.mu.Lock()
	m.account = a
	m.mu.Unlock()
}
