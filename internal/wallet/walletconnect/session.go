package walletconnect

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Session is the state needed to resume a paired wallet without user
// interaction.
type Session struct {
	Bridge         string    `json:"bridge"`
	Key            string    `json:"key"`
	ClientID       string    `json:"clientId"`
	PeerID         string    `json:"peerId"`
	PeerMeta       *PeerMeta `json:"peerMeta,omitempty"`
	HandshakeTopic string    `json:"handshakeTopic"`
	ChainID        int       `json:"chainId"`
	Accounts       []string  `json:"accounts"`
}

// loadSession returns nil without error when no session was saved.
func loadSession(path string) (*Session, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func saveSession(path string, s *Session) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func removeSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
