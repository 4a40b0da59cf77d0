package history

import (
	"sync"

	"algotix/internal/llm"
)

// Manager keeps one append-only transcript per chat session. Transcripts
// live in memory only.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64][]llm.Message
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[int64][]llm.Message)}
}

func (m *Manager) Reset(sessionID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) AppendUser(sessionID int64, content string) {
	m.append(sessionID, llm.Message{Role: llm.RoleUser, Content: content})
}

func (m *Manager) AppendAssistant(sessionID int64, content string) {
	m.append(sessionID, llm.Message{Role: llm.RoleAssistant, Content: content})
}

func (m *Manager) append(sessionID int64, msg llm.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = append(m.sessions[sessionID], msg)
}

// Get returns a copy of the session transcript in append order.
func (m *Manager) Get(sessionID int64) []llm.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	es := m.sessions[sessionID]
	out := make([]llm.Message, len(es))
	copy(out, es)
	return out
}

func (m *Manager) Len(sessionID int64) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions[sessionID])
}
