package storage

import "time"

const (
	KindChat    = "chat"
	KindInsight = "insight"
)

// Event is one assistant call: the prompt sent and the text shown back.
// Failed marks calls where the fallback text was used.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID int64     `json:"session_id"`
	Kind      string    `json:"kind"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	Model     string    `json:"model,omitempty"`
	Failed    bool      `json:"failed,omitempty"`
}

// Recorder abstracts persistence of interaction events.
// LoadInteractions returns events in the order they were appended.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendInteraction(event Event) error
	LoadInteractions() ([]Event, error)
}
