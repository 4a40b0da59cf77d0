// Package assistant turns the text-generation client into the AlgoTix
// chat assistant and the per-event insight blurbs.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"algotix/internal/events"
	"algotix/internal/history"
	"algotix/internal/llm"
	"algotix/internal/logging"
	"algotix/internal/storage"
)

const (
	ChatApology     = "I've hit a solar flare! Please try again in a moment."
	InsightFallback = "This event is lightyears ahead of the rest!"
)

// SystemInstruction describes the platform for the given catalog.
func SystemInstruction(list []events.Event) string {
	return fmt.Sprintf("You are the AlgoTix Assistant for a campus event ticketing platform called 'AlgoTix'. "+
		"Events available: %s. Users buy tickets as Algorand NFTs. "+
		"Keep responses brief, helpful, and use space/cosmos metaphors.", events.Summary(list))
}

func InsightPrompt(e events.Event) string {
	return fmt.Sprintf("Give me a 1-sentence \"can't miss\" reason for this event: %s. Details: %s at %s. "+
		"Make it punchy and student-focused.", e.Title, e.Description, e.Location)
}

func Greeting(name string) string {
	return fmt.Sprintf("Hello %s! I'm your AlgoTix Assistant. How can I help you navigate the cosmos today?", name)
}

type Assistant struct {
	client   llm.Client
	history  *history.Manager
	recorder storage.Recorder
	log      logging.Logger
	system   string
	now      func() time.Time

	group    singleflight.Group
	mu       sync.RWMutex
	insights map[int]string
}

type Option func(*Assistant)

// WithRecorder logs every call to r.
func WithRecorder(r storage.Recorder) Option {
	return func(a *Assistant) { a.recorder = r }
}

func WithCatalog(list []events.Event) Option {
	return func(a *Assistant) { a.system = SystemInstruction(list) }
}

func New(client llm.Client, hist *history.Manager, log logging.Logger, opts ...Option) *Assistant {
	a := &Assistant{
		client:   client,
		history:  hist,
		log:      log,
		system:   SystemInstruction(events.All()),
		now:      time.Now,
		insights: make(map[int]string),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Assistant) History() *history.Manager { return a.history }

// Chat sends text for the session and returns the assistant line that was
// appended to its transcript. Blank input is ignored and returns "".
func (a *Assistant) Chat(ctx context.Context, sessionID int64, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	a.history.AppendUser(sessionID, text)

	resp, err := a.client.Generate(ctx, a.system, text)
	reply := resp.Content
	failed := err != nil
	if failed {
		a.log.Warn(ctx, "assistant chat failed", "session", sessionID, "error", err)
		reply = ChatApology
	}
	a.history.AppendAssistant(sessionID, reply)
	a.record(ctx, storage.Event{SessionID: sessionID, Kind: storage.KindChat, Prompt: text, Response: reply, Model: resp.Model, Failed: failed})
	return reply
}

// Insight returns the cached blurb for e, generating it on first use.
// Concurrent callers for the same event share a single request.
func (a *Assistant) Insight(ctx context.Context, e events.Event) string {
	if s, ok := a.cachedInsight(e.ID); ok {
		return s
	}
	v, _, _ := a.group.Do(fmt.Sprint(e.ID), func() (any, error) {
		if s, ok := a.cachedInsight(e.ID); ok {
			return s, nil
		}
		prompt := InsightPrompt(e)
		resp, err := a.client.Generate(ctx, "", prompt)
		text := resp.Content
		failed := err != nil
		if failed {
			a.log.Warn(ctx, "insight generation failed", "event", e.ID, "error", err)
			text = InsightFallback
		}
		a.mu.Lock()
		a.insights[e.ID] = text
		a.mu.Unlock()
		a.record(ctx, storage.Event{Kind: storage.KindInsight, Prompt: prompt, Response: text, Model: resp.Model, Failed: failed})
		return text, nil
	})
	return v.(string)
}

func (a *Assistant) cachedInsight(id int) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.insights[id]
	return s, ok
}

func (a *Assistant) record(ctx context.Context, ev storage.Event) {
	if a.recorder == nil {
		return
	}
	ev.Timestamp = a.now().UTC()
	if err := a.recorder.AppendInteraction(ev); err != nil {
		a.log.Error(ctx, "failed to record interaction", "kind", ev.Kind, "error", err)
	}
}
