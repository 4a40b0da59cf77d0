package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"algotix/internal/assistant"
	"algotix/internal/history"
	"algotix/internal/llm"
	"algotix/internal/logging"
	"algotix/internal/scheduler"
	"algotix/internal/storage"
	"algotix/internal/ticketing"
)

type fakeSender struct {
	mu        sync.Mutex
	sent      []tgbotapi.MessageConfig
	callbacks []string
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cb, ok := c.(tgbotapi.CallbackConfig); ok {
		f.callbacks = append(f.callbacks, cb.CallbackQueryID)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	for i, m := range f.sent {
		out[i] = m.Text
	}
	return out
}

type fakeLLM struct {
	resp llm.Response
	err  error
}

func (f fakeLLM) Generate(context.Context, string, string) (llm.Response, error) {
	return f.resp, f.err
}

type fakeStatus struct {
	st  ticketing.Status
	err error
}

func (f fakeStatus) Status(context.Context) (ticketing.Status, error) { return f.st, f.err }

type memRecorder struct{ events []storage.Event }

func (m *memRecorder) AppendInteraction(e storage.Event) error {
	m.events = append(m.events, e)
	return nil
}
func (m *memRecorder) LoadInteractions() ([]storage.Event, error) { return m.events, nil }

func newTestBot(client llm.Client) (*Bot, *fakeSender) {
	fs := &fakeSender{}
	return &Bot{
		s:           fs,
		assistant:   assistant.New(client, history.NewManager(), logging.Nop()),
		adminUserID: 999,
		log:         logging.Nop(),
		now:         time.Now,
	}, fs
}

func command(chatID, fromID int64, text string) *tgbotapi.Message {
	cmd := strings.Fields(text)[0]
	return &tgbotapi.Message{
		From:     &tgbotapi.User{ID: fromID, FirstName: "Ada"},
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}
}

func TestStart_SendsGreeting(t *testing.T) {
	b, fs := newTestBot(fakeLLM{})
	b.handleUpdate(context.Background(), tgbotapi.Update{Message: command(1, 1, "/start")})

	got := fs.texts()
	if len(got) != 1 || got[0] != "Hello Ada! I'm your AlgoTix Assistant. How can I help you navigate the cosmos today?" {
		t.Fatalf("unexpected greeting: %+v", got)
	}
}

func TestIncomingMessage_RepliesWithResetButton(t *testing.T) {
	b, fs := newTestBot(fakeLLM{resp: llm.Response{Content: "Check out the Sound Fest!"}})
	msg := &tgbotapi.Message{From: &tgbotapi.User{ID: 5}, Chat: &tgbotapi.Chat{ID: 100}, Text: "what's on?"}
	b.handleUpdate(context.Background(), tgbotapi.Update{Message: msg})

	if len(fs.sent) != 1 || fs.sent[0].Text != "Check out the Sound Fest!" {
		t.Fatalf("unexpected replies: %+v", fs.texts())
	}
	if fs.sent[0].ReplyMarkup == nil {
		t.Fatalf("reset keyboard missing")
	}
	if n := b.assistant.History().Len(100); n != 2 {
		t.Fatalf("expected 2 transcript entries, got %d", n)
	}

	b.handleCallback(context.Background(), &tgbotapi.CallbackQuery{ID: "cb-1", Data: resetCmd, Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 100}}})
	if n := b.assistant.History().Len(100); n != 0 {
		t.Fatalf("history not reset, %d entries", n)
	}
	if len(fs.callbacks) != 1 || fs.callbacks[0] != "cb-1" {
		t.Fatalf("callback not answered: %+v", fs.callbacks)
	}
}

func TestIncomingMessage_FailureSendsApology(t *testing.T) {
	b, fs := newTestBot(fakeLLM{err: errors.New("max retries exceeded")})
	msg := &tgbotapi.Message{From: &tgbotapi.User{ID: 5}, Chat: &tgbotapi.Chat{ID: 100}, Text: "hi"}
	b.handleIncomingMessage(context.Background(), msg)

	if got := fs.texts(); len(got) != 1 || got[0] != assistant.ChatApology {
		t.Fatalf("expected apology, got %+v", got)
	}
}

func TestEventsAndInsight(t *testing.T) {
	b, fs := newTestBot(fakeLLM{resp: llm.Response{Content: "Laugh until you orbit."}})
	ctx := context.Background()

	b.handleCommand(ctx, command(1, 1, "/events"))
	b.handleCommand(ctx, command(1, 1, "/insight 2"))
	b.handleCommand(ctx, command(1, 1, "/insight 42"))
	b.handleCommand(ctx, command(1, 1, "/insight"))

	got := fs.texts()
	if len(got) != 4 {
		t.Fatalf("expected 4 messages, got %d: %+v", len(got), got)
	}
	if !strings.Contains(got[0], "Cyberpunk Art Expo") {
		t.Fatalf("event list incomplete: %q", got[0])
	}
	if got[1] != "Cosmic Comedy Jam\nLaugh until you orbit." {
		t.Fatalf("unexpected insight: %q", got[1])
	}
	if !strings.Contains(got[2], "No event with id 42") || !strings.HasPrefix(got[3], "Usage:") {
		t.Fatalf("unexpected errors: %+v", got[2:])
	}
}

func TestStatusCommand(t *testing.T) {
	b, fs := newTestBot(fakeLLM{})
	b.status = fakeStatus{st: ticketing.Status{Connected: true, AppID: 1, AssetID: 2, LastRound: 3}}
	b.handleCommand(context.Background(), command(1, 1, "/status"))

	b.status = fakeStatus{err: errors.New("down")}
	b.handleCommand(context.Background(), command(1, 1, "/status"))

	got := fs.texts()
	if !strings.Contains(got[0], "connected") || !strings.Contains(got[0], "Last round: 3") {
		t.Fatalf("unexpected status: %q", got[0])
	}
	if !strings.Contains(got[1], "unavailable") {
		t.Fatalf("unexpected status failure text: %q", got[1])
	}
}

func TestReport_AdminOnly(t *testing.T) {
	b, fs := newTestBot(fakeLLM{})
	b.recorder = &memRecorder{events: []storage.Event{
		{Timestamp: time.Now().UTC(), SessionID: 7, Kind: storage.KindChat, Prompt: "hi"},
	}}

	b.handleCommand(context.Background(), command(1, 123, "/report"))
	b.handleCommand(context.Background(), command(1, 999, "/report"))

	got := fs.texts()
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %+v", got)
	}
	if !strings.Contains(got[0], "only available to the administrator") {
		t.Fatalf("non-admin not rejected: %q", got[0])
	}
	if !strings.Contains(got[1], "Chat messages: 1") {
		t.Fatalf("report missing counts: %q", got[1])
	}
}

func TestScheduleDailyReport(t *testing.T) {
	b, _ := newTestBot(fakeLLM{})
	s := scheduler.New(logging.Nop())
	defer s.Stop()

	b.adminUserID = 0
	if err := b.ScheduleDailyReport(s); err != nil {
		t.Fatalf("disabled report should not fail: %v", err)
	}
	b.adminUserID = 999
	if err := b.ScheduleDailyReport(s); err != nil {
		t.Fatalf("schedule: %v", err)
	}
}

func TestDailyReport_CoversCurrentUTCDay(t *testing.T) {
	b, fs := newTestBot(fakeLLM{})
	b.now = func() time.Time { return time.Date(2024, 10, 26, 21, 0, 0, 0, time.UTC) }
	b.recorder = &memRecorder{events: []storage.Event{
		{Timestamp: time.Date(2024, 10, 25, 12, 0, 0, 0, time.UTC), SessionID: 1, Kind: storage.KindChat},
		{Timestamp: time.Date(2024, 10, 26, 9, 0, 0, 0, time.UTC), SessionID: 2, Kind: storage.KindChat},
		{Timestamp: time.Date(2024, 10, 26, 20, 0, 0, 0, time.UTC), SessionID: 2, Kind: storage.KindChat},
	}}

	if err := b.dailyReport(context.Background()); err != nil {
		t.Fatalf("daily report: %v", err)
	}
	got := fs.texts()
	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %+v", got)
	}
	if !strings.Contains(got[0], "2024-10-26") || !strings.Contains(got[0], "Chat messages: 2") {
		t.Fatalf("report does not cover the current day: %q", got[0])
	}
	if fs.sent[0].ChatID != 999 {
		t.Fatalf("report sent to %d, want admin", fs.sent[0].ChatID)
	}
}
