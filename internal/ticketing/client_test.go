package ticketing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"algotix/internal/logging"
)

func TestCheckTicket(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/algo/check-ticket", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_ = json.NewEncoder(w).Encode(map[string]bool{"has_ticket": body["address"] == "HOLDER"})
	}))
	defer srv.Close()
	c := New(srv.URL, time.Second)

	ok, err := c.CheckTicket(context.Background(), "HOLDER")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.CheckTicket(context.Background(), "OTHER")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckTicket_NoAccount(t *testing.T) {
	_, err := New("http://127.0.0.1:1", time.Second).CheckTicket(context.Background(), "")
	require.ErrorIs(t, err, ErrNoAccount)
}

func TestCheckTicket_ErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Invalid Algorand address","success":false}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).CheckTicket(context.Background(), "bad")
	require.ErrorContains(t, err, "Invalid Algorand address")
}

func TestStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/algo/status", r.URL.Path)
		_, _ = w.Write([]byte(`{"connected":true,"app_id":11,"asset_id":22,"last_round":33}`))
	}))
	defer srv.Close()

	st, err := New(srv.URL, time.Second).Status(context.Background())
	require.NoError(t, err)
	require.Equal(t, Status{Connected: true, AppID: 11, AssetID: 22, LastRound: 33}, st)
}

type fakeSource struct {
	calls atomic.Int32
	fail  atomic.Bool
}

func (f *fakeSource) Status(context.Context) (Status, error) {
	n := f.calls.Add(1)
	if f.fail.Load() {
		return Status{}, assert.AnError
	}
	return Status{Connected: true, LastRound: uint64(n)}, nil
}

func TestPoller_ImmediateThenInterval(t *testing.T) {
	src := &fakeSource{}
	p := NewPoller(src, time.Second, logging.Nop())
	updates := make(chan Status, 16)
	p.OnUpdate(func(s Status) { updates <- s })

	p.Start(context.Background())
	defer p.Stop()

	st, ok := p.Latest()
	require.True(t, ok)
	require.Equal(t, uint64(1), st.LastRound)
	<-updates

	src.fail.Store(true)
	require.Eventually(t, func() bool { return src.calls.Load() >= 2 }, 3*time.Second, 20*time.Millisecond)
	st, ok = p.Latest()
	require.True(t, ok)
	require.Equal(t, uint64(1), st.LastRound)
}

func TestPoller_NothingKnownAfterFailure(t *testing.T) {
	src := &fakeSource{}
	src.fail.Store(true)
	p := NewPoller(src, time.Minute, logging.Nop())
	p.Start(context.Background())
	p.Stop()

	_, ok := p.Latest()
	require.False(t, ok)
	require.Equal(t, int32(1), src.calls.Load())
}
