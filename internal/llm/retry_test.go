package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type scriptedClient struct {
	calls   int
	succeed int // attempt number that succeeds; 0 means never
	text    string
}

func (s *scriptedClient) Generate(ctx context.Context, _, _ string) (Response, error) {
	s.calls++
	if s.succeed > 0 && s.calls == s.succeed {
		return Response{Content: s.text}, nil
	}
	return Response{}, errors.New("boom")
}

func recordingRetry(next Client, policy RetryPolicy) (*RetryingClient, *[]time.Duration) {
	var delays []time.Duration
	r := WithRetry(next, policy)
	r.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return r, &delays
}

func TestRetry_FailsAfterExactlyNAttempts(t *testing.T) {
	for _, n := range []int{1, 3, 4, 5} {
		inner := &scriptedClient{}
		r, delays := recordingRetry(inner, RetryPolicy{MaxAttempts: n, InitialDelay: time.Second})

		_, err := r.Generate(context.Background(), "", "hi")
		require.Error(t, err)
		require.Equal(t, n, inner.calls)
		require.Len(t, *delays, n-1)
		for i := 1; i < len(*delays); i++ {
			require.Greater(t, (*delays)[i], (*delays)[i-1])
		}
	}
}

func TestRetry_DelaysDouble(t *testing.T) {
	inner := &scriptedClient{}
	r, delays := recordingRetry(inner, DefaultRetryPolicy())

	_, err := r.Generate(context.Background(), "", "hi")
	require.Error(t, err)
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, *delays)
}

func TestRetry_SucceedsOnAttemptK(t *testing.T) {
	for k := 1; k < 4; k++ {
		inner := &scriptedClient{succeed: k, text: "verbatim candidate"}
		r, delays := recordingRetry(inner, RetryPolicy{MaxAttempts: 4, InitialDelay: time.Millisecond})

		resp, err := r.Generate(context.Background(), "", "hi")
		require.NoError(t, err)
		require.Equal(t, k, inner.calls)
		require.Len(t, *delays, k-1)
		require.Equal(t, "verbatim candidate", resp.Content)
	}
}

func TestRetry_StopsOnCancel(t *testing.T) {
	inner := &scriptedClient{}
	r := WithRetry(inner, RetryPolicy{MaxAttempts: 5, InitialDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	r.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return sleepContext(ctx, d)
	}

	_, err := r.Generate(ctx, "", "hi")
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, inner.calls)
}

func TestRetry_GeminiOverHTTP(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"third time lucky"}]}}]}`))
	}))
	defer srv.Close()

	r, delays := recordingRetry(NewGemini("k", srv.URL, "", time.Second), RetryPolicy{MaxAttempts: 4, InitialDelay: 10 * time.Millisecond})
	resp, err := r.Generate(context.Background(), "", "hi")
	require.NoError(t, err)
	require.Equal(t, int32(3), hits.Load())
	require.Equal(t, "third time lucky", resp.Content)
	require.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, *delays)
}

func TestRetryPolicy_Delay(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 5, InitialDelay: 500 * time.Millisecond}
	require.Equal(t, time.Duration(0), p.Delay(0))
	require.Equal(t, 500*time.Millisecond, p.Delay(1))
	require.Equal(t, 4*time.Second, p.Delay(4))
}
