package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"algotix/internal/logging"
)

func TestEvery_RunsAndStops(t *testing.T) {
	s := New(logging.Nop())
	var runs atomic.Int32
	s.Every(time.Second, "tick", func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("ignored")
	})
	require.False(t, s.IsRunning())

	s.Start()
	require.True(t, s.IsRunning())
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	s.Stop()
	require.False(t, s.IsRunning())
	after := runs.Load()
	time.Sleep(1200 * time.Millisecond)
	require.Equal(t, after, runs.Load())
}

func TestAt_RejectsBadSpec(t *testing.T) {
	s := New(logging.Nop())
	require.Error(t, s.At("not a spec", "bad", func(context.Context) error { return nil }))
	require.NoError(t, s.At(DailyReportSpec, "report", func(context.Context) error { return nil }))
	s.Stop()
}

func TestStop_CancelsJobContext(t *testing.T) {
	s := New(logging.Nop())
	started := make(chan struct{}, 1)
	var cancelled atomic.Bool
	s.Every(time.Second, "long", func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	})
	s.Start()
	<-started
	s.Stop()
	require.True(t, cancelled.Load())
}
