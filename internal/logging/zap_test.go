package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(t *testing.T) (*ZapLogger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return NewZapLogger(zap.New(core)), logs
}

func TestZapLogger_Levels(t *testing.T) {
	log, logs := newObserved(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	entries := logs.All()
	require.Len(t, entries, 4)

	tests := []struct {
		level zapcore.Level
		msg   string
		key   string
		val   int64
	}{
		{zapcore.DebugLevel, "dbg", "a", 1},
		{zapcore.InfoLevel, "inf", "b", 2},
		{zapcore.WarnLevel, "wrn", "c", 3},
		{zapcore.ErrorLevel, "err", "d", 4},
	}
	for i, tc := range tests {
		e := entries[i]
		require.Equal(t, tc.level, e.Level)
		require.Equal(t, tc.msg, e.Message)
		require.Equal(t, tc.val, e.ContextMap()[tc.key])
	}
}

func TestZapLogger_With_AddsFields(t *testing.T) {
	log, logs := newObserved(t)

	log.With("component", "wallet").Info(context.Background(), "hello", "k", "v")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	require.Equal(t, "wallet", fields["component"])
	require.Equal(t, "v", fields["k"])
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New("loud")
	require.Error(t, err)

	l, err := New("debug")
	require.NoError(t, err)
	require.NotNil(t, l)
}
