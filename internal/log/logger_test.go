package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Level
	}{
		{"debug level", "debug", LevelDebug},
		{"info level", "info", LevelInfo},
		{"warn level", "warn", LevelWarn},
		{"warning alias", "warning", LevelWarn},
		{"error level", "error", LevelError},
		{"uppercase", "DEBUG", LevelDebug},
		{"padded", "  info ", LevelInfo},
		{"invalid level", "invalid", LevelWarn},
		{"empty string", "", LevelWarn},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, LevelFromString(tc.input))
		})
	}
}

func TestStructuredLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, LevelWarn)

	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("visible warn", "list_id", "A")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "visible warn")
	require.Contains(t, out, "list_id=A")
}

func TestStructuredLogger_NoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, LevelDebug)
	logger.Error("boom")
	require.NotContains(t, buf.String(), "\x1b[")
}

func TestStructuredLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, LevelDebug).With("op", "fetchTasks")
	require.IsType(t, &StructuredLogger{}, logger)

	logger.Info("done")
	require.Contains(t, buf.String(), "op=fetchTasks")
}

func TestNullLogger(t *testing.T) {
	logger := NewNullLogger()

	logger.Debug("debug message", "key", "value")
	logger.Info("info message", "key", "value")
	logger.Warn("warn message", "key", "value")
	logger.Error("error message", "key", "value")

	require.IsType(t, &NullLogger{}, logger.With("context", "value"))
}

func TestContextFunctions(t *testing.T) {
	logger := NewNullLogger()

	ctx := WithLogger(context.Background(), logger)
	require.Equal(t, logger, Ctx(ctx))

	require.IsType(t, &NullLogger{}, Ctx(context.Background()))
}
