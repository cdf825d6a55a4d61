// Package log provides the structured logger used across todosync.
package log

import (
	"context"
	"strings"
)

type contextKey string

const loggerKey contextKey = "todosync.logger"

// Logger is the logging interface used by the store, the operations and
// the backends. It mirrors the slog method set so any slog-backed
// implementation fits.
type Logger interface {
	// Debug logs a message at debug level with optional key-value pairs
	Debug(msg string, args ...any)

	// Info logs a message at info level with optional key-value pairs
	Info(msg string, args ...any)

	// Warn logs a message at warn level with optional key-value pairs
	Warn(msg string, args ...any)

	// Error logs a message at error level with optional key-value pairs
	Error(msg string, args ...any)

	// With returns a Logger that includes the given attributes in each
	// output operation.
	With(args ...any) Logger
}

// WithLogger returns a new context carrying logger.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// Ctx returns the logger stored in ctx, or a NullLogger.
func Ctx(ctx context.Context) Logger {
	if ctx == nil {
		return NewNullLogger()
	}
	logger, ok := ctx.Value(loggerKey).(Logger)
	if !ok {
		return NewNullLogger()
	}
	return logger
}

// LevelFromString converts a level name to a Level.
// Unknown names map to LevelWarn.
func LevelFromString(value string) Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelWarn
	}
}
