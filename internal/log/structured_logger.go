package log

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Level represents the minimum log level
type Level slog.Level

// Available log levels
const (
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// StructuredLogger implements the Logger interface using slog with a tint handler.
type StructuredLogger struct {
	logger *slog.Logger
}

// New returns a StructuredLogger writing to w.
// Colors are only emitted when w is a terminal.
func New(w io.Writer, level Level) *StructuredLogger {
	if w == nil {
		w = os.Stderr
	}
	handler := tint.NewHandler(w, &tint.Options{
		NoColor:    !isTerminal(w),
		TimeFormat: time.Kitchen,
		Level:      slog.Level(level),
	})
	return &StructuredLogger{logger: slog.New(handler)}
}

// FromSlog wraps an existing slog.Logger.
func FromSlog(logger *slog.Logger) *StructuredLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &StructuredLogger{logger: logger}
}

func (l *StructuredLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *StructuredLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *StructuredLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *StructuredLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *StructuredLogger) With(args ...any) Logger {
	return &StructuredLogger{logger: l.logger.With(args...)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
