package testutil

import (
	"fmt"
	"strings"
	"sync"

	"todosync/internal/log"
)

// RecordingLogger keeps every log line in memory as "LEVEL: msg".
type RecordingLogger struct {
	mu    *sync.Mutex
	lines *[]string
	attrs []any
}

// NewRecordingLogger returns an empty RecordingLogger.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{mu: &sync.Mutex{}, lines: &[]string{}}
}

func (l *RecordingLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	line := level + ": " + msg
	all := append(append([]any{}, l.attrs...), args...)
	for i := 0; i+1 < len(all); i += 2 {
		line += fmt.Sprintf(" %v=%v", all[i], all[i+1])
	}
	*l.lines = append(*l.lines, line)
}

func (l *RecordingLogger) Debug(msg string, args ...any) { l.record("DEBUG", msg, args) }
func (l *RecordingLogger) Info(msg string, args ...any)  { l.record("INFO", msg, args) }
func (l *RecordingLogger) Warn(msg string, args ...any)  { l.record("WARN", msg, args) }
func (l *RecordingLogger) Error(msg string, args ...any) { l.record("ERROR", msg, args) }

func (l *RecordingLogger) With(args ...any) log.Logger {
	return &RecordingLogger{mu: l.mu, lines: l.lines, attrs: append(append([]any{}, l.attrs...), args...)}
}

// Lines returns the recorded lines.
func (l *RecordingLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, *l.lines...)
}

// Contains reports whether any line contains substr.
func (l *RecordingLogger) Contains(substr string) bool {
	for _, line := range l.Lines() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
