// Package logging provides a leveled logger backed by log/slog.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	case LevelInfo:
		return slog.LevelInfo
	default:
		// Above every real level: nothing is emitted.
		return slog.LevelError + 4
	}
}

// ParseLevel parses a log level string. Unknown values map to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is a leveled printf-style logger. Derived loggers created with With
// share the level and output of their parent.
type Logger struct {
	core  *core
	attrs []any
}

type core struct {
	mu      sync.Mutex
	level   slog.LevelVar
	handler slog.Handler
}

// New creates a logger writing text records to stderr.
func New(level Level) *Logger {
	return NewWithWriter(level, os.Stderr)
}

// NewWithWriter creates a logger writing text records to w.
func NewWithWriter(level Level, w io.Writer) *Logger {
	c := &core{}
	c.level.Set(level.slogLevel())
	c.handler = newHandler(w, &c.level)
	return &Logger{core: c}
}

func newHandler(w io.Writer, lv *slog.LevelVar) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv})
}

// SetOutput sets the log output destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	l.core.handler = newHandler(w, &l.core.level)
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.core.level.Set(level.slogLevel())
}

// With returns a logger that adds key=value to every record.
func (l *Logger) With(key string, value any) *Logger {
	attrs := make([]any, 0, len(l.attrs)+2)
	attrs = append(attrs, l.attrs...)
	attrs = append(attrs, key, value)
	return &Logger{core: l.core, attrs: attrs}
}

// Slog exposes the underlying structured logger.
func (l *Logger) Slog() *slog.Logger {
	l.core.mu.Lock()
	h := l.core.handler
	l.core.mu.Unlock()
	return slog.New(h).With(l.attrs...)
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	lv := level.slogLevel()
	if lv < l.core.level.Level() {
		return
	}
	l.Slog().Log(context.Background(), lv, fmt.Sprintf(format, args...))
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

// Discard returns a logger that discards all output.
func Discard() *Logger {
	l := NewWithWriter(LevelError, io.Discard)
	l.core.level.Set(Level(-1).slogLevel())
	return l
}
