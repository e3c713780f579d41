// Package logging provides the logger interface passed explicitly through
// the application. There is no package-level logger state.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

type Logger interface {
	Error(msg string, args ...any)
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
}

// New builds a Logger writing to w. Level is one of "error", "info",
// "debug" (default info); format is "text" or "json" (default text).
func New(w io.Writer, level, format string) Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "error":
		lvl = slog.LevelError
	case "debug":
		lvl = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return &slogLogger{s: slog.New(h)}
}

type slogLogger struct {
	s *slog.Logger
}

func (l *slogLogger) Error(msg string, args ...any) { l.s.Error(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.s.Info(msg, args...) }
func (l *slogLogger) Debug(msg string, args ...any) { l.s.Debug(msg, args...) }

// Nop discards everything. Useful in tests.
type Nop struct{}

func (Nop) Error(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Debug(string, ...any) {}
