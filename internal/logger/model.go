package logger

import (
	"context"
	"log/slog"
)

// Level represents different logging levels.
type Level slog.Level

// A set of possible logging levels.
const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// Nop returns a logger that discards everything. Used by tests and by the
// operator console, which owns the terminal.
func Nop() LoggerInterface {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(_ context.Context, _ string, _ ...any)         {}
func (nopLogger) Info(_ context.Context, _ string, _ ...any)          {}
func (nopLogger) Warn(_ context.Context, _ string, _ ...any)          {}
func (nopLogger) Error(_ context.Context, _ string, _ ...any)         {}
func (nopLogger) Debugc(_ context.Context, _ int, _ string, _ ...any) {}
func (nopLogger) Infoc(_ context.Context, _ int, _ string, _ ...any)  {}
func (nopLogger) Warnc(_ context.Context, _ int, _ string, _ ...any)  {}
func (nopLogger) Errorc(_ context.Context, _ int, _ string, _ ...any) {}
