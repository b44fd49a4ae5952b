package galdex

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with galdex-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithPage adds page coordinates to the logger.
func (l *Logger) WithPage(page, limit int) *Logger {
	return &Logger{
		Logger: l.Logger.With("page", page, "limit", limit),
	}
}

// LogResolve logs a filter resolution.
func (l *Logger) LogResolve(ctx context.Context, includeCategories, excludeCategories, matches int) {
	l.DebugContext(ctx, "filter resolved",
		"include_categories", includeCategories,
		"exclude_categories", excludeCategories,
		"matches", matches,
	)
}

// LogPage logs a served page. Page coordinates come from WithPage.
func (l *Logger) LogPage(ctx context.Context, records, total int) {
	l.DebugContext(ctx, "page served",
		"records", records,
		"total", total,
	)
}

// LogRecordDrop logs a record excluded from a page because it failed to
// resolve.
func (l *Logger) LogRecordDrop(ctx context.Context, id string) {
	l.WarnContext(ctx, "record dropped from page",
		"id", id,
	)
}
