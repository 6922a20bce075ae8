package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelNotice is above every level a user can configure, so records at
// this level are always written. Used for lines that are part of the
// plugin's stderr output rather than diagnostics.
const LevelNotice = slog.Level(12)

// New returns a logger writing to w. Level and format come from the
// arguments and may be overridden by LOG_LEVEL and LOG_FORMAT.
// Format is "text" (default) or "json". Stdout is reserved for plugin
// results, so callers pass os.Stderr.
func New(w io.Writer, level, format string) *slog.Logger {
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}
	if env := os.Getenv("LOG_FORMAT"); env != "" {
		format = env
	}
	lvl := slog.LevelInfo
	if level != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(level)); err == nil {
			lvl = parsed
		}
	}
	if lvl > slog.LevelError {
		lvl = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: lvl, ReplaceAttr: renameNotice}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func renameNotice(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelNotice {
			a.Value = slog.StringValue("NOTICE")
		}
	}
	return a
}

// Notice writes msg regardless of the configured level.
func Notice(ctx context.Context, lg *slog.Logger, msg string, args ...any) {
	lg.Log(ctx, LevelNotice, msg, args...)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type ctxKey struct{}

// WithContext attaches a request-scoped logger to ctx.
func WithContext(ctx context.Context, lg *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, lg)
}

// FromContext returns the logger attached by WithContext, or fallback.
func FromContext(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if lg, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && lg != nil {
		return lg
	}
	return fallback
}
