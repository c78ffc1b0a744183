// Package logutil threads a slog.Logger through a context so per-call
// attributes (stream SID, call id) follow the call through both relay
// loops.
package logutil

import (
	"context"
	"log/slog"
)

type ctxLogger struct{}

// ContextWithLogger returns a context carrying l.
func ContextWithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLogger{}, l)
}

// LoggerFromContext returns the context's logger, or slog.Default.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxLogger{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// With attaches attributes to the context's logger and returns a context
// carrying the result.
func With(ctx context.Context, args ...any) context.Context {
	return ContextWithLogger(ctx, LoggerFromContext(ctx).With(args...))
}
