package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// With returns a new context whose logger carries the extra fields. Handlers
// use this to stamp the request ID onto every line logged downstream.
func With(ctx context.Context, fields ...any) context.Context {
	l := From(ctx).With(fields...)
	return context.WithValue(ctx, ctxKey{}, l)
}

// From returns the logger stored in context, or the default if missing.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
