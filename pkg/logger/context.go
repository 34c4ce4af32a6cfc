package logger

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	traceKey
)

// WithTrace binds a request trace id to the context. The context logger
// gains a trace_id field so every log line of the request carries it,
// and TraceFrom can recover the raw id later.
func WithTrace(ctx context.Context, traceID string) context.Context {
	ctx = context.WithValue(ctx, traceKey, traceID)
	return context.WithValue(ctx, loggerKey, From(ctx).With("trace_id", traceID))
}

// With returns a context whose logger carries the extra fields.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, loggerKey, From(ctx).With(fields...))
}

// From returns the logger stored in the context, falling back to the
// process-wide logger.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}

// TraceFrom returns the trace id bound by WithTrace, or empty when the
// request never passed through the trace middleware.
func TraceFrom(ctx context.Context) string {
	if id, ok := ctx.Value(traceKey).(string); ok {
		return id
	}
	return ""
}
