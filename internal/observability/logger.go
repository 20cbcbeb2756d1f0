// Package observability bundles the logging, tracing and metrics plumbing
// the rest of the service leans on.
package observability

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// NewLogger builds the process-wide slog logger. Dev gets human-readable
// text at debug level; everything else is JSON for log shipping. Both are
// wrapped so records emitted under an active span carry its ids.
func NewLogger(env string) *slog.Logger {
	var base slog.Handler

	if env == "dev" {
		base = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		base = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	return slog.New(spanAwareHandler{next: base})
}

// spanAwareHandler decorates records with trace_id/span_id taken from the
// record's context, so a log line can be joined to its trace.
type spanAwareHandler struct {
	next slog.Handler
}

func (h spanAwareHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h spanAwareHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	return h.next.Handle(ctx, r)
}

func (h spanAwareHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return spanAwareHandler{next: h.next.WithAttrs(attrs)}
}

func (h spanAwareHandler) WithGroup(name string) slog.Handler {
	return spanAwareHandler{next: h.next.WithGroup(name)}
}
