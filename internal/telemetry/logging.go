package telemetry

import (
	"context"
	"log/slog"
	"os"
)

// NewLogger returns a JSON logger that stamps every record with the
// trace and span IDs of the active span.
func NewLogger(level slog.Level) *slog.Logger {
	base := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(&traceHandler{baseHandler: base})
}

// traceHandler injects trace correlation attributes at the root of the
// log entry. Groups and attrs added via With/WithGroup are replayed
// after the trace attributes so the IDs never end up nested inside a
// group.
type traceHandler struct {
	baseHandler slog.Handler
	groups      []string
	attrs       []slog.Attr
}

func (h *traceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.baseHandler.Enabled(ctx, level)
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	out := h.baseHandler

	if traceID := TraceID(ctx); traceID != "" {
		correlation := []slog.Attr{slog.String("trace_id", traceID)}
		if spanID := SpanID(ctx); spanID != "" {
			correlation = append(correlation, slog.String("span_id", spanID))
		}
		out = out.WithAttrs(correlation)
	}

	if len(h.attrs) > 0 {
		out = out.WithAttrs(h.attrs)
	}
	for _, group := range h.groups {
		out = out.WithGroup(group)
	}

	return out.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr{}, h.attrs...), attrs...)

	return &traceHandler{
		baseHandler: h.baseHandler,
		groups:      h.groups,
		attrs:       merged,
	}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{
		baseHandler: h.baseHandler,
		groups:      append(append([]string{}, h.groups...), name),
		attrs:       h.attrs,
	}
}
