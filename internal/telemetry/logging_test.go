package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel"
)

func newBufLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	base := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})
	return slog.New(&traceHandler{baseHandler: base}), &buf
}

func parseEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output %q: %v", buf.String(), err)
	}
	return entry
}

// spanContext returns a context carrying a recording span.
func spanContext(t *testing.T) context.Context {
	t.Helper()
	_, cleanup := setupTracerProvider(t)
	t.Cleanup(cleanup)

	ctx, span := otel.Tracer("test").Start(context.Background(), "test-span")
	t.Cleanup(func() { span.End() })
	return ctx
}

func TestLoggerLevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		handler   slog.Level
		record    slog.Level
		shouldLog bool
	}{
		{"debug handler passes debug", slog.LevelDebug, slog.LevelDebug, true},
		{"info handler drops debug", slog.LevelInfo, slog.LevelDebug, false},
		{"info handler passes info", slog.LevelInfo, slog.LevelInfo, true},
		{"warn handler drops info", slog.LevelWarn, slog.LevelInfo, false},
		{"error handler drops warn", slog.LevelError, slog.LevelWarn, false},
		{"error handler passes error", slog.LevelError, slog.LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufLogger(tt.handler)

			logger.Log(context.Background(), tt.record, "message")

			if tt.shouldLog && buf.Len() == 0 {
				t.Error("expected log output but got none")
			}
			if !tt.shouldLog && buf.Len() > 0 {
				t.Errorf("expected no log output but got: %s", buf.String())
			}
		})
	}
}

func TestLoggerInjectsTraceCorrelation(t *testing.T) {
	logger, buf := newBufLogger(slog.LevelInfo)
	ctx := spanContext(t)

	logger.InfoContext(ctx, "settled", "order_id", "ord-1")

	entry := parseEntry(t, buf)
	if id, _ := entry["trace_id"].(string); id == "" {
		t.Error("expected a non-empty trace_id")
	}
	if id, _ := entry["span_id"].(string); id == "" {
		t.Error("expected a non-empty span_id")
	}
	if entry["order_id"] != "ord-1" {
		t.Errorf("expected order_id attribute, got %v", entry["order_id"])
	}
}

func TestLoggerWithoutSpan(t *testing.T) {
	logger, buf := newBufLogger(slog.LevelInfo)

	logger.InfoContext(context.Background(), "no span here")

	entry := parseEntry(t, buf)
	if _, ok := entry["trace_id"]; ok {
		t.Error("expected no trace_id without an active span")
	}
	if _, ok := entry["span_id"]; ok {
		t.Error("expected no span_id without an active span")
	}
}

func TestLoggerKeepsCorrelationAtRoot(t *testing.T) {
	logger, buf := newBufLogger(slog.LevelInfo)
	ctx := spanContext(t)

	logger.With("request_id", "req-9").WithGroup("http").InfoContext(ctx, "request", "method", "POST")

	entry := parseEntry(t, buf)
	if _, ok := entry["trace_id"].(string); !ok {
		t.Error("expected trace_id at the root of the entry")
	}
	if entry["request_id"] != "req-9" {
		t.Errorf("expected request_id at the root, got %v", entry["request_id"])
	}

	group, ok := entry["http"].(map[string]any)
	if !ok {
		t.Fatal("expected the http group to be present")
	}
	if group["method"] != "POST" {
		t.Errorf("expected method inside the http group, got %v", group["method"])
	}
	if _, ok := group["trace_id"]; ok {
		t.Error("trace_id must not be nested inside a group")
	}
}

func TestLoggerNestedGroups(t *testing.T) {
	logger, buf := newBufLogger(slog.LevelInfo)
	ctx := spanContext(t)

	logger.WithGroup("http").WithGroup("request").InfoContext(ctx, "nested", "method", "GET")

	entry := parseEntry(t, buf)
	outer, ok := entry["http"].(map[string]any)
	if !ok {
		t.Fatal("expected the http group")
	}
	inner, ok := outer["request"].(map[string]any)
	if !ok {
		t.Fatal("expected the request group inside http")
	}
	if inner["method"] != "GET" {
		t.Errorf("expected method inside http.request, got %v", inner["method"])
	}
}

func TestLoggerChainedAttrs(t *testing.T) {
	logger, buf := newBufLogger(slog.LevelInfo)

	logger.With("a", "1").With("b", "2").InfoContext(context.Background(), "chained")

	entry := parseEntry(t, buf)
	if entry["a"] != "1" || entry["b"] != "2" {
		t.Errorf("expected both chained attributes, got a=%v b=%v", entry["a"], entry["b"])
	}
}
