package telemetry

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func testConfig() Config {
	return Config{
		ServiceName:    "storefront-test",
		ServiceVersion: "0.0.1",
		Environment:    "test",
		SampleRate:     1.0,
	}
}

// initTelemetry wires noop exporters so nothing tries to dial a collector.
func initTelemetry(t *testing.T, cfg Config) *Telemetry {
	t.Helper()

	tel, err := Initialize(context.Background(), cfg,
		WithTraceExporter(NewNoopTraceExporter()),
		WithMetricExporter(NewNoopMetricExporter()),
	)
	if err != nil {
		t.Fatalf("failed to initialize telemetry: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			t.Errorf("shutdown failed: %v", err)
		}
	})

	return tel
}

// setupTracerProvider installs an in-memory tracer provider and returns
// its exporter plus a cleanup that restores the global provider.
func setupTracerProvider(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	t.Helper()

	exp := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(trace.WithSyncer(exp))
	otel.SetTracerProvider(tp)

	return exp, func() { otel.SetTracerProvider(nil) }
}
