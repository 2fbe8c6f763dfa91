package database

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}
	return m, reader
}

func histogramPoints(t *testing.T, reader *sdkmetric.ManualReader, name string) int {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			histogram, ok := m.Data.(metricdata.Histogram[float64])
			if !ok {
				t.Fatalf("metric %s is not a float64 histogram", name)
			}
			return len(histogram.DataPoints)
		}
	}

	t.Fatalf("metric %s not found", name)
	return 0
}

func TestInitializeMetrics(t *testing.T) {
	m, _ := newTestMetrics(t)

	if m.queryDuration == nil {
		t.Error("queryDuration is nil")
	}
}

func TestRecordQuery(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	// One data point per distinct operation label.
	m.RecordQuery(ctx, "cart_add_line", 0.02)
	m.RecordQuery(ctx, "order_finalize", 0.01)
	m.RecordQuery(ctx, "order_finalize", 0.03)

	if got := histogramPoints(t, reader, "db_query_duration_seconds"); got != 2 {
		t.Errorf("expected 2 data points, got %d", got)
	}
}
