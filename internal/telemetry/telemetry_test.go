package telemetry

import (
	"context"
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid config", func(c *Config) {}, nil},
		{"sample rate zero is valid", func(c *Config) { c.SampleRate = 0 }, nil},
		{"missing service name", func(c *Config) { c.ServiceName = "" }, ErrMissingServiceName},
		{"missing service version", func(c *Config) { c.ServiceVersion = "" }, ErrMissingServiceVersion},
		{"negative sample rate", func(c *Config) { c.SampleRate = -0.1 }, ErrInvalidSampleRate},
		{"sample rate above one", func(c *Config) { c.SampleRate = 1.1 }, ErrInvalidSampleRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}

			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		tracing    bool
		metrics    bool
		wantTracer bool
		wantMeter  bool
	}{
		{"tracing only", true, false, true, false},
		{"metrics only", false, true, false, true},
		{"both enabled", true, true, true, true},
		{"both disabled", false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.EnableTracing = tt.tracing
			cfg.EnableMetrics = tt.metrics

			tel := initTelemetry(t, cfg)

			if got := tel.TracerProvider() != nil; got != tt.wantTracer {
				t.Errorf("TracerProvider() present = %v, want %v", got, tt.wantTracer)
			}
			if got := tel.MeterProvider() != nil; got != tt.wantMeter {
				t.Errorf("MeterProvider() present = %v, want %v", got, tt.wantMeter)
			}
		})
	}
}

func TestInitializeRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.ServiceName = ""

	tel, err := Initialize(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected an error for an invalid config")
	}
	if tel != nil {
		t.Error("expected nil telemetry on failure")
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{-0.5, "AlwaysOffSampler"},
		{0.0, "AlwaysOffSampler"},
		{1.0, "AlwaysOnSampler"},
		{1.5, "AlwaysOnSampler"},
	}

	for _, tt := range tests {
		if got := createSampler(tt.rate).Description(); got != tt.want {
			t.Errorf("createSampler(%v) = %s, want %s", tt.rate, got, tt.want)
		}
	}

	// Fractional rates sample on the trace ID ratio.
	if createSampler(0.25) == nil {
		t.Error("expected a sampler for a fractional rate")
	}
}

func TestShutdownWithoutProviders(t *testing.T) {
	tel := &Telemetry{}

	if err := tel.Shutdown(context.Background()); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}
