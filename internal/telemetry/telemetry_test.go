package telemetry

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/soksol/playprep/internal/config"
)

// shutdownCtx bounds shutdown so tests don't wait on a collector that isn't running.
func shutdownCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 1*time.Second)
}

func boolPtr(b bool) *bool { return &b }

func testConfig(protocol string) config.TelemetryConfig {
	cfg := config.SystemDefaults().Telemetry
	cfg.Protocol = protocol
	cfg.Insecure = true
	cfg.ServiceName = "playprep-test"
	if protocol == "http" {
		cfg.Endpoint = "localhost:4318"
	}
	return cfg
}

func TestEnabled(t *testing.T) {
	on := config.TelemetryConfig{Enabled: true}
	off := config.TelemetryConfig{}

	tests := []struct {
		name     string
		cfg      config.TelemetryConfig
		override *bool
		want     bool
	}{
		{"config off", off, nil, false},
		{"config on", on, nil, true},
		{"env disables", on, boolPtr(false), false},
		{"env enables", off, boolPtr(true), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Enabled(tt.cfg, tt.override); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInit_DisabledReturnsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), testConfig("grpc"), nil)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown should not error, got: %v", err)
	}
}

func TestInit_Protocols(t *testing.T) {
	for _, protocol := range []string{"grpc", "http"} {
		t.Run(protocol, func(t *testing.T) {
			cfg := testConfig(protocol)
			cfg.Headers = map[string]string{"Authorization": "Bearer test-token"}

			// Exporters connect lazily, so Init succeeds without a collector.
			shutdown, err := Init(context.Background(), cfg, boolPtr(true))
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if otel.GetTracerProvider() == nil {
				t.Fatal("expected non-nil tracer provider")
			}

			ctx, cancel := shutdownCtx()
			defer cancel()
			_ = shutdown(ctx)
		})
	}
}
