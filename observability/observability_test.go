package observability

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("eventsource")

	if cfg.ServiceName != "eventsource" {
		t.Errorf("expected ServiceName 'eventsource', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("eventsource")

	if cfg.ServiceName != "eventsource" {
		t.Errorf("expected ServiceName 'eventsource', got %s", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestNewStreamMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := NewStreamMetrics(meter)
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	if metrics == nil {
		t.Fatal("expected non-nil metrics")
	}

	ctx := context.Background()
	metrics.RecordConnectionOpen(ctx, "s1")
	metrics.RecordEvent(ctx, "s1", "message")
	metrics.RecordReconnect(ctx, "s1")
	metrics.RecordConnectionClosed(ctx, "s1", 250*time.Millisecond)
}

func TestNilStreamMetricsRecordsNothing(t *testing.T) {
	var metrics *StreamMetrics

	ctx := context.Background()
	metrics.RecordConnectionOpen(ctx, "s1")
	metrics.RecordEvent(ctx, "s1", "message")
	metrics.RecordReconnect(ctx, "s1")
	metrics.RecordConnectionClosed(ctx, "s1", time.Second)
}
