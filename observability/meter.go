package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/eventsource/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// StreamMetrics holds the instruments recorded over the lifetime of a
// streaming session. A nil *StreamMetrics is valid and records nothing.
type StreamMetrics struct {
	eventsReceived     metric.Int64Counter
	reconnects         metric.Int64Counter
	connectionsActive  metric.Int64UpDownCounter
	connectionDuration metric.Float64Histogram
}

// NewStreamMetrics creates stream instruments on the given meter.
func NewStreamMetrics(meter metric.Meter) (*StreamMetrics, error) {
	eventsReceived, err := meter.Int64Counter("stream.events.received",
		metric.WithDescription("Events delivered to subscribers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.events.received counter: %w", err)
	}

	reconnects, err := meter.Int64Counter("stream.reconnects",
		metric.WithDescription("Reconnect attempts after a dropped stream"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.reconnects counter: %w", err)
	}

	connectionsActive, err := meter.Int64UpDownCounter("stream.connections.active",
		metric.WithDescription("Streams currently open"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.connections.active gauge: %w", err)
	}

	connectionDuration, err := meter.Float64Histogram("stream.connection.duration",
		metric.WithDescription("Duration of individual stream connections in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.connection.duration histogram: %w", err)
	}

	return &StreamMetrics{
		eventsReceived:     eventsReceived,
		reconnects:         reconnects,
		connectionsActive:  connectionsActive,
		connectionDuration: connectionDuration,
	}, nil
}

// RecordEvent counts one delivered event of the named type.
func (m *StreamMetrics) RecordEvent(ctx context.Context, session, eventType string) {
	if m == nil {
		return
	}
	m.eventsReceived.Add(ctx, 1, metric.WithAttributes(
		attribute.String("session", session),
		attribute.String("type", eventType),
	))
}

// RecordReconnect counts one reconnect attempt.
func (m *StreamMetrics) RecordReconnect(ctx context.Context, session string) {
	if m == nil {
		return
	}
	m.reconnects.Add(ctx, 1, metric.WithAttributes(
		attribute.String("session", session),
	))
}

// RecordConnectionOpen marks a stream as active.
func (m *StreamMetrics) RecordConnectionOpen(ctx context.Context, session string) {
	if m == nil {
		return
	}
	m.connectionsActive.Add(ctx, 1, metric.WithAttributes(
		attribute.String("session", session),
	))
}

// RecordConnectionClosed marks a stream as gone and records how long it lived.
func (m *StreamMetrics) RecordConnectionClosed(ctx context.Context, session string, lifetime time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("session", session))
	m.connectionsActive.Add(ctx, -1, attrs)
	m.connectionDuration.Record(ctx, lifetime.Seconds(), attrs)
}
