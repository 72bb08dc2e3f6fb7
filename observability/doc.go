// Package observability wires OpenTelemetry tracing and metrics for the
// event stream client. InitTracer and InitMeter install global providers
// backed by OTLP HTTP exporters; StreamMetrics bundles the instruments
// the client records per session.
//
// All recording helpers tolerate a nil receiver, so callers that run
// without telemetry configured do not need to guard every call site.
package observability
