package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records typebus metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordRegistration records a handler being added for an event type.
	RecordRegistration(ctx context.Context, eventType string)

	// RecordDispatch records one dispatch call. handlers is the number of
	// handlers filed for the event type, zero for unregistered types.
	RecordDispatch(ctx context.Context, eventType string, handlers int, duration time.Duration, panicked bool)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	registrations   metric.Int64Counter
	dispatches      metric.Int64Counter
	dispatchLatency metric.Float64Histogram
	dispatchFanout  metric.Int64Histogram
	panics          metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics(otel.Meter("typebus"))
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics(meter metric.Meter) (*otelMetrics, error) {
	registrations, err := meter.Int64Counter("typebus.handler.registrations",
		metric.WithDescription("Number of handlers registered"),
	)
	if err != nil {
		return nil, err
	}

	dispatches, err := meter.Int64Counter("typebus.dispatch.count",
		metric.WithDescription("Number of dispatch calls"),
	)
	if err != nil {
		return nil, err
	}

	dispatchLatency, err := meter.Float64Histogram("typebus.dispatch.latency_ms",
		metric.WithDescription("Dispatch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	dispatchFanout, err := meter.Int64Histogram("typebus.dispatch.handlers",
		metric.WithDescription("Handlers invoked per dispatch"),
	)
	if err != nil {
		return nil, err
	}

	panics, err := meter.Int64Counter("typebus.dispatch.panics",
		metric.WithDescription("Number of dispatches aborted by a handler panic"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		registrations:   registrations,
		dispatches:      dispatches,
		dispatchLatency: dispatchLatency,
		dispatchFanout:  dispatchFanout,
		panics:          panics,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// NewMetricsRecorderFromProvider returns a MetricsRecorder whose instruments
// come from mp instead of the global meter provider.
func NewMetricsRecorderFromProvider(mp metric.MeterProvider) (MetricsRecorder, error) {
	return newOtelMetrics(mp.Meter("typebus"))
}

// RecordRegistration records a handler registration.
func (m *otelMetrics) RecordRegistration(ctx context.Context, eventType string) {
	m.registrations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", eventType),
	))
}

// RecordDispatch records a dispatch.
func (m *otelMetrics) RecordDispatch(ctx context.Context, eventType string, handlers int, duration time.Duration, panicked bool) {
	attrs := metric.WithAttributes(attribute.String("event_type", eventType))

	m.dispatches.Add(ctx, 1, attrs)
	m.dispatchLatency.Record(ctx, Milliseconds(duration), attrs)
	m.dispatchFanout.Record(ctx, int64(handlers), attrs)

	if panicked {
		m.panics.Add(ctx, 1, attrs)
	}
}
