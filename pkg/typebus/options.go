package typebus

import (
	"log/slog"

	"github.com/randalmurphal/typebus/pkg/typebus/config"
	"github.com/randalmurphal/typebus/pkg/typebus/observability"
)

// DefaultName is the bus name used when WithName is not given.
const DefaultName = "typebus"

// busConfig holds configuration for a Bus.
type busConfig struct {
	name          string
	logger        *slog.Logger
	metrics       observability.MetricsRecorder
	spans         observability.SpanManager
	handlerEvents bool
}

func defaultBusConfig() busConfig {
	return busConfig{
		name:    DefaultName,
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// Option configures a Bus.
type Option func(*busConfig)

// WithName sets the bus name reported in logs and spans.
// Empty names are ignored.
func WithName(name string) Option {
	return func(c *busConfig) {
		if name != "" {
			c.name = name
		}
	}
}

// WithLogger enables structured logging of registrations and dispatches.
// The logger is enriched with bus_id and bus_name. Registrations and
// dispatches log at Debug; handler panics log at Error.
func WithLogger(logger *slog.Logger) Option {
	return func(c *busConfig) {
		c.logger = logger
	}
}

// WithMetrics enables or disables OpenTelemetry metrics.
// When enabled, the global meter provider is used.
//
// Example:
//
//	bus := typebus.New(typebus.WithMetrics(true))
func WithMetrics(enabled bool) Option {
	return func(c *busConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder sets a custom metrics recorder.
// A nil recorder disables metrics.
func WithMetricsRecorder(r observability.MetricsRecorder) Option {
	return func(c *busConfig) {
		if r == nil {
			r = observability.NoopMetrics{}
		}
		c.metrics = r
	}
}

// WithTracing enables or disables OpenTelemetry tracing.
// When enabled, each dispatch that reaches at least one handler runs
// inside a "typebus.dispatch" span from the global tracer provider.
func WithTracing(enabled bool) Option {
	return func(c *busConfig) {
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithSpanManager sets a custom span manager.
// A nil manager disables tracing.
func WithSpanManager(m observability.SpanManager) Option {
	return func(c *busConfig) {
		if m == nil {
			m = observability.NoopSpanManager{}
		}
		c.spans = m
	}
}

// WithHandlerEvents adds a "handler.invoked" span event for every handler
// call. Only meaningful with tracing enabled.
func WithHandlerEvents(enabled bool) Option {
	return func(c *busConfig) {
		c.handlerEvents = enabled
	}
}

// OptionsFromConfig builds options from a config section.
//
// Recognized keys:
//   - name (string)
//   - metrics (bool)
//   - tracing (bool)
//   - handler_events (bool)
//
// Missing keys leave the defaults in place. Unknown keys are ignored.
// Loggers are not configurable from files; pass WithLogger alongside.
func OptionsFromConfig(cfg config.Config) []Option {
	var opts []Option
	if cfg.Has("name") {
		opts = append(opts, WithName(cfg.String("name", DefaultName)))
	}
	if cfg.Has("metrics") {
		opts = append(opts, WithMetrics(cfg.Bool("metrics", false)))
	}
	if cfg.Has("tracing") {
		opts = append(opts, WithTracing(cfg.Bool("tracing", false)))
	}
	if cfg.Has("handler_events") {
		opts = append(opts, WithHandlerEvents(cfg.Bool("handler_events", false)))
	}
	return opts
}
