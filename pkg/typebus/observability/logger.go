// Package observability provides structured logging, metrics, and tracing
// for typebus dispatch.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds bus identity to a logger.
// Returns a new logger with bus_id and bus_name fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, bus.ID(), "orders")
//	enriched.Info("ready") // includes bus_id, bus_name
func EnrichLogger(logger *slog.Logger, busID, busName string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("bus_id", busID),
		slog.String("bus_name", busName),
	)
}

// LogRegister logs a handler registration.
func LogRegister(logger *slog.Logger, eventType, handler string, count int) {
	if logger == nil {
		return
	}
	logger.Debug("handler registered",
		slog.String("event_type", eventType),
		slog.String("handler", handler),
		slog.Int("handler_count", count),
	)
}

// LogDispatch logs a completed dispatch.
func LogDispatch(logger *slog.Logger, eventType string, handlers int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("event dispatched",
		slog.String("event_type", eventType),
		slog.Int("handlers", handlers),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogHandlerPanic logs a handler panic before it propagates to the caller.
func LogHandlerPanic(logger *slog.Logger, eventType, handler string, index int, value any) {
	if logger == nil {
		return
	}
	logger.Error("handler panicked",
		slog.String("event_type", eventType),
		slog.String("handler", handler),
		slog.Int("handler_index", index),
		slog.Any("panic", value),
	)
}

// LogHandlerExit logs a handler that called runtime.Goexit, which ends the
// dispatching goroutine without a panic value.
func LogHandlerExit(logger *slog.Logger, eventType, handler string, index int) {
	if logger == nil {
		return
	}
	logger.Warn("handler exited goroutine",
		slog.String("event_type", eventType),
		slog.String("handler", handler),
		slog.Int("handler_index", index),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time.
//
// Example:
//
//	done := TimedOperation()
//	// ... dispatch ...
//	elapsed := done()
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

// Milliseconds converts a duration to fractional milliseconds for logs and
// histograms.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
