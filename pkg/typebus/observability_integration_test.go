package typebus_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/randalmurphal/typebus/pkg/typebus"
	"github.com/randalmurphal/typebus/pkg/typebus/config"
	"github.com/randalmurphal/typebus/pkg/typebus/observability"
)

func decodeLogs(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range bytes.Split(buf.Bytes(), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal(line, &m))
		records = append(records, m)
	}
	return records
}

func newJSONLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestBus_Logging(t *testing.T) {
	var buf bytes.Buffer
	bus := typebus.New(typebus.WithName("orders"), typebus.WithLogger(newJSONLogger(&buf)))

	typebus.RegisterFunc(bus, func(c *Counter) { c.Value++ })
	typebus.RegisterFunc(bus, func(c *Counter) { c.Value++ })
	typebus.Dispatch(bus, &Counter{})
	typebus.Dispatch(bus, &Other{})

	records := decodeLogs(t, &buf)
	require.Len(t, records, 4)

	for _, r := range records {
		assert.Equal(t, bus.ID(), r["bus_id"])
		assert.Equal(t, "orders", r["bus_name"])
	}

	assert.Equal(t, "handler registered", records[0]["msg"])
	assert.Equal(t, "typebus_test.Counter", records[0]["event_type"])
	assert.Equal(t, float64(1), records[0]["handler_count"])
	assert.Equal(t, float64(2), records[1]["handler_count"])

	assert.Equal(t, "event dispatched", records[2]["msg"])
	assert.Equal(t, float64(2), records[2]["handlers"])

	assert.Equal(t, "event dispatched", records[3]["msg"])
	assert.Equal(t, "typebus_test.Other", records[3]["event_type"])
	assert.Equal(t, float64(0), records[3]["handlers"])
}

func TestBus_LoggingPanic(t *testing.T) {
	var buf bytes.Buffer
	bus := typebus.New(typebus.WithLogger(newJSONLogger(&buf)))

	typebus.RegisterFunc(bus, func(c *Counter) {})
	typebus.RegisterFunc(bus, func(c *Counter) { panic("boom") })

	assert.PanicsWithValue(t, "boom", func() {
		typebus.Dispatch(bus, &Counter{})
	})

	records := decodeLogs(t, &buf)
	require.NotEmpty(t, records)
	last := records[len(records)-1]
	assert.Equal(t, "ERROR", last["level"])
	assert.Equal(t, "handler panicked", last["msg"])
	assert.Equal(t, float64(1), last["handler_index"])
	assert.Equal(t, "boom", last["panic"])
}

func TestBus_HandlerGoexit(t *testing.T) {
	var buf bytes.Buffer
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	bus := typebus.New(
		typebus.WithLogger(newJSONLogger(&buf)),
		typebus.WithSpanManager(observability.NewSpanManagerFromProvider(tp)),
	)
	typebus.RegisterFunc(bus, func(c *Counter) { c.Value++ })
	typebus.RegisterFunc(bus, func(c *Counter) { runtime.Goexit() })
	typebus.RegisterFunc(bus, func(c *Counter) { c.Value += 100 })

	evt := Counter{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		typebus.Dispatch(bus, &evt)
	}()
	<-done

	assert.Equal(t, uint32(1), evt.Value)

	records := decodeLogs(t, &buf)
	require.NotEmpty(t, records)
	last := records[len(records)-1]
	assert.Equal(t, "WARN", last["level"])
	assert.Equal(t, "handler exited goroutine", last["msg"])
	assert.Equal(t, float64(1), last["handler_index"])
	assert.Equal(t, "typebus_test.Counter", last["event_type"])

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Contains(t, spans[0].Status.Description, "exited")
}

func TestBus_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	recorder, err := observability.NewMetricsRecorderFromProvider(provider)
	require.NoError(t, err)

	bus := typebus.New(typebus.WithMetricsRecorder(recorder))
	typebus.RegisterFunc(bus, func(c *Counter) {})
	typebus.RegisterFunc(bus, func(c *Counter) {})
	typebus.Dispatch(bus, &Counter{})
	typebus.Dispatch(bus, &Counter{})
	typebus.Dispatch(bus, &Other{})

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	registrations := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				v, _ := dp.Attributes.Value("event_type")
				switch m.Name {
				case "typebus.dispatch.count":
					counts[v.AsString()] += dp.Value
				case "typebus.handler.registrations":
					registrations[v.AsString()] += dp.Value
				}
			}
		}
	}

	assert.Equal(t, map[string]int64{"typebus_test.Counter": 2, "typebus_test.Other": 1}, counts)
	assert.Equal(t, map[string]int64{"typebus_test.Counter": 2}, registrations)
}

func TestBus_Tracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	bus := typebus.New(
		typebus.WithName("orders"),
		typebus.WithSpanManager(observability.NewSpanManagerFromProvider(tp)),
		typebus.WithHandlerEvents(true),
	)
	typebus.RegisterFunc(bus, step("a"))
	typebus.RegisterFunc(bus, step("b"))

	t.Run("one span per dispatch with handler events", func(t *testing.T) {
		exporter.Reset()
		typebus.DispatchContext(context.Background(), bus, &Order{})

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, observability.DispatchSpanName, spans[0].Name)
		assert.Equal(t, codes.Ok, spans[0].Status.Code)
		require.Len(t, spans[0].Events, 2)
		assert.Equal(t, "handler.invoked", spans[0].Events[0].Name)
	})

	t.Run("no span without handlers", func(t *testing.T) {
		exporter.Reset()
		typebus.Dispatch(bus, &Other{})

		assert.Empty(t, exporter.GetSpans())
	})

	t.Run("panic marks span as error", func(t *testing.T) {
		exporter.Reset()
		typebus.RegisterFunc(bus, func(c *Counter) { panic("boom") })

		assert.Panics(t, func() {
			typebus.Dispatch(bus, &Counter{})
		})

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
		assert.Contains(t, spans[0].Status.Description, "boom")
	})
}

func TestOptionsFromConfig(t *testing.T) {
	t.Run("yaml section", func(t *testing.T) {
		cfg, err := config.FromYAML([]byte(`
typebus:
  name: orders
  metrics: false
  tracing: false
  handler_events: true
`))
		require.NoError(t, err)

		opts := typebus.OptionsFromConfig(cfg.Section("typebus"))
		assert.Len(t, opts, 4)

		bus := typebus.New(opts...)
		assert.Equal(t, "orders", bus.Name())
	})

	t.Run("empty config keeps defaults", func(t *testing.T) {
		opts := typebus.OptionsFromConfig(config.New(nil))
		assert.Empty(t, opts)

		bus := typebus.New(opts...)
		assert.Equal(t, typebus.DefaultName, bus.Name())
	})

	t.Run("empty name is ignored", func(t *testing.T) {
		bus := typebus.New(typebus.OptionsFromConfig(config.New(map[string]any{"name": ""}))...)
		assert.Equal(t, typebus.DefaultName, bus.Name())
	})
}
