package benchmarks

import (
	"context"
	"testing"

	"github.com/randalmurphal/typebus/pkg/typebus"
)

// Event is the payload used by all dispatch benchmarks.
type Event struct {
	Value int
}

// Unhandled has no handlers registered.
type Unhandled struct {
	Value int
}

// BenchmarkDispatch_1 dispatches to a single handler.
func BenchmarkDispatch_1(b *testing.B) {
	bus := buildBus(1)
	evt := Event{}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		typebus.Dispatch(bus, &evt)
	}
}

// BenchmarkDispatch_10 dispatches to ten handlers.
func BenchmarkDispatch_10(b *testing.B) {
	bus := buildBus(10)
	evt := Event{}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		typebus.Dispatch(bus, &evt)
	}
}

// BenchmarkDispatch_100 dispatches to a hundred handlers.
func BenchmarkDispatch_100(b *testing.B) {
	bus := buildBus(100)
	evt := Event{}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		typebus.Dispatch(bus, &evt)
	}
}

// BenchmarkDispatch_Unhandled measures the no-handler path.
func BenchmarkDispatch_Unhandled(b *testing.B) {
	bus := buildBus(10)
	evt := Unhandled{}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		typebus.Dispatch(bus, &evt)
	}
}

// BenchmarkDispatch_Parallel dispatches from many goroutines at once.
func BenchmarkDispatch_Parallel(b *testing.B) {
	bus := buildBus(10)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		evt := Event{}
		ctx := context.Background()
		for pb.Next() {
			typebus.DispatchContext(ctx, bus, &evt)
		}
	})
}

// BenchmarkRegister measures appending handlers to a growing bus.
func BenchmarkRegister(b *testing.B) {
	bus := typebus.New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		typebus.RegisterFunc(bus, increment)
	}
}

func increment(e *Event) {
	e.Value++
}

func buildBus(handlers int) *typebus.Bus {
	bus := typebus.New()
	for i := 0; i < handlers; i++ {
		typebus.RegisterFunc(bus, increment)
	}
	return bus
}
