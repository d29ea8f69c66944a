package typebus

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/typebus/pkg/typebus/observability"
)

// Dispatch runs every handler registered for E against event, in
// registration order, before returning.
//
// Handlers share the pointer, so each one sees the mutations made by the
// handlers before it. Dispatching a type with no handlers is a no-op.
//
// A panicking handler aborts the dispatch: later handlers do not run and
// the panic propagates to the caller. A handler that calls runtime.Goexit
// also aborts it; the exit is logged at Warn and counted as a panic.
//
// Panics if b or event is nil.
func Dispatch[E any](b *Bus, event *E) {
	DispatchContext(context.Background(), b, event)
}

// DispatchContext is Dispatch with a context for tracing and metrics.
// The context is not used for cancellation; every handler runs even if
// ctx is done.
func DispatchContext[E any](ctx context.Context, b *Bus, event *E) {
	mustBus(b)
	if event == nil {
		panic("typebus: event cannot be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	id := TypeOf[E]()
	eventType := id.String()
	done := observability.TimedOperation()

	// The snapshot is fixed here; handlers registered by a running
	// handler apply from the next dispatch.
	boxes := b.lookup(id)
	if len(boxes) == 0 {
		b.metrics.RecordDispatch(ctx, eventType, 0, done(), false)
		observability.LogDispatch(b.logger, eventType, 0, observability.Milliseconds(done()))
		return
	}

	ctx, span := b.spans.StartDispatchSpan(ctx, b.name, eventType, len(boxes))

	current := 0
	completed := false
	defer func() {
		if completed {
			return
		}
		r := recover()
		name := boxes[current].name
		b.metrics.RecordDispatch(ctx, eventType, len(boxes), done(), true)
		if r == nil {
			// runtime.Goexit inside a handler.
			observability.LogHandlerExit(b.logger, eventType, name, current)
			b.spans.EndSpanWithError(span, fmt.Errorf("handler %d (%s) exited", current, name))
			return
		}
		observability.LogHandlerPanic(b.logger, eventType, name, current, r)
		b.spans.EndSpanWithError(span, fmt.Errorf("handler %d (%s) panicked: %v", current, name, r))
		panic(r)
	}()

	for i, box := range boxes {
		current = i
		h := unbox[E](box, i)
		if b.handlerEvents {
			b.spans.AddSpanEvent(ctx, "handler.invoked",
				attribute.String("handler", box.name),
				attribute.Int("handler.index", i),
			)
		}
		h.Handle(event)
	}
	completed = true

	elapsed := done()
	b.metrics.RecordDispatch(ctx, eventType, len(boxes), elapsed, false)
	b.spans.EndSpanWithError(span, nil)
	observability.LogDispatch(b.logger, eventType, len(boxes), observability.Milliseconds(elapsed))
}
