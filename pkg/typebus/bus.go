package typebus

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/randalmurphal/typebus/pkg/typebus/observability"
	"github.com/randalmurphal/typebus/pkg/typebus/registry"
)

// Bus files handlers by event type and dispatches events to them.
//
// A Bus starts empty and only grows: handlers are appended in registration
// order and never removed. Handlers for different event types share one
// Bus without any central list of event types.
//
// Bus is safe for concurrent use. Handlers themselves are called on the
// dispatching goroutine and receive no synchronization from the Bus, so
// an event value must not be dispatched from two goroutines at once.
//
// Example:
//
//	bus := typebus.New()
//	typebus.RegisterFunc(bus, func(c *Counter) { c.Value += 2 })
//	typebus.RegisterFunc(bus, func(c *Counter) { c.Value *= 4 })
//
//	c := Counter{}
//	typebus.Dispatch(bus, &c) // c.Value == 8
type Bus struct {
	id       string
	name     string
	handlers *registry.Registry[TypeID, handlerBox]

	logger        *slog.Logger
	metrics       observability.MetricsRecorder
	spans         observability.SpanManager
	handlerEvents bool
}

// New creates an empty Bus.
func New(opts ...Option) *Bus {
	cfg := defaultBusConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	id := uuid.New().String()
	return &Bus{
		id:            id,
		name:          cfg.name,
		handlers:      registry.New[TypeID, handlerBox](),
		logger:        observability.EnrichLogger(cfg.logger, id, cfg.name),
		metrics:       cfg.metrics,
		spans:         cfg.spans,
		handlerEvents: cfg.handlerEvents,
	}
}

const errNilBus = "typebus: bus cannot be nil"

func mustBus(b *Bus) {
	if b == nil {
		panic(errNilBus)
	}
}

// ID returns the bus's unique identifier.
func (b *Bus) ID() string {
	mustBus(b)
	return b.id
}

// Name returns the bus name.
func (b *Bus) Name() string {
	mustBus(b)
	return b.name
}

// Len returns the number of handlers registered across all event types.
func (b *Bus) Len() int {
	mustBus(b)
	return b.handlers.Total()
}

// Types returns the event types that have at least one handler, sorted by
// type name, then package path. Types whose names and packages match, such
// as same-named types declared in different functions, keep the order in
// which they were first registered.
func (b *Bus) Types() []TypeID {
	mustBus(b)
	types := b.handlers.Keys()
	sort.SliceStable(types, func(i, j int) bool {
		a, c := types[i], types[j]
		if a.String() != c.String() {
			return a.String() < c.String()
		}
		return a.pkgPath() < c.pkgPath()
	})
	return types
}

// Range calls fn with each event type and its handler count, in the order
// the types were first registered. If fn returns false, iteration stops.
// fn may register handlers; they are not visited by the current call.
func (b *Bus) Range(fn func(id TypeID, handlers int) bool) {
	mustBus(b)
	b.handlers.Range(func(id TypeID, boxes []handlerBox) bool {
		return fn(id, len(boxes))
	})
}

// lookup returns the handlers filed under id in registration order.
// Unknown ids yield nil.
func (b *Bus) lookup(id TypeID) []handlerBox {
	return b.handlers.Get(id)
}

// RegisterHandler adds h as a handler for events of type E.
//
// Handlers run in registration order. Registering the same handler twice
// makes it run twice per dispatch.
//
// Panics if b or h is nil.
func RegisterHandler[E any](b *Bus, h Handler[E]) {
	mustBus(b)
	if h == nil {
		panic("typebus: handler cannot be nil")
	}
	if f, ok := h.(HandlerFunc[E]); ok && f == nil {
		panic("typebus: handler cannot be nil")
	}

	id := TypeOf[E]()
	box := handlerBox{handler: h, name: handlerName(h)}
	count := b.handlers.Append(id, box)

	b.metrics.RecordRegistration(context.Background(), id.String())
	observability.LogRegister(b.logger, id.String(), box.name, count)
}

// RegisterFunc adds fn as a handler for events of type E. E is inferred
// from fn's parameter:
//
//	typebus.RegisterFunc(bus, func(o *OrderPlaced) { ... })
//
// Panics if b or fn is nil.
func RegisterFunc[E any](b *Bus, fn func(event *E)) {
	if fn == nil {
		panic("typebus: handler function cannot be nil")
	}
	RegisterHandler[E](b, HandlerFunc[E](fn))
}

// HandlerCount returns the number of handlers registered for E.
// Panics if b is nil.
func HandlerCount[E any](b *Bus) int {
	mustBus(b)
	return b.handlers.Count(TypeOf[E]())
}

// HasHandlers reports whether at least one handler is registered for E.
// Panics if b is nil.
func HasHandlers[E any](b *Bus) bool {
	mustBus(b)
	return b.handlers.Has(TypeOf[E]())
}
