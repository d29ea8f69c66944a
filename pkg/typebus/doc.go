// Package typebus is an in-process, synchronous event bus keyed by Go type.
//
// # Overview
//
// Events are plain Go values. Nothing declares the set of event types up
// front: any package can define a struct and start registering handlers
// for it. Handlers are filed under the event's type identity (TypeID) and
// always receive exactly that type, so handlers never type-assert.
//
//	type OrderPlaced struct {
//	    ID    string
//	    Total int
//	    Err   error
//	}
//
//	bus := typebus.New()
//
//	typebus.RegisterFunc(bus, func(o *OrderPlaced) {
//	    if o.Total <= 0 {
//	        o.Err = errors.New("empty order")
//	    }
//	})
//	typebus.RegisterHandler[OrderPlaced](bus, auditor) // auditor has Handle(*OrderPlaced)
//
//	evt := OrderPlaced{ID: "o-1", Total: 42}
//	typebus.Dispatch(bus, &evt)
//	if evt.Err != nil {
//	    // a handler rejected the order
//	}
//
// # Dispatch Semantics
//
//   - Handlers run synchronously on the caller's goroutine, in
//     registration order, and all of them finish before Dispatch returns.
//   - Handlers share the event pointer. Each one sees the mutations made
//     by the handlers before it, so a sequence of handlers works as a
//     pipeline over the event's fields.
//   - Only handlers registered for the exact static type run. Two types
//     with identical fields are still different events.
//   - Dispatching a type with no handlers does nothing.
//   - Registering a handler twice makes it run twice.
//   - A panicking handler stops the dispatch and the panic reaches the
//     caller. There is no recovery and no retry.
//
// Handlers have no error return. Report failures through the event, as
// with the Err field above.
//
// # Type Identity
//
// TypeOf[E]() is computed from the type parameter with reflect.TypeFor,
// never from the value being dispatched. Dispatching through an interface
// type only reaches handlers registered for that interface type:
//
//	var s fmt.Stringer = myValue
//	typebus.Dispatch(bus, &s) // handlers for fmt.Stringer, not for myValue's type
//
// # Observability
//
// Logging, metrics, and tracing are opt-in:
//
//	bus := typebus.New(
//	    typebus.WithName("orders"),
//	    typebus.WithLogger(logger),
//	    typebus.WithMetrics(true),
//	    typebus.WithTracing(true),
//	)
//
// Settings can also come from a YAML or JSON file via the config package
// and OptionsFromConfig.
//
// # Thread Safety
//
// A Bus may be shared between goroutines: registration and dispatch are
// synchronized. Handlers are not, and the Bus never copies events, so
// callers own the synchronization of event values and handler state.
package typebus
