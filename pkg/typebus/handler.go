package typebus

import "fmt"

// Handler reacts to events of exactly type E.
//
// Handle receives the caller's event by pointer and may mutate it. Later
// handlers see those mutations. There is no error return: a handler that
// needs to report failure does so through the event itself, for example by
// setting an Err field the caller checks after Dispatch returns.
//
// A Handler is kept for the lifetime of the Bus it is registered with and
// may be called any number of times.
type Handler[E any] interface {
	Handle(event *E)
}

// HandlerFunc adapts a function to the Handler interface.
//
//	typebus.RegisterHandler[Counter](bus, typebus.HandlerFunc[Counter](func(c *Counter) {
//	    c.Value++
//	}))
type HandlerFunc[E any] func(event *E)

// Handle calls f(event).
func (f HandlerFunc[E]) Handle(event *E) {
	f(event)
}

// handlerBox holds one Handler[E] with E erased. The box is only ever
// created by RegisterHandler, which files it under TypeOf[E]().
type handlerBox struct {
	handler any
	name    string
}

// unbox recovers the Handler[E] stored in b. A mismatch means a box was
// filed under the wrong TypeID, which RegisterHandler never does, so it
// panics instead of returning an error.
func unbox[E any](b handlerBox, index int) Handler[E] {
	h, ok := b.handler.(Handler[E])
	if !ok {
		panic(&TypeMismatchError{
			Want:    TypeOf[E](),
			Got:     fmt.Sprintf("%T", b.handler),
			Handler: b.name,
			Index:   index,
		})
	}
	return h
}

// handlerName extracts a name for a handler (for logging/tracing).
func handlerName(h any) string {
	return fmt.Sprintf("%T", h)
}
