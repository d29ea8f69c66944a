package typebus

import "fmt"

// TypeMismatchError is the panic value raised when a stored handler does
// not implement Handler[E] for the event type it was filed under.
//
// Registration keeps handlers and type identities in lockstep, so this can
// only be caused by a bug in the bus itself. It is never returned to
// callers; it aborts the dispatch.
type TypeMismatchError struct {
	// Want is the event type being dispatched.
	Want TypeID
	// Got is the dynamic type found in the handler box.
	Got string
	// Handler is the handler name captured at registration.
	Handler string
	// Index is the handler's position in registration order.
	Index int
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("typebus: handler %d (%s) filed under %s is %s, not a Handler[%s]",
		e.Index, e.Handler, e.Want, e.Got, e.Want)
}
