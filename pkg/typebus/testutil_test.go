package typebus_test

// Test event types used across tests

// Counter is the arithmetic event used for ordering tests.
type Counter struct {
	Value uint32
}

// Other has the same layout as Counter but is a distinct event type.
type Other struct {
	Value uint32
}

// Order carries a failure field that handlers set out of band.
type Order struct {
	ID    string
	Total int
	Steps []string
	Err   error
}

// recorder is a stateful handler that appends its name to the event.
type recorder struct {
	name  string
	calls int
}

func (r *recorder) Handle(o *Order) {
	r.calls++
	o.Steps = append(o.Steps, r.name)
}

// step returns a handler func that appends name to the order's steps.
func step(name string) func(*Order) {
	return func(o *Order) {
		o.Steps = append(o.Steps, name)
	}
}
