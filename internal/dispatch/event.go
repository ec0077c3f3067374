package dispatch

// Event is one UI interaction. Once a listener handles it, Stop keeps
// enclosing listeners from interpreting it again.
type Event struct {
	Region    Region
	Role      Role
	ProductID string

	stopped bool
}

func (e *Event) Stop() { e.stopped = true }
func (e *Event) Stopped() bool { return e.stopped }

// Action is the cart action this event asks for.
func (e *Event) Action() Action {
	return Resolve(e.Region, e.Role)
}
