package sim

// VTime is a point in simulated time, in seconds.
type VTime float64

// Common sub-second units, usable as "10 * sim.Nanosecond".
const (
	Second      VTime = 1
	Millisecond VTime = 1e-3
	Microsecond VTime = 1e-6
	Nanosecond  VTime = 1e-9
	Picosecond  VTime = 1e-12
)

// An Event is something that will happen at a defined simulated time.
type Event interface {
	// Time returns when the event fires.
	Time() VTime

	// Handler returns the handler that processes the event.
	Handler() Handler

	// IsSecondary marks events that run after all same-time primary events.
	IsSecondary() bool
}

// A Handler processes events. An event is always handled by the handler it
// was created with.
type Handler interface {
	Handle(e Event) error
}

// EventBase carries the fields shared by all event types. Concrete events
// embed it and add their payload.
type EventBase struct {
	ID        string
	time      VTime
	handler   Handler
	secondary bool
}

// MakeEventBase creates an EventBase that fires at time t.
func MakeEventBase(t VTime, handler Handler) EventBase {
	return EventBase{
		ID:      GetIDGenerator().Generate(),
		time:    t,
		handler: handler,
	}
}

// MakeSecondaryEventBase creates an EventBase for an event that runs after
// all same-time primary events.
func MakeSecondaryEventBase(t VTime, handler Handler) EventBase {
	e := MakeEventBase(t, handler)
	e.secondary = true
	return e
}

// Time returns when the event fires.
func (e EventBase) Time() VTime {
	return e.time
}

// Handler returns the handler that processes the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// IsSecondary returns true if the event runs after same-time primary events.
func (e EventBase) IsSecondary() bool {
	return e.secondary
}
