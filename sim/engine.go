package sim

// TimeTeller can report the current simulated time.
type TimeTeller interface {
	CurrentTime() VTime
}

// EventScheduler can schedule future events.
type EventScheduler interface {
	Schedule(e Event)
}

// An Engine drives a discrete event simulation forward.
type Engine interface {
	Hookable
	TimeTeller
	EventScheduler

	// Run processes events in time order until none remain, or until a
	// handler returns an error.
	Run() error

	// Pause stops the engine from processing more events until Continue is
	// called.
	Pause()

	// Continue resumes a paused engine.
	Continue()
}
