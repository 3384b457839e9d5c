package stream

// A Monitor passively samples a bus at every rising edge and extracts
// accepted transactions. When an edge samples valid and ready asserted
// together, the monitor records the data value and invokes every subscriber
// synchronously, in subscription order, before the edge completes. It never
// mutates signals and never delays or filters observations.
type Monitor struct {
	name        string
	bus         *Bus
	subscribers []func(uint64)
	count       int
}

// NewMonitor creates a monitor on a bus and registers its probe on the
// bus's clock.
func NewMonitor(name string, bus *Bus) *Monitor {
	m := &Monitor{
		name: name,
		bus:  bus,
	}

	bus.Clock().OnSample(m.observe)

	return m
}

// Subscribe registers a callback invoked once per accepted transaction.
func (m *Monitor) Subscribe(cb func(data uint64)) {
	m.subscribers = append(m.subscribers, cb)
}

// Count returns the number of transactions observed so far.
func (m *Monitor) Count() int {
	return m.count
}

func (m *Monitor) observe() {
	if !m.bus.Valid.Bool() || !m.bus.Ready.Bool() {
		return
	}

	data := m.bus.Data.Uint64()
	m.count++

	for _, cb := range m.subscribers {
		cb(data)
	}
}
