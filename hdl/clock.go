package hdl

import (
	"log"

	"github.com/hwlab/cdctb/sim"
)

// A Waiter is resumed once at the next rising edge of the clock it is
// registered with. Step must run the waiter until its next suspension point
// before returning.
type Waiter interface {
	Step()
}

// A Clock generates a free-running 50% duty toggle with a configured period
// and phase offset. Clocks with different periods share no phase
// relationship; that independence is the point.
//
// On each rising edge the clock runs its probes, then its sequential
// updates, then the waiters registered for that edge.
type Clock struct {
	name   string
	engine sim.Engine
	period sim.VTime
	phase  sim.VTime

	sig     *Signal
	level   bool
	edges   uint64
	stopped bool

	probes  []func()
	updates []func()
	waiters []Waiter
}

type toggleEvent struct {
	sim.EventBase
}

// NewClock creates a clock with the given period. The clock does not toggle
// until Start is called.
func NewClock(name string, engine sim.Engine, period sim.VTime) *Clock {
	if period <= 0 {
		log.Panicf("clock %s: period must be positive", name)
	}

	c := &Clock{
		name:   name,
		engine: engine,
		period: period,
	}
	c.sig = NewSignal(name + ".clk").Claim(name)

	return c
}

// WithPhase offsets the first rising edge by p.
func (c *Clock) WithPhase(p sim.VTime) *Clock {
	c.phase = p
	return c
}

// Name returns the name of the clock.
func (c *Clock) Name() string {
	return c.name
}

// Period returns the clock period.
func (c *Clock) Period() sim.VTime {
	return c.period
}

// Freq returns the clock frequency.
func (c *Clock) Freq() sim.Freq {
	return sim.PeriodFreq(c.period)
}

// Signal returns the toggling clock signal.
func (c *Clock) Signal() *Signal {
	return c.sig
}

// EdgeCount returns the number of rising edges since Start.
func (c *Clock) EdgeCount() uint64 {
	return c.edges
}

// Stopped reports whether the clock has been stopped.
func (c *Clock) Stopped() bool {
	return c.stopped
}

// OnSample registers a probe that runs first at every rising edge. Probes
// must not mutate signals.
func (c *Clock) OnSample(f func()) {
	c.probes = append(c.probes, f)
}

// OnEdge registers a sequential update that runs at every rising edge, after
// all probes.
func (c *Clock) OnEdge(f func()) {
	c.updates = append(c.updates, f)
}

// AwaitEdge registers a waiter to be resumed once at the next rising edge.
// The caller must not register on a stopped clock.
func (c *Clock) AwaitEdge(w Waiter) {
	if c.stopped {
		log.Panicf("clock %s: await on stopped clock", c.name)
	}

	c.waiters = append(c.waiters, w)
}

// Start schedules the first toggle. The clock starts low at its phase
// offset, so the first rising edge lands at phase + period/2 after the
// current time.
func (c *Clock) Start() {
	now := c.engine.CurrentTime()
	evt := toggleEvent{
		EventBase: sim.MakeEventBase(now+c.phase+c.period/2, c),
	}
	c.engine.Schedule(evt)
}

// Stop halts the clock. Any pending waiters are resumed one final time so
// their tasks can observe the stop and unwind.
func (c *Clock) Stop() {
	if c.stopped {
		return
	}

	c.stopped = true

	waiters := c.waiters
	c.waiters = nil
	for _, w := range waiters {
		w.Step()
	}
}

// Handle processes a toggle event.
func (c *Clock) Handle(e sim.Event) error {
	if c.stopped {
		return nil
	}

	c.level = !c.level
	c.sig.SetBool(c.level)

	if c.level {
		c.edges++

		for _, p := range c.probes {
			p()
		}
		for _, u := range c.updates {
			u()
		}

		waiters := c.waiters
		c.waiters = nil
		for _, w := range waiters {
			w.Step()
		}
	}

	next := toggleEvent{
		EventBase: sim.MakeEventBase(e.Time()+c.period/2, c),
	}
	c.engine.Schedule(next)

	return nil
}
