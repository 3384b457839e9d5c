package harness

import (
	"errors"
	"log"

	"github.com/hwlab/cdctb/hdl"
	"github.com/hwlab/cdctb/sim"
)

// A Bench owns one simulated timeline: an engine, the clocks of every
// domain, and the tasks stimulating and checking the logic under test. A
// bench lives for exactly one scenario.
type Bench struct {
	engine   sim.Engine
	clocks   []*hdl.Clock
	tasks    []*Task
	deadline sim.VTime

	foreground int
	started    bool
	stopped    bool
	errs       []error
}

// NewBench creates a bench over the given engine.
func NewBench(engine sim.Engine) *Bench {
	return &Bench{engine: engine}
}

// WithDeadline bounds the whole scenario by a simulated-time deadline.
// Reaching it fails the scenario instead of letting it hang.
func (b *Bench) WithDeadline(d sim.VTime) *Bench {
	b.deadline = d
	return b
}

// Engine returns the engine driving the bench.
func (b *Bench) Engine() sim.Engine {
	return b.engine
}

// Clocks returns the registered clocks.
func (b *Bench) Clocks() []*hdl.Clock {
	return b.clocks
}

// NewClock creates a clock, registers it with the bench, and returns it.
func (b *Bench) NewClock(name string, period sim.VTime) *hdl.Clock {
	c := hdl.NewClock(name, b.engine, period)
	b.clocks = append(b.clocks, c)
	return c
}

// Go launches a foreground task. The bench stops once every foreground
// task has finished.
func (b *Bench) Go(name string, fn TaskFunc) *Task {
	return b.newTask(name, fn, false)
}

// GoBackground launches a background task. Background tasks run for the
// whole scenario and are unwound when the bench stops; they must poll
// Task.Stopped after every suspension.
func (b *Bench) GoBackground(name string, fn TaskFunc) *Task {
	return b.newTask(name, fn, true)
}

func (b *Bench) newTask(name string, fn TaskFunc, background bool) *Task {
	t := &Task{
		name:       name,
		bench:      b,
		fn:         fn,
		background: background,
		resume:     make(chan struct{}),
		yield:      make(chan struct{}),
	}

	b.tasks = append(b.tasks, t)
	if !background {
		b.foreground++
	}

	go t.body()

	if b.started {
		t.Step()
	}

	return t
}

// Run starts all clocks and tasks and processes events until every
// foreground task finishes, a task fails, or the deadline hits. It returns
// the collected failures, nil on a clean pass.
func (b *Bench) Run() error {
	if b.foreground == 0 {
		log.Panic("bench has no foreground task")
	}

	for _, c := range b.clocks {
		c.Start()
	}

	now := b.engine.CurrentTime()

	b.engine.Schedule(kickoffEvent{
		EventBase: sim.MakeEventBase(now, b),
	})

	if b.deadline > 0 {
		b.engine.Schedule(deadlineEvent{
			EventBase: sim.MakeSecondaryEventBase(now+b.deadline, b),
		})
	}

	if err := b.engine.Run(); err != nil {
		b.errs = append(b.errs, err)
	}

	return errors.Join(b.errs...)
}

// Handle processes the bench's own events: the kickoff that starts all
// tasks and the optional deadline.
func (b *Bench) Handle(e sim.Event) error {
	switch e.(type) {
	case kickoffEvent:
		b.started = true
		tasks := b.tasks
		for _, t := range tasks {
			t.Step()
		}
	case deadlineEvent:
		if !b.stopped {
			b.fail(&TimeoutError{Condition: "scenario deadline"})
		}
	default:
		log.Panicf("bench cannot handle event %T", e)
	}

	return nil
}

func (b *Bench) fail(err error) {
	b.errs = append(b.errs, err)
	b.stop()
}

func (b *Bench) stop() {
	if b.stopped {
		return
	}

	b.stopped = true

	for _, c := range b.clocks {
		c.Stop()
	}
}

type kickoffEvent struct {
	sim.EventBase
}

type deadlineEvent struct {
	sim.EventBase
}
