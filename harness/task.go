package harness

import (
	"errors"
	"fmt"
	"log"

	"github.com/hwlab/cdctb/hdl"
	"github.com/hwlab/cdctb/sim"
)

// A TaskFunc is the body of a testbench task.
type TaskFunc func(t *Task) error

// A Task is one logically concurrent activity of the bench: a driver, a
// backpressure generator, a reset sequence, or a test flow. Exactly one
// task (or the engine) runs at any moment; control passes by explicit
// suspension.
type Task struct {
	name       string
	bench      *Bench
	fn         TaskFunc
	background bool

	resume chan struct{}
	yield  chan struct{}
	done   bool
	err    error

	pending  int
	watchers []*Task
}

// Name returns the name of the task.
func (t *Task) Name() string {
	return t.name
}

// Err returns the error the task finished with, if any.
func (t *Task) Err() error {
	return t.err
}

// Done reports whether the task has finished.
func (t *Task) Done() bool {
	return t.done
}

// Stopped reports whether the bench is shutting down. Long-running tasks
// must poll this after every suspension and return promptly when it is set.
func (t *Task) Stopped() bool {
	return t.bench.stopped
}

// Step resumes the task and blocks until it suspends again or finishes.
// It satisfies hdl.Waiter.
func (t *Task) Step() {
	if t.done {
		return
	}

	t.resume <- struct{}{}
	<-t.yield
}

// Handle processes the task's own wake-up events, scheduled by AwaitTime.
func (t *Task) Handle(_ sim.Event) error {
	t.Step()
	return nil
}

func (t *Task) body() {
	<-t.resume
	err := t.fn(t)
	t.finish(err)
	t.yield <- struct{}{}
}

func (t *Task) finish(err error) {
	if errors.Is(err, ErrStopped) && t.bench.stopped {
		err = nil
	}

	t.done = true
	t.err = err

	b := t.bench
	if err != nil {
		b.fail(fmt.Errorf("task %s: %w", t.name, err))
	}

	if !t.background {
		b.foreground--
		if b.foreground == 0 {
			b.stop()
		}
	}

	watchers := t.watchers
	t.watchers = nil
	for _, w := range watchers {
		w.pending--
		if w.pending == 0 {
			w.Step()
		}
	}
}

func (t *Task) suspend() {
	t.yield <- struct{}{}
	<-t.resume
}

// AwaitEdge suspends until the next rising edge of c. It returns
// immediately when the bench is stopping.
func (t *Task) AwaitEdge(c *hdl.Clock) {
	if t.bench.stopped || c.Stopped() {
		return
	}

	c.AwaitEdge(t)
	t.suspend()
}

// AwaitEdges suspends for n rising edges of c.
func (t *Task) AwaitEdges(c *hdl.Clock, n int) {
	for i := 0; i < n; i++ {
		if t.bench.stopped {
			return
		}
		t.AwaitEdge(c)
	}
}

// AwaitTime suspends for a fixed simulated delay.
func (t *Task) AwaitTime(d sim.VTime) {
	if t.bench.stopped {
		return
	}

	now := t.bench.engine.CurrentTime()
	evt := wakeEvent{EventBase: sim.MakeEventBase(now+d, t)}
	t.bench.engine.Schedule(evt)
	t.suspend()
}

// AwaitDone suspends until all listed tasks have finished.
func (t *Task) AwaitDone(deps ...*Task) {
	t.pending = 0
	for _, d := range deps {
		if d == t {
			log.Panicf("task %s awaits itself", t.name)
		}
		if !d.done {
			d.watchers = append(d.watchers, t)
			t.pending++
		}
	}

	if t.pending == 0 {
		return
	}

	t.suspend()
}

// WaitUntil suspends on rising edges of c until cond holds, for at most
// maxEdges edges. The condition is evaluated before the first suspension,
// so a condition that already holds costs no edges. It returns a
// TimeoutError naming what when the budget is exhausted, or ErrStopped when
// the bench shuts down first.
func (t *Task) WaitUntil(
	c *hdl.Clock,
	maxEdges int,
	what string,
	cond func() bool,
) error {
	for i := 0; i < maxEdges; i++ {
		if cond() {
			return nil
		}
		if t.bench.stopped {
			return ErrStopped
		}
		t.AwaitEdge(c)
	}

	if cond() {
		return nil
	}
	if t.bench.stopped {
		return ErrStopped
	}

	return &TimeoutError{Condition: what, Edges: maxEdges}
}

type wakeEvent struct {
	sim.EventBase
}
