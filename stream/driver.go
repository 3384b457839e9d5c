package stream

import (
	"math/rand"

	"github.com/hwlab/cdctb/harness"
)

// A Driver owns the write-side valid and data signals of a bus and turns a
// queue of words into handshake-compliant cycles. Once valid is raised for
// a word it stays raised until an edge samples valid and ready together;
// the driver never drops valid without an acceptance. Before each word the
// driver may insert one or more idle cycles, decided by its own random
// source independently of receiver readiness.
type Driver struct {
	name     string
	bus      *Bus
	rng      *rand.Rand
	idleProb float64
	queue    []uint64
}

// NewDriver creates a driver for the write side of a bus and claims the
// valid and data signals. The random source decides idle insertion and must
// be dedicated to this driver.
func NewDriver(name string, bus *Bus, rng *rand.Rand) *Driver {
	bus.Valid.Claim(name)
	bus.Data.Claim(name)

	return &Driver{
		name: name,
		bus:  bus,
		rng:  rng,
	}
}

// WithIdleProb sets the probability of inserting an idle cycle before a
// word. Each inserted idle cycle redraws, so gaps of any length occur.
func (d *Driver) WithIdleProb(p float64) *Driver {
	d.idleProb = p
	return d
}

// Enqueue appends words to send. The queue must be complete before the
// driver task starts.
func (d *Driver) Enqueue(vals ...uint64) {
	d.queue = append(d.queue, vals...)
}

// Pending returns the number of words not yet accepted.
func (d *Driver) Pending() int {
	return len(d.queue)
}

// Run sends every queued word. It is a TaskFunc.
func (d *Driver) Run(t *harness.Task) error {
	clk := d.bus.Clock()

	for len(d.queue) > 0 {
		if t.Stopped() {
			return harness.ErrStopped
		}

		for d.idleProb > 0 && d.rng.Float64() < d.idleProb {
			d.bus.Valid.SetBool(false)
			t.AwaitEdge(clk)
			if t.Stopped() {
				return harness.ErrStopped
			}
		}

		d.bus.Data.Set(d.queue[0])
		d.bus.Valid.SetBool(true)

		for {
			t.AwaitEdge(clk)
			if t.Stopped() {
				return harness.ErrStopped
			}
			if d.bus.Accepted() {
				break
			}
		}

		d.queue = d.queue[1:]
	}

	d.bus.Valid.SetBool(false)

	return nil
}
