package stream

import (
	"math/rand"

	"github.com/hwlab/cdctb/harness"
	"github.com/hwlab/cdctb/hdl"
)

// A Backpressure generator drives a receive-side ready signal to an
// independently random level on every edge of its domain. It runs for the
// whole scenario, never gating on driver state: uncorrelated stress is the
// point.
type Backpressure struct {
	name  string
	clk   *hdl.Clock
	ready *hdl.Signal
	rng   *rand.Rand
}

// NewBackpressure creates a generator and claims the ready signal. The
// random source must be dedicated to this generator.
func NewBackpressure(
	name string,
	clk *hdl.Clock,
	ready *hdl.Signal,
	rng *rand.Rand,
) *Backpressure {
	ready.Claim(name)

	return &Backpressure{
		name:  name,
		clk:   clk,
		ready: ready,
		rng:   rng,
	}
}

// Run randomizes readiness every edge until the bench stops. It is a
// TaskFunc for a background task.
func (g *Backpressure) Run(t *harness.Task) error {
	for !t.Stopped() {
		g.ready.SetBool(g.rng.Intn(2) == 1)
		t.AwaitEdge(g.clk)
	}

	return nil
}
