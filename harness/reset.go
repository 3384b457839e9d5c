package harness

import (
	"github.com/hwlab/cdctb/hdl"
	"github.com/hwlab/cdctb/sim"
)

// A ResetSequencer holds a domain's active-low reset asserted for a fixed
// simulated time, then releases it synchronously to the domain's own next
// rising edge. Two domains are reset by two sequencers running as separate
// tasks; they finish at different wall times when the clock rates differ.
type ResetSequencer struct {
	clk    *hdl.Clock
	resetN *hdl.Signal
	hold   sim.VTime
}

// NewResetSequencer creates a sequencer and claims the reset signal.
func NewResetSequencer(
	clk *hdl.Clock,
	resetN *hdl.Signal,
	hold sim.VTime,
) *ResetSequencer {
	resetN.Claim("Reset[" + clk.Name() + "]")

	return &ResetSequencer{
		clk:    clk,
		resetN: resetN,
		hold:   hold,
	}
}

// Run executes the reset sequence. It is a TaskFunc.
func (r *ResetSequencer) Run(t *Task) error {
	r.resetN.SetBool(false)
	t.AwaitTime(r.hold)
	t.AwaitEdge(r.clk)
	r.resetN.SetBool(true)
	t.AwaitEdge(r.clk)
	return nil
}
