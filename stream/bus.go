// Package stream implements the driver, monitor, backpressure, and
// scoreboard layer for valid/ready streaming buses.
package stream

import (
	"github.com/hwlab/cdctb/hdl"
)

// A Bus groups the valid/ready/data signals of one streaming interface in
// one clock domain. The bus samples all three at every rising edge, so a
// task resumed after the edge can still decide acceptance from the values
// that were actually present at the edge, regardless of what other tasks
// have driven since.
type Bus struct {
	clk   *hdl.Clock
	Valid *hdl.Signal
	Ready *hdl.Signal
	Data  *hdl.Signal

	sampledValid bool
	sampledReady bool
	sampledData  uint64
}

// NewBus creates a bus over the given signals and registers its sampler on
// the clock.
func NewBus(clk *hdl.Clock, valid, ready, data *hdl.Signal) *Bus {
	b := &Bus{
		clk:   clk,
		Valid: valid,
		Ready: ready,
		Data:  data,
	}

	clk.OnSample(b.sample)

	return b
}

// Clock returns the clock domain of the bus.
func (b *Bus) Clock() *hdl.Clock {
	return b.clk
}

func (b *Bus) sample() {
	b.sampledValid = b.Valid.Bool()
	b.sampledReady = b.Ready.Bool()
	b.sampledData = b.Data.Uint64()
}

// Accepted reports whether valid and ready were both asserted at the last
// sampled edge, the only condition under which a word transfers.
func (b *Bus) Accepted() bool {
	return b.sampledValid && b.sampledReady
}

// SampledData returns the data value at the last sampled edge.
func (b *Bus) SampledData() uint64 {
	return b.sampledData
}
