package hdl

import "log"

// BitSyncBuilder builds multi-stage bit synchronizer models.
type BitSyncBuilder struct {
	clk    *Clock
	stages int
}

// MakeBitSyncBuilder creates a builder with default parameters.
func MakeBitSyncBuilder() BitSyncBuilder {
	return BitSyncBuilder{stages: 2}
}

// WithClock sets the destination-domain clock.
func (b BitSyncBuilder) WithClock(clk *Clock) BitSyncBuilder {
	b.clk = clk
	return b
}

// WithStages sets the number of synchronizer stages.
func (b BitSyncBuilder) WithStages(n int) BitSyncBuilder {
	b.stages = n
	return b
}

// Build creates the synchronizer and registers its update on the clock.
func (b BitSyncBuilder) Build(name string) *BitSync {
	if b.clk == nil {
		log.Panicf("bitsync %s: clock must be set", name)
	}
	if b.stages < 1 {
		log.Panicf("bitsync %s: stages must be at least 1", name)
	}

	s := &BitSync{
		name:   name,
		ResetN: NewSignal(name + ".ResetN"),
		D:      NewSignal(name + ".D"),
		Q:      NewSignal(name + ".Q").Claim(name),
		stages: make([]bool, b.stages),
	}

	b.clk.OnEdge(s.update)

	return s
}

// BitSync is a behavioral model of an N-stage flip-flop chain. An input
// level change reaches Q exactly len(stages) rising edges after the edge
// that first samples it, never earlier.
type BitSync struct {
	name string

	ResetN *Signal
	D      *Signal
	Q      *Signal

	// stages[0] samples D; the last element is the Q register.
	stages []bool
}

// Name returns the name of the synchronizer.
func (s *BitSync) Name() string {
	return s.name
}

// Stages returns the configured stage count.
func (s *BitSync) Stages() int {
	return len(s.stages)
}

func (s *BitSync) update() {
	if !s.ResetN.Bool() {
		zeroBools(s.stages)
		s.Q.SetBool(false)
		return
	}

	for i := len(s.stages) - 1; i > 0; i-- {
		s.stages[i] = s.stages[i-1]
	}
	s.stages[0] = s.D.Bool()

	s.Q.SetBool(s.stages[len(s.stages)-1])
}
