package hdl

import (
	"log"

	"github.com/hwlab/cdctb/sim"
)

// HookPosSignalChange triggers when a signal takes a new value.
var HookPosSignalChange = &sim.HookPos{Name: "SignalChange"}

// SignalChange is the hook payload for HookPosSignalChange.
type SignalChange struct {
	Old uint64
	New uint64
}

// A Signal is a named value wire. Each signal has at most one writer for the
// duration of a scenario; the writer registers itself with Claim. Readers
// may sample at any time.
type Signal struct {
	sim.HookableBase

	name  string
	owner string
	val   uint64
}

// NewSignal creates a signal holding 0.
func NewSignal(name string) *Signal {
	return &Signal{name: name}
}

// Name returns the name of the signal.
func (s *Signal) Name() string {
	return s.name
}

// Claim registers the single writer of the signal. Claiming an already
// claimed signal is a wiring error.
func (s *Signal) Claim(owner string) *Signal {
	if s.owner != "" {
		log.Panicf("signal %s already driven by %s, cannot claim for %s",
			s.name, s.owner, owner)
	}

	s.owner = owner

	return s
}

// Set drives a new value onto the signal.
func (s *Signal) Set(v uint64) {
	if v == s.val {
		return
	}

	old := s.val
	s.val = v

	s.InvokeHook(sim.HookCtx{
		Domain: s,
		Pos:    HookPosSignalChange,
		Item:   SignalChange{Old: old, New: v},
	})
}

// SetBool drives 0 or 1.
func (s *Signal) SetBool(b bool) {
	if b {
		s.Set(1)
		return
	}
	s.Set(0)
}

// Uint64 samples the current value.
func (s *Signal) Uint64() uint64 {
	return s.val
}

// Bool samples the current value as a boolean, true for any non-zero value.
func (s *Signal) Bool() bool {
	return s.val != 0
}
