package stream

import (
	"github.com/hwlab/cdctb/harness"
)

// A Scoreboard collects observed transactions in arrival order and compares
// them against the expected sequence. The target logic is order-preserving,
// so the comparison is exact positional equality.
type Scoreboard struct {
	name     string
	expected []uint64
	received []uint64
}

// NewScoreboard creates an empty scoreboard.
func NewScoreboard(name string) *Scoreboard {
	return &Scoreboard{name: name}
}

// Expect appends to the expected sequence. The sequence is immutable once
// stimulus starts.
func (s *Scoreboard) Expect(vals ...uint64) {
	s.expected = append(s.expected, vals...)
}

// Observe appends an observed transaction. It is the subscriber to hand to
// a Monitor.
func (s *Scoreboard) Observe(v uint64) {
	s.received = append(s.received, v)
}

// ExpectedCount returns the length of the expected sequence.
func (s *Scoreboard) ExpectedCount() int {
	return len(s.expected)
}

// ReceivedCount returns the number of transactions observed so far.
func (s *Scoreboard) ReceivedCount() int {
	return len(s.received)
}

// Complete reports whether as many transactions arrived as were expected.
func (s *Scoreboard) Complete() bool {
	return len(s.received) == len(s.expected)
}

// Received returns the log of observed transactions, in arrival order.
func (s *Scoreboard) Received() []uint64 {
	return s.received
}

// Check compares the received log against the expected sequence. A value
// difference is reported as a ValueMismatchError at the first diverging
// position; this works on partial logs too, so a timeout still localizes
// the divergence. Equal prefixes with different lengths are reported as a
// CountMismatchError.
func (s *Scoreboard) Check() error {
	n := len(s.received)
	if len(s.expected) < n {
		n = len(s.expected)
	}

	for i := 0; i < n; i++ {
		if s.received[i] != s.expected[i] {
			return &harness.ValueMismatchError{
				Index:    i,
				Expected: s.expected[i],
				Actual:   s.received[i],
			}
		}
	}

	if len(s.received) != len(s.expected) {
		return &harness.CountMismatchError{
			Expected: len(s.expected),
			Actual:   len(s.received),
		}
	}

	return nil
}
