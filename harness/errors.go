package harness

import (
	"errors"
	"fmt"
)

// ErrStopped is returned from bounded waits when the bench stops before the
// condition is met. A task unwinding because the scenario ended is not a
// failure.
var ErrStopped = errors.New("bench stopped")

// ValueMismatchError reports an observed value that differs from the
// expected value at a given position.
type ValueMismatchError struct {
	Index    int
	Expected uint64
	Actual   uint64
}

func (e *ValueMismatchError) Error() string {
	return fmt.Sprintf("value mismatch at index %d: expected %#x, got %#x",
		e.Index, e.Expected, e.Actual)
}

// CountMismatchError reports that the number of observed transactions
// differs from the number expected.
type CountMismatchError struct {
	Expected int
	Actual   int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("count mismatch: expected %d transactions, got %d",
		e.Expected, e.Actual)
}

// TimeoutError reports a bounded wait that exhausted its edge budget.
type TimeoutError struct {
	Condition string
	Edges     int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout waiting for %s after %d edges",
		e.Condition, e.Edges)
}
