// Package harness runs cooperative testbench tasks over a discrete event
// engine. Tasks are goroutines, but only one runs at a time: a task either
// executes or is parked at a suspension point, and the only suspension
// points are "await the next rising edge of a clock" and "await a fixed
// simulated delay". Bounded waits are expressed as a maximum number of edge
// suspensions and fail with a timeout instead of blocking forever.
package harness
