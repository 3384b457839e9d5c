// Package hdl provides signals, clocks, and cycle-approximate behavioral
// models of clock-domain-crossing primitives.
//
// Every rising clock edge runs three phases in a fixed order. Probes sample
// first and never mutate. Sequential updates run second, advancing device
// registers using the values the probes just saw. Suspended harness tasks
// resume last, so their signal writes become visible at the next edge. This
// ordering is what makes same-edge handshake observation deterministic.
package hdl
