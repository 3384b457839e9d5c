package scenario

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/hwlab/cdctb/harness"
	"github.com/hwlab/cdctb/hdl"
	"github.com/hwlab/cdctb/sim"
)

// BridgeConfig parametrizes the cross-domain transfer scenario.
type BridgeConfig struct {
	DataWidth  int
	SyncStages int

	WPeriod   sim.VTime
	RPeriod   sim.VTime
	ResetHold sim.VTime

	Transfers int

	// TimeoutEdges bounds each wait in edges of the polled domain, for
	// clocks of comparable rate. When the other domain is slower, the
	// bound is scaled up so worst-case synchronization latency still fits.
	TimeoutEdges int

	Seed     int64
	Deadline sim.VTime
}

// DefaultBridgeConfig returns the parameters of the reference scenario:
// 10 transfers between 100 MHz and 133 MHz domains with a 20-edge bound.
func DefaultBridgeConfig() BridgeConfig {
	return BridgeConfig{
		DataWidth:    8,
		SyncStages:   2,
		WPeriod:      10 * sim.Nanosecond,
		RPeriod:      7500 * sim.Picosecond,
		ResetHold:    50 * sim.Nanosecond,
		Transfers:    10,
		TimeoutEdges: 20,
		Seed:         1,
	}
}

// RunBridge issues transfers across the req/ack bridge one at a time. Each
// transfer waits for sender readiness, pulses valid for one sender edge,
// waits (bounded) for the value to appear in the receiving domain, checks
// it, and waits (bounded) for readiness to recover before the next
// transfer. Timeouts and value mismatches are distinct failures.
func RunBridge(env *Env, cfg BridgeConfig) error {
	name := fmt.Sprintf("bridge_%s_to_%s",
		formatPeriod(cfg.WPeriod), formatPeriod(cfg.RPeriod))
	rng := rand.New(rand.NewSource(cfg.Seed))

	bench := harness.NewBench(env.Engine).WithDeadline(cfg.Deadline)
	wClk := bench.NewClock("WClk", cfg.WPeriod)
	rClk := bench.NewClock("RClk", cfg.RPeriod)

	bridge := hdl.MakeBridgeBuilder().
		WithClocks(wClk, rClk).
		WithDataWidth(cfg.DataWidth).
		WithSyncStages(cfg.SyncStages).
		Build("Bridge")

	bridge.WValid.Claim("BridgeFlow")
	bridge.WData.Claim("BridgeFlow")

	env.traceSignals(bridge.WValid, bridge.WReady, bridge.RValid)

	if env.Monitor != nil {
		env.Monitor.RegisterComponent("Bridge", bridge)
	}

	mask := uint64(1)<<cfg.DataWidth - 1
	wTimeout := scaledTimeout(cfg.TimeoutEdges, cfg.WPeriod, cfg.RPeriod)
	rTimeout := scaledTimeout(cfg.TimeoutEdges, cfg.RPeriod, cfg.WPeriod)

	wReset := harness.NewResetSequencer(wClk, bridge.WResetN, cfg.ResetHold)
	rReset := harness.NewResetSequencer(rClk, bridge.RResetN, cfg.ResetHold)
	wResetTask := bench.Go("WReset", wReset.Run)
	rResetTask := bench.Go("RReset", rReset.Run)

	bench.Go("Main", func(t *harness.Task) error {
		t.AwaitDone(wResetTask, rResetTask)
		if t.Stopped() {
			return harness.ErrStopped
		}

		for i := 0; i < cfg.Transfers; i++ {
			err := t.WaitUntil(wClk, wTimeout, "sender ready",
				bridge.WReady.Bool)
			if err != nil {
				return fmt.Errorf("transfer %d: %w", i, err)
			}

			data := rng.Uint64() & mask
			bridge.WData.Set(data)
			bridge.WValid.SetBool(true)
			t.AwaitEdge(wClk)
			bridge.WValid.SetBool(false)

			err = t.WaitUntil(rClk, rTimeout, "remote valid",
				bridge.RValid.Bool)
			if err != nil {
				return fmt.Errorf("transfer %d: %w", i, err)
			}

			if got := bridge.RData.Uint64(); got != data {
				return &harness.ValueMismatchError{
					Index:    i,
					Expected: data,
					Actual:   got,
				}
			}

			env.recordTransaction(name, i, data)

			err = t.WaitUntil(wClk, wTimeout, "ready recovery",
				bridge.WReady.Bool)
			if err != nil {
				return fmt.Errorf("transfer %d: %w", i, err)
			}
		}

		return nil
	})

	err := bench.Run()
	env.recordResult(name, cfg.Seed, err)

	return err
}

// scaledTimeout widens an edge budget when the condition depends on a
// slower foreign domain: an N-edge budget in a fast domain may be shorter
// in wall time than a handful of slow-domain synchronizer cycles.
func scaledTimeout(base int, polled, other sim.VTime) int {
	ratio := int(math.Ceil(float64(other) / float64(polled)))
	if ratio < 1 {
		ratio = 1
	}

	return base * ratio
}

func formatPeriod(p sim.VTime) string {
	return fmt.Sprintf("%gns", float64(p/sim.Nanosecond))
}
