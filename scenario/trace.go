package scenario

import (
	"github.com/hwlab/cdctb/hdl"
	"github.com/hwlab/cdctb/record"
	"github.com/hwlab/cdctb/sim"
)

// traceSignals records every value change of the given signals, the
// harness's stand-in for a waveform dump.
func (env *Env) traceSignals(signals ...*hdl.Signal) {
	if env.Recorder == nil {
		return
	}

	for _, s := range signals {
		sig := s
		sig.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
			if ctx.Pos != hdl.HookPosSignalChange {
				return
			}

			change := ctx.Item.(hdl.SignalChange)
			env.Recorder.InsertData(record.SignalChangeTable,
				record.SignalChangeEntry{
					Time:     float64(env.Engine.CurrentTime()),
					Signal:   sig.Name(),
					OldValue: change.Old,
					NewValue: change.New,
				})
		}))
	}
}

func (env *Env) recordTransaction(scenario string, index int, value uint64) {
	if env.Recorder == nil {
		return
	}

	env.Recorder.InsertData(record.TransactionTable, record.TransactionEntry{
		Scenario: scenario,
		Seq:      index,
		Time:     float64(env.Engine.CurrentTime()),
		Value:    value,
	})
}
