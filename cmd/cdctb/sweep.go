package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/hwlab/cdctb/scenario"
	"github.com/hwlab/cdctb/sim"
)

func newSweepCommand(rootOpts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the built-in scenario matrix",
		Long: `Run the full built-in matrix: the streaming FIFO with the
first-word-fall-through flag off and on, the bridge across same-rate and
both skewed clock pairings, and the bit synchronizer.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runSweep(rootOpts)
		},
	}

	return cmd
}

type sweepCase struct {
	name string
	run  func(env *scenario.Env) error
}

func runSweep(opts *rootOptions) error {
	cases := fifoCases(opts.Seed)
	cases = append(cases, bridgeCases(opts.Seed)...)
	cases = append(cases, syncCases(opts.Seed)...)

	failed := 0
	for _, c := range cases {
		log.Printf("running %s", c.name)
		if err := c.run(opts.newEnv()); err != nil {
			log.Printf("FAIL %s: %s", c.name, err)
			failed++
			continue
		}
		log.Printf("PASS %s", c.name)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d sweep cases failed", failed, len(cases))
	}

	return nil
}

func fifoCases(seed int64) []sweepCase {
	var cases []sweepCase

	for _, fwft := range []bool{false, true} {
		cfg := scenario.DefaultFIFOConfig()
		cfg.FWFT = fwft
		cfg.Seed = seed

		cases = append(cases, sweepCase{
			name: fmt.Sprintf("fifo fwft=%v", fwft),
			run: func(env *scenario.Env) error {
				return scenario.RunFIFO(env, cfg)
			},
		})
	}

	return cases
}

func bridgeCases(seed int64) []sweepCase {
	pairs := []struct {
		w, r sim.VTime
	}{
		{10 * sim.Nanosecond, 10 * sim.Nanosecond},
		{10 * sim.Nanosecond, 7500 * sim.Picosecond},
		{7500 * sim.Picosecond, 10 * sim.Nanosecond},
	}

	var cases []sweepCase
	for _, p := range pairs {
		cfg := scenario.DefaultBridgeConfig()
		cfg.WPeriod = p.w
		cfg.RPeriod = p.r
		cfg.Seed = seed

		cases = append(cases, sweepCase{
			name: fmt.Sprintf("bridge w=%v r=%v",
				float64(p.w/sim.Nanosecond), float64(p.r/sim.Nanosecond)),
			run: func(env *scenario.Env) error {
				return scenario.RunBridge(env, cfg)
			},
		})
	}

	return cases
}

func syncCases(seed int64) []sweepCase {
	cfg := scenario.DefaultSyncConfig()
	cfg.Seed = seed

	return []sweepCase{{
		name: fmt.Sprintf("sync stages=%d", cfg.Stages),
		run: func(env *scenario.Env) error {
			return scenario.RunSync(env, cfg)
		},
	}}
}
