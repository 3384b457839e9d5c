package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/hwlab/cdctb/scenario"
)

func newRunCommand(rootOpts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenarios.yaml>",
		Short: "Run the scenarios described in a YAML file",
		Long: `Run the scenarios listed in a YAML file, in order, each on a
fresh simulated timeline. Fields omitted in a scenario keep the defaults of
its kind.

Example scenario file:

  scenarios:
    - name: smoke
      kind: fifo
      fwft: true
      words: 50
    - name: skewed
      kind: bridge
      w_period_ns: 7.5
      r_period_ns: 10`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return runFile(rootOpts, args[0])
		},
	}

	return cmd
}

func runFile(opts *rootOptions, path string) error {
	file, err := scenario.Load(path)
	if err != nil {
		return err
	}

	failed := 0
	for _, s := range file.Scenarios {
		if s.Seed == 0 {
			s.Seed = opts.Seed
		}

		log.Printf("running %s (%s)", s.Name, s.Kind)
		if err := s.Run(opts.newEnv()); err != nil {
			log.Printf("FAIL %s: %s", s.Name, err)
			failed++
			continue
		}
		log.Printf("PASS %s", s.Name)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed",
			failed, len(file.Scenarios))
	}

	return nil
}
