package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hwlab/cdctb/scenario"
)

// rootOptions holds the flags shared by all commands.
type rootOptions struct {
	Seed        int64
	DBPath      string
	Record      bool
	MonitorPort int
	Browser     bool
	TraceEvents bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "cdctb",
		Short:         "Clock-domain-crossing verification bench",
		Long:          "Runs simulated verification scenarios against behavioral models of clock-domain-crossing primitives.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().Int64Var(&opts.Seed, "seed",
		envInt64("CDCTB_SEED", 1), "random seed for stimulus generation")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db",
		os.Getenv("CDCTB_DB"), "path of the SQLite result database")
	cmd.PersistentFlags().BoolVar(&opts.Record, "record", false,
		"record transactions, signal changes, and results to the database")
	cmd.PersistentFlags().IntVar(&opts.MonitorPort, "monitor",
		envInt("CDCTB_MONITOR_PORT", 0),
		"serve the monitoring API on this port (0 disables)")
	cmd.PersistentFlags().BoolVar(&opts.Browser, "browser", false,
		"open the monitoring page in a browser")
	cmd.PersistentFlags().BoolVar(&opts.TraceEvents, "trace-events", false,
		"print every fired simulation event to stderr")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newSweepCommand(opts))

	return cmd
}

// newEnv builds the per-run environment from the global flags. Each
// scenario runs on a fresh engine so its timeline starts at zero.
func (opts *rootOptions) newEnv() *scenario.Env {
	b := scenario.MakeBuilder()

	if opts.Record || opts.DBPath != "" {
		b = b.WithRecording(opts.DBPath)
	}
	if opts.MonitorPort != 0 {
		b = b.WithMonitor(opts.MonitorPort, opts.Browser)
	}
	if opts.TraceEvents {
		b = b.WithEventTracing()
	}

	return b.Build()
}

func envInt64(key string, fallback int64) int64 {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fallback
	}

	return v
}

func envInt(key string, fallback int) int {
	return int(envInt64(key, int64(fallback)))
}
