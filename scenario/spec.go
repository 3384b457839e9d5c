package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hwlab/cdctb/sim"
)

// A Spec is one scenario described in a YAML file. Omitted fields keep the
// defaults of the scenario kind.
type Spec struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	Seed int64  `yaml:"seed"`

	// Periods and waits in nanoseconds.
	WPeriodNS   float64 `yaml:"w_period_ns"`
	RPeriodNS   float64 `yaml:"r_period_ns"`
	ResetHoldNS float64 `yaml:"reset_hold_ns"`
	DeadlineNS  float64 `yaml:"deadline_ns"`

	AddrWidth  int  `yaml:"addr_width"`
	DataWidth  int  `yaml:"data_width"`
	FWFT       bool `yaml:"fwft"`
	SyncStages int  `yaml:"sync_stages"`

	Words     int     `yaml:"words"`
	IdleProb  float64 `yaml:"idle_prob"`
	Transfers int     `yaml:"transfers"`
	Stages    int     `yaml:"stages"`
	Toggles   int     `yaml:"toggles"`
}

// A File is a YAML scenario file: a list of scenarios run in order.
type File struct {
	Scenarios []Spec `yaml:"scenarios"`
}

// Load reads a scenario file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parse scenario file %s: %w", path, err)
	}

	for i, s := range f.Scenarios {
		switch s.Kind {
		case "fifo", "bridge", "sync":
		default:
			return nil, fmt.Errorf(
				"scenario %d (%s): unknown kind %q", i, s.Name, s.Kind)
		}
	}

	return f, nil
}

// Run runs the scenario described by the spec against the env.
func (s Spec) Run(env *Env) error {
	switch s.Kind {
	case "fifo":
		return RunFIFO(env, s.fifoConfig())
	case "bridge":
		return RunBridge(env, s.bridgeConfig())
	case "sync":
		return RunSync(env, s.syncConfig())
	default:
		return fmt.Errorf("unknown scenario kind %q", s.Kind)
	}
}

func (s Spec) fifoConfig() FIFOConfig {
	cfg := DefaultFIFOConfig()

	if s.AddrWidth > 0 {
		cfg.AddrWidth = s.AddrWidth
	}
	if s.DataWidth > 0 {
		cfg.DataWidth = s.DataWidth
	}
	cfg.FWFT = s.FWFT
	if s.SyncStages > 0 {
		cfg.SyncStages = s.SyncStages
	}
	if s.WPeriodNS > 0 {
		cfg.WPeriod = nanoseconds(s.WPeriodNS)
	}
	if s.RPeriodNS > 0 {
		cfg.RPeriod = nanoseconds(s.RPeriodNS)
	}
	if s.ResetHoldNS > 0 {
		cfg.ResetHold = nanoseconds(s.ResetHoldNS)
	}
	if s.Words > 0 {
		cfg.Words = s.Words
	}
	if s.IdleProb > 0 {
		cfg.IdleProb = s.IdleProb
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.DeadlineNS > 0 {
		cfg.Deadline = nanoseconds(s.DeadlineNS)
	}

	return cfg
}

func (s Spec) bridgeConfig() BridgeConfig {
	cfg := DefaultBridgeConfig()

	if s.DataWidth > 0 {
		cfg.DataWidth = s.DataWidth
	}
	if s.SyncStages > 0 {
		cfg.SyncStages = s.SyncStages
	}
	if s.WPeriodNS > 0 {
		cfg.WPeriod = nanoseconds(s.WPeriodNS)
	}
	if s.RPeriodNS > 0 {
		cfg.RPeriod = nanoseconds(s.RPeriodNS)
	}
	if s.ResetHoldNS > 0 {
		cfg.ResetHold = nanoseconds(s.ResetHoldNS)
	}
	if s.Transfers > 0 {
		cfg.Transfers = s.Transfers
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.DeadlineNS > 0 {
		cfg.Deadline = nanoseconds(s.DeadlineNS)
	}

	return cfg
}

func (s Spec) syncConfig() SyncConfig {
	cfg := DefaultSyncConfig()

	if s.Stages > 0 {
		cfg.Stages = s.Stages
	}
	if s.WPeriodNS > 0 {
		cfg.Period = nanoseconds(s.WPeriodNS)
	}
	if s.ResetHoldNS > 0 {
		cfg.ResetHold = nanoseconds(s.ResetHoldNS)
	}
	if s.Toggles > 0 {
		cfg.Toggles = s.Toggles
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.DeadlineNS > 0 {
		cfg.Deadline = nanoseconds(s.DeadlineNS)
	}

	return cfg
}

func nanoseconds(ns float64) sim.VTime {
	return sim.VTime(ns) * sim.Nanosecond
}
