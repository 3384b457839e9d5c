// Package scenario assembles benches for the three logic-under-test
// boundaries and runs the conformance flows against them.
package scenario

import (
	"log"
	"os"

	"github.com/hwlab/cdctb/monitoring"
	"github.com/hwlab/cdctb/record"
	"github.com/hwlab/cdctb/sim"
)

// An Env bundles the per-run services a scenario uses: the event engine,
// the optional SQLite recorder, and the optional monitoring server. Build
// one Env per scenario run.
type Env struct {
	Engine   sim.Engine
	Recorder record.Recorder
	Monitor  *monitoring.Monitor
}

// Builder builds an Env.
type Builder struct {
	recording      bool
	recordPath     string
	monitorOn      bool
	monitorPort    int
	monitorBrowser bool
	eventTrace     bool
}

// MakeBuilder creates a Builder with recording and monitoring disabled.
func MakeBuilder() Builder {
	return Builder{}
}

// WithRecording enables SQLite recording at the given path. An empty path
// picks a unique name.
func (b Builder) WithRecording(path string) Builder {
	b.recording = true
	b.recordPath = path
	return b
}

// WithMonitor enables the monitoring server. Port 0 picks a random port;
// openBrowser additionally opens the served address in a browser.
func (b Builder) WithMonitor(port int, openBrowser bool) Builder {
	b.monitorOn = true
	b.monitorPort = port
	b.monitorBrowser = openBrowser
	return b
}

// WithEventTracing prints every fired event to stderr. Verbose; meant for
// debugging a single scenario.
func (b Builder) WithEventTracing() Builder {
	b.eventTrace = true
	return b
}

// Build builds the Env.
func (b Builder) Build() *Env {
	env := &Env{
		Engine: sim.NewSerialEngine(),
	}

	if b.eventTrace {
		env.Engine.AcceptHook(
			sim.NewEventLogger(log.New(os.Stderr, "", 0)))
	}

	if b.recording {
		env.Recorder = record.NewRecorder(b.recordPath)
		record.CreateHarnessTables(env.Recorder)
	}

	if b.monitorOn {
		env.Monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			env.Monitor.WithPortNumber(b.monitorPort)
		}
		if b.monitorBrowser {
			env.Monitor.WithBrowser()
		}
		env.Monitor.RegisterEngine(env.Engine)
		env.Monitor.StartServer()
	}

	return env
}

func (env *Env) recordResult(name string, seed int64, err error) {
	if env.Recorder == nil {
		return
	}

	detail := ""
	if err != nil {
		detail = err.Error()
	}

	env.Recorder.InsertData(record.ResultTable, record.ResultEntry{
		Scenario: name,
		Seed:     seed,
		Passed:   err == nil,
		Detail:   detail,
	})
	env.Recorder.Flush()
}
