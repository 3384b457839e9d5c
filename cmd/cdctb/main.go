// Command cdctb runs clock-domain-crossing verification scenarios: a
// streaming FIFO, a req/ack bridge, and a bit synchronizer, each exercised
// by a simulated multi-clock bench.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/tebeka/atexit"
)

func main() {
	// A .env file can pre-set the flag defaults (CDCTB_SEED, CDCTB_DB,
	// CDCTB_MONITOR_PORT). Missing file is fine.
	_ = godotenv.Load()

	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
