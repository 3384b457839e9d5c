package scenario_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hwlab/cdctb/scenario"
	"github.com/hwlab/cdctb/sim"
)

var _ = Describe("Bridge scenario", func() {
	It("should pass with the receive domain faster", func() {
		cfg := scenario.DefaultBridgeConfig()

		Expect(scenario.RunBridge(newEnv(), cfg)).To(Succeed())
	})

	It("should pass with the send domain faster", func() {
		cfg := scenario.DefaultBridgeConfig()
		cfg.WPeriod = 7500 * sim.Picosecond
		cfg.RPeriod = 10 * sim.Nanosecond

		Expect(scenario.RunBridge(newEnv(), cfg)).To(Succeed())
	})

	It("should pass with equal clock rates", func() {
		cfg := scenario.DefaultBridgeConfig()
		cfg.WPeriod = 10 * sim.Nanosecond
		cfg.RPeriod = 10 * sim.Nanosecond

		Expect(scenario.RunBridge(newEnv(), cfg)).To(Succeed())
	})

	It("should pass with a ten-to-one ratio, slow sender", func() {
		cfg := scenario.DefaultBridgeConfig()
		cfg.WPeriod = 100 * sim.Nanosecond
		cfg.RPeriod = 10 * sim.Nanosecond

		Expect(scenario.RunBridge(newEnv(), cfg)).To(Succeed())
	})

	It("should pass with a ten-to-one ratio, slow receiver", func() {
		cfg := scenario.DefaultBridgeConfig()
		cfg.WPeriod = 10 * sim.Nanosecond
		cfg.RPeriod = 100 * sim.Nanosecond

		Expect(scenario.RunBridge(newEnv(), cfg)).To(Succeed())
	})

	It("should pass with a single transfer", func() {
		cfg := scenario.DefaultBridgeConfig()
		cfg.Transfers = 1

		Expect(scenario.RunBridge(newEnv(), cfg)).To(Succeed())
	})

	It("should pass with no transfers", func() {
		cfg := scenario.DefaultBridgeConfig()
		cfg.Transfers = 0

		Expect(scenario.RunBridge(newEnv(), cfg)).To(Succeed())
	})

	It("should pass with deeper synchronizers", func() {
		cfg := scenario.DefaultBridgeConfig()
		cfg.SyncStages = 4

		Expect(scenario.RunBridge(newEnv(), cfg)).To(Succeed())
	})
})
