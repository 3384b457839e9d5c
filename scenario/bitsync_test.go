package scenario_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hwlab/cdctb/scenario"
)

var _ = Describe("Sync scenario", func() {
	It("should pass with the default three-stage chain", func() {
		cfg := scenario.DefaultSyncConfig()

		Expect(scenario.RunSync(newEnv(), cfg)).To(Succeed())
	})

	It("should pass with two stages", func() {
		cfg := scenario.DefaultSyncConfig()
		cfg.Stages = 2

		Expect(scenario.RunSync(newEnv(), cfg)).To(Succeed())
	})

	It("should pass with a single stage", func() {
		cfg := scenario.DefaultSyncConfig()
		cfg.Stages = 1

		Expect(scenario.RunSync(newEnv(), cfg)).To(Succeed())
	})

	It("should pass across different seeds", func() {
		for seed := int64(1); seed <= 5; seed++ {
			cfg := scenario.DefaultSyncConfig()
			cfg.Seed = seed

			Expect(scenario.RunSync(newEnv(), cfg)).To(Succeed())
		}
	})
})
