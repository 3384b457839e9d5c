package hdl

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hwlab/cdctb/sim"
)

var _ = Describe("Signal", func() {
	var s *Signal

	BeforeEach(func() {
		s = NewSignal("S")
	})

	It("should start at zero", func() {
		Expect(s.Uint64()).To(Equal(uint64(0)))
		Expect(s.Bool()).To(BeFalse())
	})

	It("should hold the driven value", func() {
		s.Set(42)

		Expect(s.Uint64()).To(Equal(uint64(42)))
		Expect(s.Bool()).To(BeTrue())
	})

	It("should panic when claimed twice", func() {
		s.Claim("A")

		Expect(func() { s.Claim("B") }).To(Panic())
	})

	It("should invoke the change hook only on value changes", func() {
		var changes []SignalChange
		s.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
			changes = append(changes, ctx.Item.(SignalChange))
		}))

		s.Set(1)
		s.Set(1)
		s.Set(0)

		Expect(changes).To(Equal([]SignalChange{
			{Old: 0, New: 1},
			{Old: 1, New: 0},
		}))
	})
})
