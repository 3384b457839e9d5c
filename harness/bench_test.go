package harness_test

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hwlab/cdctb/harness"
	"github.com/hwlab/cdctb/hdl"
	"github.com/hwlab/cdctb/sim"
)

var _ = Describe("Bench", func() {
	var (
		engine *sim.SerialEngine
		bench  *harness.Bench
		clk    *hdl.Clock
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		bench = harness.NewBench(engine)
		clk = bench.NewClock("Clk", 10*sim.Nanosecond)
	})

	It("should run a task to completion and stop the clocks", func() {
		edges := 0

		bench.Go("Main", func(t *harness.Task) error {
			for i := 0; i < 5; i++ {
				t.AwaitEdge(clk)
				edges++
			}
			return nil
		})

		Expect(bench.Run()).To(Succeed())
		Expect(edges).To(Equal(5))
		Expect(clk.Stopped()).To(BeTrue())
	})

	It("should panic without a foreground task", func() {
		Expect(func() { _ = bench.Run() }).To(Panic())
	})

	It("should resume same-edge tasks in creation order", func() {
		var order []string

		for _, name := range []string{"A", "B", "C"} {
			n := name
			bench.Go(n, func(t *harness.Task) error {
				for i := 0; i < 2; i++ {
					t.AwaitEdge(clk)
					order = append(order, fmt.Sprintf("%s%d", n, i))
				}
				return nil
			})
		}

		Expect(bench.Run()).To(Succeed())
		Expect(order).To(Equal([]string{
			"A0", "B0", "C0",
			"A1", "B1", "C1",
		}))
	})

	It("should make a write visible to earlier tasks on the next edge", func() {
		sig := hdl.NewSignal("S").Claim("writer")
		var seen []uint64

		bench.Go("Reader", func(t *harness.Task) error {
			t.AwaitEdge(clk)
			seen = append(seen, sig.Uint64())
			t.AwaitEdge(clk)
			seen = append(seen, sig.Uint64())
			return nil
		})
		bench.Go("Writer", func(t *harness.Task) error {
			t.AwaitEdge(clk)
			sig.Set(7)
			t.AwaitEdge(clk)
			return nil
		})

		Expect(bench.Run()).To(Succeed())
		Expect(seen).To(Equal([]uint64{0, 7}))
	})

	It("should resume a timed wait at the right simulated time", func() {
		var resumed sim.VTime

		bench.Go("Main", func(t *harness.Task) error {
			t.AwaitTime(42 * sim.Nanosecond)
			resumed = engine.CurrentTime()
			return nil
		})

		Expect(bench.Run()).To(Succeed())
		Expect(resumed).To(Equal(42 * sim.Nanosecond))
	})

	It("should fail the bench when a task errors", func() {
		bench.Go("Failing", func(t *harness.Task) error {
			t.AwaitEdge(clk)
			return errors.New("boom")
		})

		err := bench.Run()

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("task Failing"))
		Expect(err.Error()).To(ContainSubstring("boom"))
	})

	It("should unwind background tasks when the foreground finishes", func() {
		backgroundEdges := 0

		bench.GoBackground("Noise", func(t *harness.Task) error {
			for !t.Stopped() {
				t.AwaitEdge(clk)
				backgroundEdges++
			}
			return harness.ErrStopped
		})
		bench.Go("Main", func(t *harness.Task) error {
			t.AwaitEdges(clk, 3)
			return nil
		})

		Expect(bench.Run()).To(Succeed())
		Expect(backgroundEdges).To(BeNumerically(">=", 3))
	})

	It("should fail on the scenario deadline", func() {
		bench.WithDeadline(100 * sim.Nanosecond)

		bench.Go("Stuck", func(t *harness.Task) error {
			for !t.Stopped() {
				t.AwaitEdge(clk)
			}
			return harness.ErrStopped
		})

		err := bench.Run()

		var timeout *harness.TimeoutError
		Expect(errors.As(err, &timeout)).To(BeTrue())
		Expect(timeout.Condition).To(Equal("scenario deadline"))
	})

	It("should wake a watcher when its dependency finishes", func() {
		var order []string

		dep := bench.Go("Dep", func(t *harness.Task) error {
			t.AwaitEdges(clk, 3)
			order = append(order, "dep")
			return nil
		})
		bench.Go("Main", func(t *harness.Task) error {
			t.AwaitDone(dep)
			order = append(order, "main")
			return nil
		})

		Expect(bench.Run()).To(Succeed())
		Expect(order).To(Equal([]string{"dep", "main"}))
	})

	It("should allow spawning a task mid-run", func() {
		ran := false

		bench.Go("Main", func(t *harness.Task) error {
			t.AwaitEdge(clk)
			child := bench.Go("Child", func(t *harness.Task) error {
				t.AwaitEdge(clk)
				ran = true
				return nil
			})
			t.AwaitDone(child)
			return nil
		})

		Expect(bench.Run()).To(Succeed())
		Expect(ran).To(BeTrue())
	})
})

var _ = Describe("WaitUntil", func() {
	var (
		engine *sim.SerialEngine
		bench  *harness.Bench
		clk    *hdl.Clock
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		bench = harness.NewBench(engine)
		clk = bench.NewClock("Clk", 10*sim.Nanosecond)
	})

	It("should return nil without edges when the condition already holds", func() {
		bench.Go("Main", func(t *harness.Task) error {
			return t.WaitUntil(clk, 0, "nothing", func() bool { return true })
		})

		Expect(bench.Run()).To(Succeed())
	})

	It("should wait until the condition holds", func() {
		sig := hdl.NewSignal("S").Claim("writer")

		bench.Go("Writer", func(t *harness.Task) error {
			t.AwaitEdges(clk, 4)
			sig.SetBool(true)
			return nil
		})
		bench.Go("Main", func(t *harness.Task) error {
			return t.WaitUntil(clk, 100, "signal high", sig.Bool)
		})

		Expect(bench.Run()).To(Succeed())
	})

	It("should time out with the condition name after the edge budget", func() {
		bench.Go("Main", func(t *harness.Task) error {
			return t.WaitUntil(clk, 7, "never", func() bool { return false })
		})

		err := bench.Run()

		var timeout *harness.TimeoutError
		Expect(errors.As(err, &timeout)).To(BeTrue())
		Expect(timeout.Condition).To(Equal("never"))
		Expect(timeout.Edges).To(Equal(7))
	})
})

var _ = Describe("ResetSequencer", func() {
	It("should hold reset low and release it on an edge", func() {
		engine := sim.NewSerialEngine()
		bench := harness.NewBench(engine)
		clk := bench.NewClock("Clk", 10*sim.Nanosecond)

		resetN := hdl.NewSignal("ResetN")
		resetN.SetBool(true)

		var releaseTime sim.VTime
		resetN.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
			if ctx.Item.(hdl.SignalChange).New == 1 {
				releaseTime = engine.CurrentTime()
			}
		}))

		seq := harness.NewResetSequencer(clk, resetN, 50*sim.Nanosecond)
		bench.Go("Reset", seq.Run)

		Expect(bench.Run()).To(Succeed())
		Expect(resetN.Bool()).To(BeTrue())

		// Released at the first rising edge past the hold time.
		Expect(releaseTime).To(Equal(55 * sim.Nanosecond))
	})
})
