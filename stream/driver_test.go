package stream_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hwlab/cdctb/harness"
	"github.com/hwlab/cdctb/hdl"
	"github.com/hwlab/cdctb/sim"
	"github.com/hwlab/cdctb/stream"
)

var _ = Describe("Driver", func() {
	var (
		engine *sim.SerialEngine
		bench  *harness.Bench
		clk    *hdl.Clock
		bus    *stream.Bus
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		bench = harness.NewBench(engine)
		clk = bench.NewClock("Clk", 10*sim.Nanosecond)
		bus = stream.NewBus(clk,
			hdl.NewSignal("Valid"),
			hdl.NewSignal("Ready"),
			hdl.NewSignal("Data"))
	})

	It("should send one word per edge against an always-ready sink", func() {
		bus.Ready.Claim("Sink").SetBool(true)

		driver := stream.NewDriver("Driver", bus, rand.New(rand.NewSource(1)))
		driver.Enqueue(10, 20, 30)

		monitor := stream.NewMonitor("Monitor", bus)
		var got []uint64
		monitor.Subscribe(func(v uint64) { got = append(got, v) })

		bench.Go("Driver", driver.Run)

		Expect(bench.Run()).To(Succeed())
		Expect(got).To(Equal([]uint64{10, 20, 30}))
		Expect(driver.Pending()).To(Equal(0))
		Expect(bus.Valid.Bool()).To(BeFalse())
	})

	It("should hold valid until an edge samples valid and ready together", func() {
		driver := stream.NewDriver("Driver", bus, rand.New(rand.NewSource(1)))
		driver.Enqueue(0x42)

		monitor := stream.NewMonitor("Monitor", bus)
		var got []uint64
		monitor.Subscribe(func(v uint64) { got = append(got, v) })

		bus.Ready.Claim("Sink")
		bench.GoBackground("Sink", func(t *harness.Task) error {
			t.AwaitEdges(clk, 2)
			bus.Ready.SetBool(true)
			for !t.Stopped() {
				t.AwaitEdge(clk)
			}
			return nil
		})

		bench.Go("Driver", driver.Run)

		Expect(bench.Run()).To(Succeed())
		Expect(got).To(Equal([]uint64{0x42}))
		Expect(monitor.Count()).To(Equal(1))

		// Two stalled edges before the accepting one.
		Expect(clk.EdgeCount()).To(BeNumerically(">=", 3))
	})

	It("should insert idle cycles but deliver every word in order", func() {
		bus.Ready.Claim("Sink").SetBool(true)

		driver := stream.NewDriver("Driver", bus,
			rand.New(rand.NewSource(1))).
			WithIdleProb(0.9)
		driver.Enqueue(1, 2, 3, 4, 5)

		monitor := stream.NewMonitor("Monitor", bus)
		var got []uint64
		monitor.Subscribe(func(v uint64) { got = append(got, v) })

		bench.Go("Driver", driver.Run)

		Expect(bench.Run()).To(Succeed())
		Expect(got).To(Equal([]uint64{1, 2, 3, 4, 5}))
		Expect(clk.EdgeCount()).To(BeNumerically(">", 5))
	})
})

var _ = Describe("Monitor", func() {
	It("should observe only edges with valid and ready asserted", func() {
		engine := sim.NewSerialEngine()
		bench := harness.NewBench(engine)
		clk := bench.NewClock("Clk", 10*sim.Nanosecond)
		bus := stream.NewBus(clk,
			hdl.NewSignal("Valid").Claim("test"),
			hdl.NewSignal("Ready").Claim("test"),
			hdl.NewSignal("Data").Claim("test"))

		monitor := stream.NewMonitor("Monitor", bus)
		var got []uint64
		monitor.Subscribe(func(v uint64) { got = append(got, v) })

		bench.Go("Main", func(t *harness.Task) error {
			bus.Data.Set(1)
			bus.Valid.SetBool(true)
			t.AwaitEdge(clk) // ready still low

			bus.Ready.SetBool(true)
			t.AwaitEdge(clk) // accepted

			bus.Valid.SetBool(false)
			bus.Data.Set(2)
			t.AwaitEdge(clk) // valid low, not accepted

			bus.Valid.SetBool(true)
			t.AwaitEdge(clk) // accepted

			return nil
		})

		Expect(bench.Run()).To(Succeed())
		Expect(got).To(Equal([]uint64{1, 2}))
		Expect(monitor.Count()).To(Equal(2))
	})

	It("should invoke subscribers in subscription order", func() {
		engine := sim.NewSerialEngine()
		bench := harness.NewBench(engine)
		clk := bench.NewClock("Clk", 10*sim.Nanosecond)
		bus := stream.NewBus(clk,
			hdl.NewSignal("Valid").Claim("test"),
			hdl.NewSignal("Ready").Claim("test"),
			hdl.NewSignal("Data").Claim("test"))

		monitor := stream.NewMonitor("Monitor", bus)
		var order []string
		monitor.Subscribe(func(uint64) { order = append(order, "first") })
		monitor.Subscribe(func(uint64) { order = append(order, "second") })

		bench.Go("Main", func(t *harness.Task) error {
			bus.Valid.SetBool(true)
			bus.Ready.SetBool(true)
			t.AwaitEdge(clk)
			return nil
		})

		Expect(bench.Run()).To(Succeed())
		Expect(order).To(Equal([]string{"first", "second"}))
	})
})

var _ = Describe("Backpressure", func() {
	It("should drive ready to both levels across edges", func() {
		engine := sim.NewSerialEngine()
		bench := harness.NewBench(engine)
		clk := bench.NewClock("Clk", 10*sim.Nanosecond)
		ready := hdl.NewSignal("Ready")

		gen := stream.NewBackpressure("BP", clk, ready,
			rand.New(rand.NewSource(1)))

		highs, lows := 0, 0
		clk.OnSample(func() {
			if ready.Bool() {
				highs++
			} else {
				lows++
			}
		})

		bench.GoBackground("BP", gen.Run)
		bench.Go("Main", func(t *harness.Task) error {
			t.AwaitEdges(clk, 50)
			return nil
		})

		Expect(bench.Run()).To(Succeed())
		Expect(highs).To(BeNumerically(">", 0))
		Expect(lows).To(BeNumerically(">", 0))
	})
})
