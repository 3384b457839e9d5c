package hdl

import "log"

// AsyncFIFOBuilder builds asynchronous FIFO models.
type AsyncFIFOBuilder struct {
	wClk, rClk *Clock
	addrWidth  int
	dataWidth  int
	syncStages int
	fwft       bool
}

// MakeAsyncFIFOBuilder creates a builder with default parameters.
func MakeAsyncFIFOBuilder() AsyncFIFOBuilder {
	return AsyncFIFOBuilder{
		addrWidth:  4,
		dataWidth:  32,
		syncStages: 2,
	}
}

// WithClocks sets the write-side and read-side clocks.
func (b AsyncFIFOBuilder) WithClocks(wClk, rClk *Clock) AsyncFIFOBuilder {
	b.wClk = wClk
	b.rClk = rClk
	return b
}

// WithAddrWidth sets the address width. Capacity is 2^addrWidth entries.
func (b AsyncFIFOBuilder) WithAddrWidth(n int) AsyncFIFOBuilder {
	b.addrWidth = n
	return b
}

// WithDataWidth sets the data width in bits, up to 64.
func (b AsyncFIFOBuilder) WithDataWidth(n int) AsyncFIFOBuilder {
	b.dataWidth = n
	return b
}

// WithSyncStages sets the pointer synchronizer depth per direction.
func (b AsyncFIFOBuilder) WithSyncStages(n int) AsyncFIFOBuilder {
	b.syncStages = n
	return b
}

// WithFWFT enables first-word-fall-through read behavior.
func (b AsyncFIFOBuilder) WithFWFT(fwft bool) AsyncFIFOBuilder {
	b.fwft = fwft
	return b
}

// Build creates the FIFO and registers its domain updates on both clocks.
func (b AsyncFIFOBuilder) Build(name string) *AsyncFIFO {
	if b.wClk == nil || b.rClk == nil {
		log.Panicf("fifo %s: both clocks must be set", name)
	}
	if b.addrWidth < 1 || b.dataWidth < 1 || b.dataWidth > 64 {
		log.Panicf("fifo %s: bad geometry %d/%d", name, b.addrWidth, b.dataWidth)
	}
	if b.syncStages < 1 {
		log.Panicf("fifo %s: sync stages must be at least 1", name)
	}

	f := &AsyncFIFO{
		name: name,
		fwft: b.fwft,
		mask: widthMask(b.dataWidth),

		WResetN: NewSignal(name + ".WResetN"),
		WValid:  NewSignal(name + ".WValid"),
		WReady:  NewSignal(name + ".WReady").Claim(name),
		WData:   NewSignal(name + ".WData"),
		WCount:  NewSignal(name + ".WCount").Claim(name),

		RResetN: NewSignal(name + ".RResetN"),
		RValid:  NewSignal(name + ".RValid").Claim(name),
		RReady:  NewSignal(name + ".RReady"),
		RData:   NewSignal(name + ".RData").Claim(name),
		RCount:  NewSignal(name + ".RCount").Claim(name),

		mem:      make([]uint64, 1<<b.addrWidth),
		rptrSync: make([]uint64, b.syncStages),
		wptrSync: make([]uint64, b.syncStages),
	}

	b.wClk.OnEdge(f.wUpdate)
	b.rClk.OnEdge(f.rUpdate)

	return f
}

// AsyncFIFO is a behavioral model of a dual-clock streaming FIFO. The write
// and read domains each keep a free-running pointer; each domain observes
// the other's pointer through a delay line that stands in for a gray-code
// synchronizer, so occupancy is always a conservative estimate, exactly as
// in the real design.
type AsyncFIFO struct {
	name string
	fwft bool
	mask uint64

	// Write-domain interface. WValid and WData belong to the stimulus;
	// WReady and WCount are driven by the model.
	WResetN *Signal
	WValid  *Signal
	WReady  *Signal
	WData   *Signal
	WCount  *Signal

	// Read-domain interface. RReady belongs to the stimulus; RValid, RData,
	// and RCount are driven by the model.
	RResetN *Signal
	RValid  *Signal
	RReady  *Signal
	RData   *Signal
	RCount  *Signal

	mem  []uint64
	wptr uint64
	rptr uint64

	rptrSync []uint64 // read pointer as seen from the write domain
	wptrSync []uint64 // write pointer as seen from the read domain

	rvNext bool // registered-output stage for non-FWFT mode
}

// Name returns the name of the FIFO.
func (f *AsyncFIFO) Name() string {
	return f.name
}

// Depth returns the capacity in entries.
func (f *AsyncFIFO) Depth() int {
	return len(f.mem)
}

func (f *AsyncFIFO) wUpdate() {
	if !f.WResetN.Bool() {
		f.wptr = 0
		zero(f.rptrSync)
		f.WReady.SetBool(false)
		f.WCount.Set(0)
		return
	}

	if f.WValid.Bool() && f.WReady.Bool() {
		f.mem[f.wptr%uint64(len(f.mem))] = f.WData.Uint64() & f.mask
		f.wptr++
	}

	f.rptrSync = append(f.rptrSync[1:], f.rptr)

	level := f.wptr - f.rptrSync[0]
	f.WReady.SetBool(level < uint64(len(f.mem)))
	f.WCount.Set(level)
}

func (f *AsyncFIFO) rUpdate() {
	if !f.RResetN.Bool() {
		f.rptr = 0
		zero(f.wptrSync)
		f.rvNext = false
		f.RValid.SetBool(false)
		f.RCount.Set(0)
		return
	}

	if f.RValid.Bool() && f.RReady.Bool() {
		f.rptr++
	}

	f.wptrSync = append(f.wptrSync[1:], f.wptr)

	avail := f.wptrSync[0] - f.rptr
	if avail > 0 {
		f.RData.Set(f.mem[f.rptr%uint64(len(f.mem))])
	}

	if f.fwft {
		f.RValid.SetBool(avail > 0)
	} else {
		// Registered output adds one read-domain cycle of latency.
		f.RValid.SetBool(f.rvNext && avail > 0)
		f.rvNext = avail > 0
	}

	f.RCount.Set(avail)
}

func widthMask(bits int) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << bits) - 1
}

func zero(s []uint64) {
	for i := range s {
		s[i] = 0
	}
}
