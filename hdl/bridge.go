package hdl

import "log"

// BridgeBuilder builds request/acknowledge bridge models.
type BridgeBuilder struct {
	wClk, rClk *Clock
	dataWidth  int
	syncStages int
}

// MakeBridgeBuilder creates a builder with default parameters.
func MakeBridgeBuilder() BridgeBuilder {
	return BridgeBuilder{
		dataWidth:  8,
		syncStages: 2,
	}
}

// WithClocks sets the write-side and read-side clocks.
func (b BridgeBuilder) WithClocks(wClk, rClk *Clock) BridgeBuilder {
	b.wClk = wClk
	b.rClk = rClk
	return b
}

// WithDataWidth sets the data width in bits, up to 64.
func (b BridgeBuilder) WithDataWidth(n int) BridgeBuilder {
	b.dataWidth = n
	return b
}

// WithSyncStages sets the req/ack synchronizer depth per direction.
func (b BridgeBuilder) WithSyncStages(n int) BridgeBuilder {
	b.syncStages = n
	return b
}

// Build creates the bridge and registers its domain updates on both clocks.
func (b BridgeBuilder) Build(name string) *Bridge {
	if b.wClk == nil || b.rClk == nil {
		log.Panicf("bridge %s: both clocks must be set", name)
	}
	if b.dataWidth < 1 || b.dataWidth > 64 {
		log.Panicf("bridge %s: bad data width %d", name, b.dataWidth)
	}
	if b.syncStages < 1 {
		log.Panicf("bridge %s: sync stages must be at least 1", name)
	}

	d := &Bridge{
		name: name,
		mask: widthMask(b.dataWidth),

		WResetN: NewSignal(name + ".WResetN"),
		WValid:  NewSignal(name + ".WValid"),
		WReady:  NewSignal(name + ".WReady").Claim(name),
		WData:   NewSignal(name + ".WData"),

		RResetN: NewSignal(name + ".RResetN"),
		RValid:  NewSignal(name + ".RValid").Claim(name),
		RData:   NewSignal(name + ".RData").Claim(name),

		reqSync: make([]bool, b.syncStages),
		ackSync: make([]bool, b.syncStages),
	}

	b.wClk.OnEdge(d.wUpdate)
	b.rClk.OnEdge(d.rUpdate)

	return d
}

// Bridge is a behavioral model of a single-entry req/ack data-transfer
// bridge. Accepting a word drops WReady and toggles an internal request
// flag; the receiving domain sees the toggle through a synchronizer, pulses
// RValid for one cycle with the latched data, and toggles an acknowledge
// flag back. WReady recovers once the acknowledge has crossed back into the
// write domain, which bounds the throughput to one word per round trip.
type Bridge struct {
	name string
	mask uint64

	// Write-domain interface. WValid and WData belong to the stimulus;
	// WReady is driven by the model.
	WResetN *Signal
	WValid  *Signal
	WReady  *Signal
	WData   *Signal

	// Read-domain interface, all driven by the model. There is no RReady:
	// the receiver latches the value and consumption is implicit.
	RResetN *Signal
	RValid  *Signal
	RData   *Signal

	req, ack bool
	reqSync  []bool // req as seen from the read domain
	ackSync  []bool // ack as seen from the write domain
	latch    uint64
}

// Name returns the name of the bridge.
func (d *Bridge) Name() string {
	return d.name
}

func (d *Bridge) wUpdate() {
	if !d.WResetN.Bool() {
		d.req = false
		zeroBools(d.ackSync)
		d.WReady.SetBool(false)
		return
	}

	accepted := d.WValid.Bool() && d.WReady.Bool()
	if accepted {
		d.latch = d.WData.Uint64() & d.mask
		d.req = !d.req
	}

	d.ackSync = append(d.ackSync[1:], d.ack)

	if accepted {
		d.WReady.SetBool(false)
	} else {
		d.WReady.SetBool(d.ackSync[0] == d.req)
	}
}

func (d *Bridge) rUpdate() {
	if !d.RResetN.Bool() {
		d.ack = false
		zeroBools(d.reqSync)
		d.RValid.SetBool(false)
		return
	}

	d.reqSync = append(d.reqSync[1:], d.req)

	if d.reqSync[0] != d.ack {
		d.RData.Set(d.latch)
		d.RValid.SetBool(true)
		d.ack = d.reqSync[0]
	} else {
		d.RValid.SetBool(false)
	}
}

func zeroBools(s []bool) {
	for i := range s {
		s[i] = false
	}
}
