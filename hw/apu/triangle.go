package apu

import (
	"famiko/hw/hwio"
)

// The TriangleChannel contains the following: Timer, 32-step sequencer,
// Length Counter, Linear Counter, 4-bit DAC.
//
//	+---------+    +---------+
//	|LinearCtr|    | Length  |
//	+---------+    +---------+
//	     |              |
//	     v              v
//	+---------+        |\             |\         +---------+    +---------+
//	|  Timer  |------->| >----------->| >------->|Sequencer|--->|   DAC   |
//	+---------+        |/             |/         +---------+    +---------+
type TriangleChannel struct {
	lenCounter lengthCounter

	timer  uint16 // countdown, clocked every CPU cycle
	period uint16

	linearCounter       uint8
	linearCounterReload uint8
	linearReload        bool
	linearCtrl          bool

	pos uint8 // current position in triangleSequence

	Linear hwio.Reg8 `hwio:"offset=0x08,wcb"`
	Unused hwio.Reg8 `hwio:"offset=0x09"`
	Timer  hwio.Reg8 `hwio:"offset=0x0A,wcb"`
	Length hwio.Reg8 `hwio:"offset=0x0B,wcb"`
}

func newTriangleChannel() TriangleChannel {
	return TriangleChannel{
		lenCounter: lengthCounter{channel: Triangle},
	}
}

var triangleSequence = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8,
	7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7,
	8, 9, 10, 11, 12, 13, 14, 15,
}

func (tc *TriangleChannel) WriteLINEAR(_, val uint8) {
	tc.linearCtrl = val&0x80 == 0x80
	tc.linearCounterReload = val & 0x7F

	// The control flag doubles as the length counter halt.
	tc.lenCounter.halt = tc.linearCtrl
}

func (tc *TriangleChannel) WriteTIMER(_, val uint8) {
	tc.period = (tc.period & 0xFF00) | uint16(val)
}

func (tc *TriangleChannel) WriteLENGTH(_, val uint8) {
	tc.lenCounter.load(val >> 3)
	tc.period = (tc.period & 0xFF) | (uint16(val&0x07) << 8)

	// Sets the linear counter reload flag (side effect).
	tc.linearReload = true
}

// tickTimer is clocked every CPU cycle. The sequencer advances as long as
// both the linear counter and the length counter are nonzero.
func (tc *TriangleChannel) tickTimer() {
	if tc.timer == 0 {
		tc.timer = tc.period
		if tc.lenCounter.status() && tc.linearCounter > 0 {
			tc.pos = (tc.pos + 1) & 0x1F
		}
	} else {
		tc.timer--
	}
}

func (tc *TriangleChannel) output() uint8 {
	if !tc.lenCounter.status() {
		return 0
	}
	if tc.period < 2 {
		// Silencing ultrasonic frequencies removes pops in the output.
		return 0
	}
	return triangleSequence[tc.pos]
}

func (tc *TriangleChannel) tickLinearCounter() {
	if tc.linearReload {
		tc.linearCounter = tc.linearCounterReload
	} else if tc.linearCounter > 0 {
		tc.linearCounter--
	}

	if !tc.linearCtrl {
		tc.linearReload = false
	}
}

func (tc *TriangleChannel) tickLengthCounter() {
	tc.lenCounter.tick()
}

func (tc *TriangleChannel) setEnabled(enabled bool) {
	tc.lenCounter.setEnabled(enabled)
}

func (tc *TriangleChannel) status() bool {
	return tc.lenCounter.status()
}

func (tc *TriangleChannel) reset(soft bool) {
	tc.lenCounter.reset(soft)

	tc.timer = 0
	tc.period = 0
	tc.linearCounter = 0
	tc.linearCounterReload = 0
	tc.linearReload = false
	tc.linearCtrl = false
	tc.pos = 0
}
