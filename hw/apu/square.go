package apu

import (
	"famiko/emu/log"
	"famiko/hw/hwio"
)

// There are two square channels beginning at registers $4000 and $4004. Each
// contains the following: Envelope Generator, Sweep Unit, Timer with
// divide-by-two on the output, 8-step sequencer, Length Counter.
//
//	               +---------+    +---------+
//	               |  Sweep  |--->|Timer / 2|
//	               +---------+    +---------+
//	                    |              |
//	                    |              v
//	                    |         +---------+    +---------+
//	                    |         |Sequencer|    | Length  |
//	                    |         +---------+    +---------+
//	                    |              |              |
//	                    v              v              v
//	+---------+        |\             |\             |\          +---------+
//	|Envelope |------->| >----------->| >----------->| >-------->|   DAC   |
//	+---------+        |/             |/             |/          +---------+
type SquareChannel struct {
	envelope envelope

	isChannel1 bool

	duty    uint8
	dutyPos uint8

	timer uint16 // countdown, clocked every APU (2 CPU) cycle

	sweepEnabled      bool
	sweepPeriod       uint8
	sweepNegate       bool
	sweepShift        uint8
	reloadSweep       bool
	sweepDivider      uint8
	sweepTargetPeriod uint32
	realPeriod        uint16

	Duty   hwio.Reg8 `hwio:"offset=0x00,wcb"`
	Sweep  hwio.Reg8 `hwio:"offset=0x01,wcb"`
	Timer  hwio.Reg8 `hwio:"offset=0x02,wcb"`
	Length hwio.Reg8 `hwio:"offset=0x03,wcb"`
}

func newSquareChannel(channel Channel, isChannel1 bool) SquareChannel {
	return SquareChannel{
		isChannel1: isChannel1,
		envelope: envelope{
			lenCounter: lengthCounter{channel: channel},
		},
	}
}

func (sc *SquareChannel) WriteDUTY(_, val uint8) {
	sc.envelope.init(val)
	sc.duty = (val & 0xC0) >> 6

	log.ModSound.DebugZ("write pulse duty").
		Uint8("reg", val).
		Uint8("duty", sc.duty).
		End()
}

func (sc *SquareChannel) WriteSWEEP(_, val uint8) {
	sc.initSweep(val)
}

func (sc *SquareChannel) WriteTIMER(_, val uint8) {
	sc.setPeriod((sc.realPeriod & 0x0700) | uint16(val))
}

func (sc *SquareChannel) WriteLENGTH(_, val uint8) {
	sc.envelope.lenCounter.load(val >> 3)
	sc.setPeriod((sc.realPeriod & 0xFF) | (uint16(val&0x07) << 8))

	// The sequencer restarts at the first value of the current sequence and
	// the envelope restarts too.
	sc.dutyPos = 0
	sc.envelope.restart()
}

func (sc *SquareChannel) isMuted() bool {
	// A period of t < 8, either set explicitly or via a sweep period update,
	// silences the channel, as does an out of range sweep target.
	return sc.realPeriod < 8 || (!sc.sweepNegate && sc.sweepTargetPeriod > 0x7FF)
}

func (sc *SquareChannel) initSweep(regValue uint8) {
	sc.sweepEnabled = regValue&0x80 == 0x80
	sc.sweepNegate = regValue&0x08 == 0x08

	// The divider's period is set to P + 1.
	sc.sweepPeriod = ((regValue & 0x70) >> 4) + 1
	sc.sweepShift = regValue & 0x07

	sc.updateTargetPeriod()

	// Side effect: sets the reload flag.
	sc.reloadSweep = true
}

func (sc *SquareChannel) updateTargetPeriod() {
	shiftResult := sc.realPeriod >> sc.sweepShift
	if sc.sweepNegate {
		sc.sweepTargetPeriod = uint32(sc.realPeriod - shiftResult)
		if sc.isChannel1 {
			// A negative sweep on pulse channel 1 subtracts the shifted
			// period value minus 1.
			sc.sweepTargetPeriod--
		}
	} else {
		sc.sweepTargetPeriod = uint32(sc.realPeriod) + uint32(shiftResult)
	}
}

func (sc *SquareChannel) setPeriod(newPeriod uint16) {
	sc.realPeriod = newPeriod
	sc.updateTargetPeriod()
}

// duty cycle sequences for the square channels.
var squareDuty = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0},
	{1, 0, 0, 1, 1, 1, 1, 1},
}

// tickTimer is clocked once per APU cycle (every other CPU cycle).
func (sc *SquareChannel) tickTimer() {
	if sc.timer == 0 {
		sc.timer = sc.realPeriod
		sc.dutyPos = (sc.dutyPos + 1) & 0x07
	} else {
		sc.timer--
	}
}

func (sc *SquareChannel) output() uint8 {
	if sc.isMuted() {
		return 0
	}
	return squareDuty[sc.duty][sc.dutyPos] * sc.envelope.output()
}

func (sc *SquareChannel) reset(soft bool) {
	sc.envelope.reset(soft)

	sc.duty = 0
	sc.dutyPos = 0
	sc.timer = 0
	sc.realPeriod = 0

	sc.sweepEnabled = false
	sc.sweepPeriod = 0
	sc.sweepNegate = false
	sc.sweepShift = 0
	sc.reloadSweep = false
	sc.sweepDivider = 0
	sc.updateTargetPeriod()
}

func (sc *SquareChannel) tickSweep() {
	sc.sweepDivider--
	if sc.sweepDivider == 0 {
		if sc.sweepShift > 0 && sc.sweepEnabled && sc.realPeriod >= 8 && sc.sweepTargetPeriod <= 0x7FF {
			sc.setPeriod(uint16(sc.sweepTargetPeriod))
		}
		sc.sweepDivider = sc.sweepPeriod
	}

	if sc.reloadSweep {
		sc.sweepDivider = sc.sweepPeriod
		sc.reloadSweep = false
	}
}

func (sc *SquareChannel) tickEnvelope() {
	sc.envelope.tick()
}

func (sc *SquareChannel) tickLengthCounter() {
	sc.envelope.lenCounter.tick()
}

func (sc *SquareChannel) setEnabled(enabled bool) {
	sc.envelope.lenCounter.setEnabled(enabled)
}

func (sc *SquareChannel) status() bool {
	return sc.envelope.lenCounter.status()
}
