package apu

import (
	"famiko/emu/log"
	"famiko/hw/hwdefs"
)

// Step boundaries in CPU cycles. In 4-step mode the three last entries are
// the IRQ window; in 5-step mode no IRQ is generated.
var fcStepCycles = [2][6]int32{
	{7457, 14913, 22371, 29828, 29829, 29830},
	{7457, 14913, 22371, 29829, 37281, 37282},
}

var fcFrameType = [6]FrameType{
	QuarterFrame, HalfFrame, QuarterFrame, NoFrame, HalfFrame, NoFrame,
}

// frameCounter sequences the envelope, sweep and length counter clocks, and
// generates the frame IRQ in 4-step mode.
type frameCounter struct {
	apu *APU
	cpu cpu

	cycle    int32
	curStep  int
	stepMode int // 0: 4-step mode, 1: 5-step mode

	inhibitIRQ bool

	newval     int16 // pending $4017 value, -1 when none
	writeDelay int8
}

func (fc *frameCounter) init(apu *APU, cpu cpu) {
	fc.apu = apu
	fc.cpu = cpu
	fc.newval = -1
}

func (fc *frameCounter) reset(soft bool) {
	fc.cycle = 0
	fc.curStep = 0

	// After reset the APU acts as if $4017 were written with $00, except that
	// a soft reset keeps the step mode.
	if !soft {
		fc.stepMode = 0
	}
	fc.inhibitIRQ = false
	fc.newval = -1
	fc.writeDelay = 0
}

func (fc *frameCounter) WriteFRAMECOUNTER(old, val uint8) {
	log.ModSound.DebugZ("write framecounter").Uint8("val", val).End()

	fc.newval = int16(val)

	// If the write lands between APU cycles its effects occur 4 CPU cycles
	// later, 3 otherwise.
	if fc.cpu.CurrentCycle()&0x01 != 0 {
		fc.writeDelay = 4
	} else {
		fc.writeDelay = 3
	}

	fc.inhibitIRQ = val&0x40 == 0x40
	if fc.inhibitIRQ {
		fc.cpu.ClearIRQSource(hwdefs.FrameCounter)
	}
}

// tick advances the sequencer by one CPU cycle.
func (fc *frameCounter) tick() {
	fc.cycle++

	if fc.cycle >= fcStepCycles[fc.stepMode][fc.curStep] {
		if fc.stepMode == 0 && fc.curStep >= 3 && !fc.inhibitIRQ {
			// The IRQ is asserted on the last three cycles of 4-step mode.
			fc.cpu.SetIRQSource(hwdefs.FrameCounter)
		}

		if ftyp := fcFrameType[fc.curStep]; ftyp != NoFrame {
			fc.apu.frameCounterTick(ftyp)
		}

		fc.curStep++
		if fc.curStep == 6 {
			fc.curStep = 0
			fc.cycle = 0
		}
	}

	if fc.newval >= 0 {
		fc.writeDelay--
		if fc.writeDelay <= 0 {
			if fc.newval&0x80 != 0 {
				fc.stepMode = 1
			} else {
				fc.stepMode = 0
			}
			fc.curStep = 0
			fc.cycle = 0
			fc.newval = -1

			if fc.stepMode == 1 {
				// Writing $4017 with bit 7 set immediately clocks both the
				// quarter and half frame units.
				fc.apu.frameCounterTick(HalfFrame)
			}
		}
	}
}
