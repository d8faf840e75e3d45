package apu

import (
	"famiko/emu/log"
	"famiko/hw/hwdefs"
	"famiko/hw/hwio"
)

// APU is the 2A03 sound generator: two square channels, a triangle, a noise
// channel, the DMC, and the frame counter sequencing their envelope, sweep
// and length counter clocks. It is ticked once per CPU cycle.
type APU struct {
	cpu   cpu
	mixer *Mixer

	Square1  SquareChannel
	Square2  SquareChannel
	Triangle TriangleChannel
	Noise    NoiseChannel
	DMC      DMC

	frameCounter frameCounter

	curCycle uint32 // CPU cycles elapsed in the current frame

	STATUS hwio.Reg8 `hwio:"offset=0x15,rcb,pcb,wcb"`
}

func New(cpu cpu, mixer *Mixer) *APU {
	a := &APU{
		cpu:   cpu,
		mixer: mixer,
	}
	a.Square1 = newSquareChannel(Square1, true)
	a.Square2 = newSquareChannel(Square2, false)
	a.Triangle = newTriangleChannel()
	a.Noise = newNoiseChannel()
	a.DMC = newDMC(cpu)

	a.frameCounter.init(a, cpu)

	hwio.MustInitRegs(a)
	hwio.MustInitRegs(&a.Square1)
	hwio.MustInitRegs(&a.Square2)
	hwio.MustInitRegs(&a.Triangle)
	hwio.MustInitRegs(&a.Noise)
	hwio.MustInitRegs(&a.DMC)

	return a
}

// WriteFrameCounterReg handles CPU writes to $4017.
func (a *APU) WriteFrameCounterReg(old, val uint8) {
	a.frameCounter.WriteFRAMECOUNTER(old, val)
}

func (a *APU) Status() uint8 {
	var status uint8

	if a.Square1.status() {
		status |= 0x01
	}
	if a.Square2.status() {
		status |= 0x02
	}
	if a.Triangle.status() {
		status |= 0x04
	}
	if a.Noise.status() {
		status |= 0x08
	}
	if a.DMC.status() {
		status |= 0x10
	}

	if a.cpu.HasIRQSource(hwdefs.FrameCounter) {
		status |= 0x40
	}
	if a.cpu.HasIRQSource(hwdefs.DMC) {
		status |= 0x80
	}

	return status
}

// STATUS: $4015
func (a *APU) PeekSTATUS(val uint8) uint8 {
	return a.Status()
}

func (a *APU) ReadSTATUS(val uint8) uint8 {
	status := a.Status()

	// Reading $4015 clears the frame counter interrupt flag.
	a.cpu.ClearIRQSource(hwdefs.FrameCounter)

	return status
}

func (a *APU) WriteSTATUS(old, val uint8) {
	log.ModSound.DebugZ("write status").Uint8("val", val).End()

	// Writing to $4015 clears the DMC interrupt flag. This needs to be done
	// before setting the enabled flag for the DMC (because doing so can
	// trigger an IRQ).
	a.cpu.ClearIRQSource(hwdefs.DMC)

	a.Square1.setEnabled(val&0x01 == 0x01)
	a.Square2.setEnabled(val&0x02 == 0x02)
	a.Triangle.setEnabled(val&0x04 == 0x04)
	a.Noise.setEnabled(val&0x08 == 0x08)
	a.DMC.setEnabled(val&0x10 == 0x10)
}

// frameCounterTick distributes a quarter or half frame clock to the channels.
func (a *APU) frameCounterTick(ftyp FrameType) {
	// Quarter and half frames clock envelopes and the linear counter.
	a.Square1.tickEnvelope()
	a.Square2.tickEnvelope()
	a.Triangle.tickLinearCounter()
	a.Noise.tickEnvelope()

	if ftyp == HalfFrame {
		// Half frames clock length counters and sweeps.
		a.Square1.tickLengthCounter()
		a.Square2.tickLengthCounter()
		a.Triangle.tickLengthCounter()
		a.Noise.tickLengthCounter()

		a.Square1.tickSweep()
		a.Square2.tickSweep()
	}
}

func (a *APU) Reset(soft bool) {
	a.curCycle = 0

	a.Square1.reset(soft)
	a.Square2.reset(soft)
	a.Triangle.reset(soft)
	a.Noise.reset(soft)
	a.DMC.reset(soft)
	a.frameCounter.reset(soft)
	a.mixer.Reset()

	// Channels are silenced. The DMC output level survives soft resets only;
	// a hard reset sets it to 0.
	a.STATUS.Value = 0
}

// Tick advances the APU by one CPU cycle.
func (a *APU) Tick() {
	a.curCycle++

	a.frameCounter.tick()

	a.Triangle.tickTimer()
	a.DMC.tickTimer()
	if a.curCycle&1 == 0 {
		// Square and noise timers run at half the CPU clock.
		a.Square1.tickTimer()
		a.Square2.tickTimer()
		a.Noise.tickTimer()
	}

	a.mixer.run(a.curCycle, a.output())
}

// output is the instantaneous mixed sample.
func (a *APU) output() int16 {
	return mix(
		a.Square1.output(),
		a.Square2.output(),
		a.Triangle.output(),
		a.Noise.output(),
		a.DMC.output(),
	)
}

// EndFrame flushes the current frame of audio into the mixer.
func (a *APU) EndFrame() {
	a.mixer.endFrame(a.curCycle)
	a.curCycle = 0
}
