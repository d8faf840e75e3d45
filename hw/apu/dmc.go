package apu

import (
	"famiko/emu/log"
	"famiko/hw/hwdefs"
	"famiko/hw/hwio"
)

// DMC plays 1-bit delta-encoded samples fetched from CPU memory. Each fetch
// goes through the bus and stalls the CPU for up to 4 cycles. On sample end
// the channel either loops or, when enabled, raises an IRQ.
type DMC struct {
	cpu cpu

	irqEnabled bool
	loop       bool

	timer  uint16 // countdown, clocked every CPU cycle
	period uint16

	sampleAddr   uint16
	sampleLength uint16

	currentAddr    uint16
	bytesRemaining uint16

	sampleBuffer    uint8
	sampleBufferSet bool

	shiftReg      uint8
	bitsRemaining uint8
	silence       bool

	level uint8 // 7-bit output level

	Freq    hwio.Reg8 `hwio:"offset=0x10,wcb"`
	Counter hwio.Reg8 `hwio:"offset=0x11,wcb"`
	Address hwio.Reg8 `hwio:"offset=0x12,wcb"`
	Sample  hwio.Reg8 `hwio:"offset=0x13,wcb"`
}

// NTSC DMC rates, in CPU cycles.
var dmcPeriodLUT = [16]uint16{
	428, 380, 340, 320, 286, 254, 226, 214, 190, 160, 142, 128, 106, 84, 72, 54,
}

func newDMC(cpu cpu) DMC {
	return DMC{cpu: cpu}
}

func (d *DMC) WriteFREQ(_, val uint8) {
	d.irqEnabled = val&0x80 == 0x80
	d.loop = val&0x40 == 0x40
	d.period = dmcPeriodLUT[val&0x0F] - 1

	if !d.irqEnabled {
		d.cpu.ClearIRQSource(hwdefs.DMC)
	}
}

func (d *DMC) WriteCOUNTER(_, val uint8) {
	d.level = val & 0x7F
}

func (d *DMC) WriteADDRESS(_, val uint8) {
	// Sample address = %11AAAAAA.AA000000
	d.sampleAddr = 0xC000 | (uint16(val) << 6)
}

func (d *DMC) WriteSAMPLE(_, val uint8) {
	// Sample length = %LLLL.LLLL0001
	d.sampleLength = (uint16(val) << 4) | 1
}

func (d *DMC) restart() {
	d.currentAddr = d.sampleAddr
	d.bytesRemaining = d.sampleLength
}

// fillSampleBuffer fetches the next sample byte through the bus. The fetch
// steals up to 4 CPU cycles.
func (d *DMC) fillSampleBuffer() {
	if d.sampleBufferSet || d.bytesRemaining == 0 {
		return
	}

	d.sampleBuffer = d.cpu.ReadMem(d.currentAddr)
	d.sampleBufferSet = true
	d.cpu.AddStall(4)

	if d.currentAddr == 0xFFFF {
		d.currentAddr = 0x8000
	} else {
		d.currentAddr++
	}

	d.bytesRemaining--
	if d.bytesRemaining == 0 {
		if d.loop {
			d.restart()
		} else if d.irqEnabled {
			log.ModSound.DebugZ("DMC sample end IRQ").End()
			d.cpu.SetIRQSource(hwdefs.DMC)
		}
	}
}

// tickTimer is clocked every CPU cycle.
func (d *DMC) tickTimer() {
	if d.timer != 0 {
		d.timer--
		return
	}
	d.timer = d.period

	if !d.silence {
		if d.shiftReg&1 != 0 {
			if d.level <= 125 {
				d.level += 2
			}
		} else {
			if d.level >= 2 {
				d.level -= 2
			}
		}
	}
	d.shiftReg >>= 1

	d.bitsRemaining--
	if d.bitsRemaining == 0 || d.bitsRemaining > 8 {
		d.bitsRemaining = 8
		if d.sampleBufferSet {
			d.silence = false
			d.shiftReg = d.sampleBuffer
			d.sampleBufferSet = false
			d.fillSampleBuffer()
		} else {
			d.silence = true
		}
	}
}

func (d *DMC) output() uint8 {
	return d.level
}

func (d *DMC) setEnabled(enabled bool) {
	if !enabled {
		d.bytesRemaining = 0
	} else if d.bytesRemaining == 0 {
		d.restart()
		d.fillSampleBuffer()
	}
}

func (d *DMC) status() bool {
	return d.bytesRemaining > 0
}

func (d *DMC) reset(soft bool) {
	d.timer = 0
	d.period = dmcPeriodLUT[0] - 1
	d.bitsRemaining = 8
	d.shiftReg = 0
	d.silence = true
	d.sampleBufferSet = false
	d.currentAddr = 0
	d.bytesRemaining = 0

	if !soft {
		d.sampleAddr = 0xC000
		d.sampleLength = 1
		d.irqEnabled = false
		d.loop = false
		d.level = 0
	}
}
