// Package emu assembles the NES hardware components into a runnable console
// and exposes the interface the front-end drives.
package emu

import (
	"bytes"
	"fmt"
	"image"

	"famiko/hw"
	"famiko/hw/apu"
	"famiko/hw/hwdefs"
	"famiko/hw/mappers"
	"famiko/ines"
)

// NES is one emulated console. The CPU is the master clock: one step runs one
// instruction, then advances the APU by as many cycles and the PPU by three
// times as many dots.
type NES struct {
	CPU   *hw.CPU
	PPU   *hw.PPU
	APU   *apu.APU
	Rom   *ines.Rom
	Mixer *apu.Mixer
}

// PowerUp builds a console around the given rom and puts it in its initial
// state.
func PowerUp(rom *ines.Rom) (*NES, error) {
	mixer := apu.NewMixer()
	ppu := hw.NewPPU()
	cpu := hw.NewCPU(ppu)
	cpu.APU = apu.New(cpu, mixer)

	ppu.InitBus()
	cpu.InitBus()

	if err := mappers.Load(rom, cpu, ppu); err != nil {
		return nil, err
	}

	nes := &NES{
		CPU:   cpu,
		PPU:   ppu,
		APU:   cpu.APU,
		Rom:   rom,
		Mixer: mixer,
	}
	nes.Reset(hwdefs.HardReset)
	return nes, nil
}

// Load parses an iNES image and powers up a console around it.
func Load(romBytes []byte) (*NES, error) {
	rom := new(ines.Rom)
	if _, err := rom.ReadFrom(bytes.NewReader(romBytes)); err != nil {
		return nil, err
	}
	return PowerUp(rom)
}

// Reset puts the console back in its post-reset state. A soft reset is the
// console reset button, a hard reset is a power cycle.
func (nes *NES) Reset(soft bool) {
	nes.PPU.Reset()
	nes.APU.Reset(soft)
	nes.CPU.Reset(soft)
}

// Step runs one CPU instruction and catches the APU and PPU up with it.
// Returns the instruction cycle cost.
func (nes *NES) Step() int64 {
	cycles := nes.CPU.Step()

	for range cycles {
		nes.APU.Tick()
	}
	for range 3 * cycles {
		nes.PPU.Tick()
	}
	return cycles
}

// RunFrame steps the console until the PPU completes the current frame
// (vblank to vblank) and returns the framebuffer. A halted CPU (illegal
// opcode) is a fatal engine error.
func (nes *NES) RunFrame() (*image.RGBA, error) {
	frame := nes.PPU.Frames
	for nes.PPU.Frames == frame {
		if nes.Step() == 0 {
			return nil, fmt.Errorf("CPU halted at $%04X", nes.CPU.PC)
		}
	}
	nes.APU.EndFrame()
	return nes.PPU.Output(), nil
}

// AudioSamples drains the audio accumulated since the last call, resampled
// at the given rate.
func (nes *NES) AudioSamples(rateHz int) []int16 {
	return nes.Mixer.Samples(rateHz)
}

// SetButtons replaces the gamepad state of the given port (0 or 1).
func (nes *NES) SetButtons(port int, mask uint8) {
	nes.CPU.Input.SetButtons(port, mask)
}

// SetZapper connects the light gun to port 2 and updates its aim position
// (screen pixels) and trigger.
func (nes *NES) SetZapper(x, y int, trigger bool) {
	nes.CPU.Input.Zapper().Update(x, y, trigger)
}
