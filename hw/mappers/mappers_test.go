package mappers

import (
	"bytes"
	"errors"
	"testing"

	"famiko/hw"
	"famiko/hw/hwdefs"
	"famiko/ines"
)

// makeRom builds an iNES image in memory. Each 16 KiB PRG bank is filled
// with its bank number, each 8 KiB CHR bank with its bank number.
func makeRom(tb testing.TB, mapper uint16, nprg, nchr int, flags6low uint8) *ines.Rom {
	tb.Helper()

	hdr := make([]byte, 16)
	copy(hdr, ines.Magic)
	hdr[4] = uint8(nprg)
	hdr[5] = uint8(nchr)
	hdr[6] = flags6low | uint8(mapper&0x0F)<<4
	hdr[7] = uint8(mapper & 0xF0)

	buf := hdr
	for bank := 0; bank < nprg; bank++ {
		buf = append(buf, bytes.Repeat([]byte{uint8(bank)}, 16384)...)
	}
	for bank := 0; bank < nchr; bank++ {
		buf = append(buf, bytes.Repeat([]byte{uint8(bank)}, 8192)...)
	}

	rom := new(ines.Rom)
	if _, err := rom.ReadFrom(bytes.NewReader(buf)); err != nil {
		tb.Fatal(err)
	}
	return rom
}

func load(tb testing.TB, rom *ines.Rom) (*hw.CPU, *hw.PPU) {
	tb.Helper()

	ppu := hw.NewPPU()
	cpu := hw.NewCPU(ppu)
	ppu.InitBus()
	cpu.InitBus()

	if err := Load(rom, cpu, ppu); err != nil {
		tb.Fatal(err)
	}
	return cpu, ppu
}

func TestUnsupportedMapper(t *testing.T) {
	rom := makeRom(t, 66, 1, 1, 0)
	ppu := hw.NewPPU()
	cpu := hw.NewCPU(ppu)
	ppu.InitBus()
	cpu.InitBus()

	err := Load(rom, cpu, ppu)
	if !errors.Is(err, ErrUnsupportedMapper) {
		t.Errorf("got %v, want ErrUnsupportedMapper", err)
	}
}

func TestNROMMirrorsSmallPRG(t *testing.T) {
	rom := makeRom(t, 0, 1, 1, 0)
	cpu, _ := load(t, rom)

	// A single 16 KiB bank appears at both $8000 and $C000.
	if got := cpu.Bus.Peek8(0x8000); got != 0 {
		t.Errorf("$8000 = %d, want bank 0", got)
	}
	if got := cpu.Bus.Peek8(0xC000); got != 0 {
		t.Errorf("$C000 = %d, want bank 0 (mirror)", got)
	}
}

func TestPRGRAM(t *testing.T) {
	rom := makeRom(t, 0, 1, 1, 0)
	cpu, _ := load(t, rom)

	cpu.Bus.Write8(0x6000, 0x42)
	if got := cpu.Bus.Peek8(0x6000); got != 0x42 {
		t.Errorf("$6000 = $%02X, want $42 (PRG RAM)", got)
	}
}

func TestUxROMBankSelect(t *testing.T) {
	rom := makeRom(t, 2, 4, 0, 0)
	cpu, _ := load(t, rom)

	// Power-on: first bank at $8000, last bank fixed at $C000.
	if got := cpu.Bus.Peek8(0x8000); got != 0 {
		t.Errorf("$8000 = %d, want bank 0", got)
	}
	if got := cpu.Bus.Peek8(0xC000); got != 3 {
		t.Errorf("$C000 = %d, want bank 3 (fixed last)", got)
	}

	cpu.Bus.Write8(0x8000, 2)
	if got := cpu.Bus.Peek8(0x8000); got != 2 {
		t.Errorf("$8000 = %d, want bank 2 after select", got)
	}
	if got := cpu.Bus.Peek8(0xC000); got != 3 {
		t.Errorf("$C000 = %d, must stay fixed", got)
	}
}

func TestCNROMBankSelect(t *testing.T) {
	rom := makeRom(t, 3, 1, 4, 0)
	cpu, ppu := load(t, rom)

	if got := ppu.Bus.Peek8(0x0000); got != 0 {
		t.Errorf("CHR $0000 = %d, want bank 0", got)
	}

	// PRG bytes are all 0 (bank number), so the bus conflict ANDs any
	// written value down to 0: writing 2 where ROM holds 0 leaves CHR bank 0
	// selected.
	cpu.Bus.Write8(0x8000, 0x02)
	if got := ppu.Bus.Peek8(0x0000); got != 0 {
		t.Errorf("CHR bank = %d, want 0 (bus conflict masks the write)", got)
	}
}

func TestMMC1SerialBankSwap(t *testing.T) {
	rom := makeRom(t, 1, 8, 0, 0)
	cpu, _ := load(t, rom)

	write := func(val uint8) {
		cpu.Cycles += 4 // consecutive-cycle writes are ignored
		cpu.Bus.Write8(0x8000, val)
	}

	// Select PRG bank 3 in 16 KiB mode: CTRL = $0C (five writes of bits
	// 0,0,1,1 then the fifth commits), then PRG reg = 3.
	for _, bit := range []uint8{0, 0, 1, 1, 0} { // $0C, LSB first
		write(bit)
	}
	for _, bit := range []uint8{1, 1, 0, 0, 0} { // $03, LSB first
		cpu.Cycles += 4
		cpu.Bus.Write8(0xE000, bit)
	}

	if got := cpu.Bus.Peek8(0x8000); got != 3 {
		t.Fatalf("$8000 = %d, want bank 3", got)
	}
	if got := cpu.Bus.Peek8(0xC000); got != 7 {
		t.Fatalf("$C000 = %d, want last bank", got)
	}

	// Reset bit, then CTRL = $0C again and PRG reg = 0: the reset forces
	// 16 KiB mode with $8000 swappable, and once the PRG reg is committed the
	// window at $8000 is back to bank 0.
	write(0x80)
	for _, bit := range []uint8{0, 0, 1, 1, 0} {
		write(bit)
	}
	for _, bit := range []uint8{0, 0, 0, 0, 0} { // PRG reg = 0
		cpu.Cycles += 4
		cpu.Bus.Write8(0xE000, bit)
	}

	if got := cpu.Bus.Peek8(0x8000); got != 0 {
		t.Errorf("$8000 = %d, want bank 0 after reset sequence", got)
	}
}

func TestMMC1ConsecutiveWritesIgnored(t *testing.T) {
	rom := makeRom(t, 1, 8, 0, 0)
	cpu, _ := load(t, rom)

	// Five writes on the same cycle: only the first shifts.
	for range 5 {
		cpu.Bus.Write8(0xE000, 1)
	}
	// The serial register has received a single bit: no commit happened, the
	// PRG window is unchanged.
	if got := cpu.Bus.Peek8(0x8000); got != 0 {
		t.Errorf("$8000 = %d, want bank 0 (no commit)", got)
	}
}

func TestMMC3PRGBanking(t *testing.T) {
	rom := makeRom(t, 4, 8, 1, 0) // 8x16K = 16x8K PRG banks
	cpu, _ := load(t, rom)

	// 8 KiB banks hold their 16 KiB bank number (bank i -> value i/2).
	// Select R6=4 (so $8000 holds 8K bank 4 = value 2).
	cpu.Bus.Write8(0x8000, 6) // bank select = R6, PRG mode 0
	cpu.Bus.Write8(0x8001, 4)

	if got := cpu.Bus.Peek8(0x8000); got != 2 {
		t.Errorf("$8000 = %d, want value 2 (8K bank 4)", got)
	}
	// $E000 is fixed to the last bank.
	if got := cpu.Bus.Peek8(0xE000); got != 7 {
		t.Errorf("$E000 = %d, want last bank", got)
	}

	// PRG mode 1 swaps $8000 and $C000.
	cpu.Bus.Write8(0x8000, 0x40|6)
	cpu.Bus.Write8(0x8001, 4)
	if got := cpu.Bus.Peek8(0xC000); got != 2 {
		t.Errorf("$C000 = %d, want value 2 in PRG mode 1", got)
	}
	if got := cpu.Bus.Peek8(0x8000); got != 7 {
		t.Errorf("$8000 = %d, want second-to-last bank value", got)
	}
}

// TestMMC3IRQCounter: the scanline counter, clocked by the PPU at dot 260 of
// rendering-enabled scanlines, asserts the IRQ when it reaches zero.
func TestMMC3IRQCounter(t *testing.T) {
	rom := makeRom(t, 4, 2, 1, 0)
	cpu, ppu := load(t, rom)

	cpu.Bus.Write8(0xC000, 3)    // IRQ latch = 3
	cpu.Bus.Write8(0xC001, 0)    // reload on next clock
	cpu.Bus.Write8(0xE001, 0)    // enable IRQ
	cpu.Bus.Write8(0x2001, 0x18) // rendering on

	// Clocks fire on scanlines 0, 1, 2, 3: reload to 3, then 2, 1, 0.
	for range 341*3 + 260 {
		ppu.Tick()
	}
	if cpu.HasIRQSource(hwdefs.External) {
		t.Fatal("IRQ asserted too early")
	}
	ppu.Tick() // dot 260 of scanline 3: counter hits 0
	if !cpu.HasIRQSource(hwdefs.External) {
		t.Fatal("IRQ not asserted when the counter reached zero")
	}

	// $E000 disables and acknowledges.
	cpu.Bus.Write8(0xE000, 0)
	if cpu.HasIRQSource(hwdefs.External) {
		t.Error("$E000 write must acknowledge the IRQ")
	}
}
