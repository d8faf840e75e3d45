package mappers

import (
	"fmt"

	"famiko/hw"
	"famiko/hw/hwio"
	"famiko/ines"
)

// base carries what every mapper needs: the cartridge, both buses, the CHR
// backing store (ROM or RAM) and the bank-window selection helpers.
type base struct {
	desc MapperDesc

	rom *ines.Rom
	cpu *hw.CPU
	ppu *hw.PPU

	chr    []byte // CHR ROM, or 8 KiB of CHR RAM
	chrRAM bool

	// 2 KiB of extra nametable RAM for four-screen cartridges.
	extraNT []byte

	PRGRAM hwio.Mem `hwio:"offset=0x6000,size=0x2000"`
}

func ispow2(n int) bool {
	return n&(n-1) == 0
}

func newbase(desc MapperDesc, rom *ines.Rom, cpu *hw.CPU, ppu *hw.PPU) (*base, error) {
	if len(rom.PRGROM) == 0 || !ispow2(len(rom.PRGROM)) {
		return nil, fmt.Errorf("only support PRGROM with power of 2 size, got %d", len(rom.PRGROM))
	}

	b := &base{desc: desc, rom: rom, cpu: cpu, ppu: ppu}

	b.chr = rom.CHRROM
	if rom.HasCHRRAM() {
		b.chr = make([]byte, 0x2000)
		b.chrRAM = true
	}
	if rom.Mirroring() == ines.FourScreen {
		b.extraNT = make([]byte, 0x800)
	}

	// 8 KiB of PRG RAM at $6000 (battery persistence not handled).
	hwio.MustInitRegs(b)
	cpu.Bus.MapBank(0x0000, b, 0)

	if rom.HasTrainer() {
		copy(b.PRGRAM.Data[0x1000:], rom.Trainer)
	}

	return b, nil
}

// writeFn is a mapper's register write handler. Bank selection helpers map
// read views of the PRG ROM into the CPU bus with writes routed to it, so the
// ROM window doubles as the mapper's register window.
type writeFn func(addr uint16, val uint8)

// prgFlags makes hook-less PRG windows read-only: a mapper with no registers
// silently drops writes to its ROM.
func prgFlags(wcb writeFn) hwio.MemFlags {
	if wcb == nil {
		return hwio.MemFlagNoROLog
	}
	return hwio.MemFlagReadWrite
}

// selectPRGPage16KB maps the given 16 KiB PRG ROM page into slot 0 ($8000) or
// 1 ($C000). Negative pages count from the end.
func (b *base) selectPRGPage16KB(slot, page int, wcb writeFn) {
	npages := len(b.rom.PRGROM) >> 14
	page = ((page % npages) + npages) % npages

	data := b.rom.PRGROM[page<<14 : (page+1)<<14]
	b.cpu.Bus.MapMem(uint16(0x8000+slot*0x4000), &hwio.Mem{
		Name:    fmt.Sprintf("prg16k-%d", slot),
		Data:    data,
		VSize:   0x4000,
		Flags:   prgFlags(wcb),
		WriteCb: wcb,
	})
}

// selectPRGPage32KB maps a 32 KiB PRG ROM page over the whole window.
func (b *base) selectPRGPage32KB(page int, wcb writeFn) {
	npages := len(b.rom.PRGROM) >> 15
	if npages == 0 {
		// A single 16 KiB bank is mirrored over the window.
		b.selectPRGPage16KB(0, 0, wcb)
		b.selectPRGPage16KB(1, 0, wcb)
		return
	}
	page = ((page % npages) + npages) % npages

	data := b.rom.PRGROM[page<<15 : (page+1)<<15]
	b.cpu.Bus.MapMem(0x8000, &hwio.Mem{
		Name:    "prg32k",
		Data:    data,
		VSize:   0x8000,
		Flags:   prgFlags(wcb),
		WriteCb: wcb,
	})
}

// selectPRGPage8KB maps an 8 KiB PRG ROM page into one of the four slots at
// $8000/$A000/$C000/$E000.
func (b *base) selectPRGPage8KB(slot, page int, wcb writeFn) {
	npages := len(b.rom.PRGROM) >> 13
	page = ((page % npages) + npages) % npages

	data := b.rom.PRGROM[page<<13 : (page+1)<<13]
	b.cpu.Bus.MapMem(uint16(0x8000+slot*0x2000), &hwio.Mem{
		Name:    fmt.Sprintf("prg8k-%d", slot),
		Data:    data,
		VSize:   0x2000,
		Flags:   prgFlags(wcb),
		WriteCb: wcb,
	})
}

func (b *base) chrFlags() hwio.MemFlags {
	if b.chrRAM {
		return hwio.MemFlagReadWrite
	}
	// Stray writes to CHR ROM are silently dropped.
	return hwio.MemFlagNoROLog
}

// selectCHRPage splits the 8 KiB CHR window into npages slots of equal size
// and maps the given page into one of them.
func (b *base) selectCHRPage(pagesz, slot, page int) {
	npages := len(b.chr) / pagesz
	page = ((page % npages) + npages) % npages

	data := b.chr[page*pagesz : (page+1)*pagesz]
	b.ppu.Bus.MapMem(uint16(slot*pagesz), &hwio.Mem{
		Name:  "chr",
		Data:  data,
		VSize: pagesz,
		Flags: b.chrFlags(),
	})
}

func (b *base) selectCHRPage8KB(page int)       { b.selectCHRPage(0x2000, 0, page) }
func (b *base) selectCHRPage4KB(slot, page int) { b.selectCHRPage(0x1000, slot, page) }
func (b *base) selectCHRPage2KB(slot, page int) { b.selectCHRPage(0x0800, slot, page) }
func (b *base) selectCHRPage1KB(slot, page int) { b.selectCHRPage(0x0400, slot, page) }

// setNTMirroring maps 1 KiB views of the nametable RAM into the PPU bus
// according to the wanted arrangement, mirrors at $3000-$3EFF included.
func (b *base) setNTMirroring(m ines.NTMirroring) {
	b.ppu.Bus.Unmap(0x2000, 0x3EFF)

	A := b.ppu.Nametables[:0x400]
	B := b.ppu.Nametables[0x400:0x800]

	var nt1, nt2, nt3, nt4 []byte

	switch m {
	case ines.HorzMirroring:
		nt1, nt2 = A, A
		nt3, nt4 = B, B
	case ines.VertMirroring:
		nt1, nt2 = A, B
		nt3, nt4 = A, B
	case ines.OnlyAScreen:
		nt1, nt2 = A, A
		nt3, nt4 = A, A
	case ines.OnlyBScreen:
		nt1, nt2 = B, B
		nt3, nt4 = B, B
	case ines.FourScreen:
		nt1, nt2 = A, B
		nt3, nt4 = b.extraNT[:0x400], b.extraNT[0x400:]
	default:
		panic(fmt.Sprintf("unsupported mirroring %d", m))
	}

	b.ppu.Bus.MapMemorySlice(0x2000, 0x23FF, nt1, false)
	b.ppu.Bus.MapMemorySlice(0x2400, 0x27FF, nt2, false)
	b.ppu.Bus.MapMemorySlice(0x2800, 0x2BFF, nt3, false)
	b.ppu.Bus.MapMemorySlice(0x2C00, 0x2FFF, nt4, false)

	// Mirrors of $2000-$2EFF.
	b.ppu.Bus.MapMemorySlice(0x3000, 0x33FF, nt1, false)
	b.ppu.Bus.MapMemorySlice(0x3400, 0x37FF, nt2, false)
	b.ppu.Bus.MapMemorySlice(0x3800, 0x3BFF, nt3, false)
	b.ppu.Bus.MapMemorySlice(0x3C00, 0x3EFF, nt4, false)
}
