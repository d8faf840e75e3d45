package hw

import (
	"image"

	"famiko/emu/log"
	"famiko/hw/hwio"
)

const (
	NumScanlines = 262 // Number of scanlines per frame.
	NumCycles    = 341 // Number of PPU cycles per scanline.

	// Scanline roles. Scanlines 0 to 239 are visible, 240 idles, 241 to 260
	// are vertical blanking, 261 is the pre-render line.
	postRenderScanline = 240
	vblankScanline     = 241
	preRenderScanline  = 261
)

// The PPU has already run this many dots when the CPU fetches the reset
// vector: with the CPU cycle counter starting at 7, the first vblank flag
// lands on CPU cycle 27384.
const resetDots = 52

const (
	// PPUCTRL bits
	// $2000

	// Nametable selection mask
	// (0 = $2000; 1 = $2400; 2 = $2800; 3 = $2C00)
	ntselect = 0b11

	// VRAM address increment per CPU read/write of PPUDATA
	// (0: +1 i.e. horizontal; 1: +32 i.e. vertical)
	vramIncr = 2

	// Sprite pattern table address for 8x8 sprites
	// (0: $0000; 1: $1000; ignored in 8x16 mode)
	spriteAddr = 3

	// Background pattern table address (0: $0000; 1: $1000)
	backgroundAddr = 4

	// Sprite size (0: 8x8 pixels; 1: 8x16 pixels)
	spriteSize = 5

	// Generate an NMI at the start of the
	// vertical blanking interval (0: off; 1: on)
	nmi = 7
)

const (
	// PPUMASK bits
	// $2001

	greyscale       = 0
	leftmostBg      = 1 // Show background in leftmost 8 pixels
	leftmostSprites = 2 // Show sprites in leftmost 8 pixels
	showBg          = 3
	showSprites     = 4
)

const (
	// PPUSTATUS bits
	// $2002

	// Low 5 bits return stale PPU bus contents.
	openbusMask = 0b11111

	// Sprite overflow: set during sprite evaluation when a 9th in-range
	// sprite is found; cleared at dot 1 of the pre-render line.
	spriteOverflow = 5

	// Sprite 0 hit: set when a nonzero pixel of sprite 0 overlaps a nonzero
	// background pixel; cleared at dot 1 of the pre-render line.
	sprite0Hit = 6

	// Vertical blank has started. Set at dot 1 of line 241, cleared after
	// reading $2002 and at dot 1 of the pre-render line.
	vblank = 7
)

type PPU struct {
	Bus *hwio.Table // PPU bus (pattern tables and nametables; mapped by the mapper)
	CPU *CPU

	Cycle    int // Current dot in scanline
	Scanline int // Current scanline
	Frames   uint64

	// Nametable RAM. The mapper maps 1 KiB views of it into the PPU bus
	// according to the cartridge mirroring.
	Nametables []byte

	// CPU-exposed memory-mapped PPU registers
	// mapped from $2000 to $2007, mirrored up to $3fff
	PPUCTRL   hwio.Reg8 `hwio:"bank=1,offset=0x0,rcb,wcb"`
	PPUMASK   hwio.Reg8 `hwio:"bank=1,offset=0x1,rcb,wcb"`
	PPUSTATUS hwio.Reg8 `hwio:"bank=1,offset=0x2,rcb,wcb"`
	OAMADDR   hwio.Reg8 `hwio:"bank=1,offset=0x3,rcb,wcb"`
	OAMDATA   hwio.Reg8 `hwio:"bank=1,offset=0x4,rcb,wcb"`
	PPUSCROLL hwio.Reg8 `hwio:"bank=1,offset=0x5,rcb,wcb"`
	PPUADDR   hwio.Reg8 `hwio:"bank=1,offset=0x6,rcb,wcb"`
	PPUDATA   hwio.Reg8 `hwio:"bank=1,offset=0x7,rcb,wcb"`

	oam     [256]uint8
	palette [32]uint8
	openbus uint8 // last value written to any PPU register

	// VRAM read/write
	vramAddr    uint16 // v
	vramTmp     uint16 // t
	finex       uint8  // x
	writeLatch  bool   // w
	ppuDataRbuf uint8

	// Background fetch latches and shift registers. tileData holds two tiles
	// worth of 4-bit pixels, shifted out as dots are produced.
	ntByte   uint8
	atByte   uint8
	tileLo   uint8
	tileHi   uint8
	tileData uint64

	// Sprites selected for the scanline being prepared.
	spriteCount      int
	spritePatterns   [8]uint32
	spritePositions  [8]uint8
	spritePriorities [8]uint8
	spriteIndexes    [8]uint8

	oddFrame bool

	screen   *image.RGBA
	colorIdx [256 * 240]uint8 // per-pixel palette index, for the zapper

	// Called at dot 260 of every rendering-enabled visible or pre-render
	// scanline (MMC3 IRQ counter).
	scanlineHook func()
}

func NewPPU() *PPU {
	return &PPU{
		Bus:        hwio.NewTable("ppu"),
		Nametables: make([]byte, 0x800),
		screen:     image.NewRGBA(image.Rect(0, 0, 256, 240)),
	}
}

func (p *PPU) InitBus() {
	hwio.MustInitRegs(p)
}

// Output returns the 256x240 framebuffer of the last rendered frame.
func (p *PPU) Output() *image.RGBA {
	return p.screen
}

// ColorIndexAt returns the palette index of the last rendered pixel at (x, y).
func (p *PPU) ColorIndexAt(x, y int) uint8 {
	if x < 0 || x >= 256 || y < 0 || y >= 240 {
		return 0x0F
	}
	return p.colorIdx[y*256+x]
}

// SetScanlineHook registers a callback run once per rendering-enabled
// scanline, at dot 260 (used by MMC3 for its IRQ counter).
func (p *PPU) SetScanlineHook(hook func()) {
	p.scanlineHook = hook
}

func (p *PPU) Reset() {
	p.PPUCTRL.Value = 0
	p.PPUMASK.Value = 0
	p.writeLatch = false
	p.ppuDataRbuf = 0
	p.oddFrame = false
	// vramAddr is deliberately left unchanged by reset.

	p.Scanline = 0
	p.Cycle = resetDots
	p.Frames = 0
}

func (p *PPU) rendering() bool {
	return p.PPUMASK.GetBit(showBg) || p.PPUMASK.GetBit(showSprites)
}

/* PPU address space */

// paletteIdx mirrors a $3F00-$3FFF address down to the 32-byte palette RAM,
// aliasing $3F10/$3F14/$3F18/$3F1C onto $3F00/$3F04/$3F08/$3F0C.
func paletteIdx(addr uint16) uint16 {
	i := addr & 0x1F
	if i >= 16 && i%4 == 0 {
		i -= 16
	}
	return i
}

func (p *PPU) readPalette(addr uint16) uint8 {
	return p.palette[paletteIdx(addr)]
}

func (p *PPU) writePalette(addr uint16, val uint8) {
	p.palette[paletteIdx(addr)] = val
}

// vread reads from the PPU address space: pattern tables and nametables go
// through the bus (and therefore the mapper), palette RAM is internal.
func (p *PPU) vread(addr uint16) uint8 {
	addr &= 0x3FFF
	if addr >= 0x3F00 {
		return p.readPalette(addr)
	}
	return p.Bus.Read8(addr, false)
}

func (p *PPU) vwrite(addr uint16, val uint8) {
	addr &= 0x3FFF
	if addr >= 0x3F00 {
		p.writePalette(addr, val)
		return
	}
	p.Bus.Write8(addr, val)
}

/* memory mapped registers */

// PPUCTRL: $2000
func (p *PPU) WritePPUCTRL(old, val uint8) {
	p.openbus = val

	// By toggling the nmi bit during vblank without reading PPUSTATUS, a
	// program can cause multiple NMIs to be generated.
	if val&(1<<nmi) == 0 {
		p.CPU.clearNMIflag()
	} else if old&(1<<nmi) == 0 && p.PPUSTATUS.GetBit(vblank) {
		p.CPU.setNMIflag()
	}

	// Transfer the nametable bits into t.
	p.vramTmp &^= ntselect << 10
	p.vramTmp |= (uint16(val) & ntselect) << 10
}

func (p *PPU) ReadPPUCTRL(val uint8) uint8 { return p.openbus }

// PPUMASK: $2001
func (p *PPU) WritePPUMASK(old, val uint8) {
	p.openbus = val
}

func (p *PPU) ReadPPUMASK(val uint8) uint8 { return p.openbus }

// PPUSTATUS: $2002
func (p *PPU) ReadPPUSTATUS(val uint8) uint8 {
	ret := val&0xE0 | p.openbus&openbusMask

	p.PPUSTATUS.ClearBit(vblank)
	p.writeLatch = false
	p.CPU.clearNMIflag()
	return ret
}

func (p *PPU) WritePPUSTATUS(old, val uint8) {
	// Read-only; the write still drives the PPU open bus.
	p.PPUSTATUS.Value = old
	p.openbus = val
}

// OAMADDR: $2003
func (p *PPU) WriteOAMADDR(old, val uint8) {
	p.openbus = val
}

func (p *PPU) ReadOAMADDR(val uint8) uint8 { return p.openbus }

// OAMDATA: $2004
func (p *PPU) WriteOAMDATA(old, val uint8) {
	p.openbus = val
	p.oam[p.OAMADDR.Value] = val
	p.OAMADDR.Value++
}

func (p *PPU) ReadOAMDATA(val uint8) uint8 {
	return p.oam[p.OAMADDR.Value]
}

// PPUSCROLL: $2005
func (p *PPU) WritePPUSCROLL(old, val uint8) {
	p.openbus = val

	if !p.writeLatch { // first write
		p.finex = val & 0b111
		p.vramTmp &^= 0b1_1111
		p.vramTmp |= uint16(val >> 3)
	} else { // second write
		p.vramTmp &^= 0b0111_0011_1110_0000
		p.vramTmp |= uint16(val&0b111) << 12
		p.vramTmp |= uint16(val&0b1111_1000) << 2
	}

	p.writeLatch = !p.writeLatch
}

func (p *PPU) ReadPPUSCROLL(val uint8) uint8 { return p.openbus }

// PPUADDR: $2006. To read/write VRAM from the CPU, PPUADDR is set to the
// address of the operation; it's a 15-bit register so 2 writes are necessary.
func (p *PPU) WritePPUADDR(old, val uint8) {
	p.openbus = val

	if !p.writeLatch { // first write
		p.vramTmp &^= 0b0111_1111_0000_0000
		p.vramTmp |= uint16(val&0b11_1111) << 8
	} else { // second write
		p.vramTmp &^= 0xFF
		p.vramTmp |= uint16(val)
		p.vramAddr = p.vramTmp
	}

	p.writeLatch = !p.writeLatch
}

func (p *PPU) ReadPPUADDR(val uint8) uint8 { return p.openbus }

// PPUDATA: $2007
func (p *PPU) ReadPPUDATA(_ uint8) uint8 {
	addr := p.vramAddr & 0x3FFF
	var val uint8
	if addr < 0x3F00 {
		// Reading VRAM is too slow so the actual data
		// will be returned at the next read.
		val = p.ppuDataRbuf
		p.ppuDataRbuf = p.Bus.Read8(addr, false)
	} else {
		// Palette reads are immediate, but the read buffer is still filled,
		// from the nametable mirror underneath the palette.
		val = p.readPalette(addr)
		p.ppuDataRbuf = p.Bus.Read8(addr-0x1000, false)
	}

	p.incVRAMaddr()
	return val
}

// PPUDATA: $2007
func (p *PPU) WritePPUDATA(old, val uint8) {
	p.openbus = val
	p.vwrite(p.vramAddr, val)
	p.incVRAMaddr()

	log.ModPPU.DebugZ("VRAM write").
		Hex16("addr", p.vramAddr).
		Hex8("val", val).
		End()
}

// After each i/o on PPUDATA, the VRAM address is incremented.
func (p *PPU) incVRAMaddr() {
	incr := uint16(1)
	if p.PPUCTRL.GetBit(vramIncr) {
		incr = 32
	}
	p.vramAddr = (p.vramAddr + incr) & 0x7FFF
}
