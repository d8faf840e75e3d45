package hw

import (
	"io"

	"famiko/emu/log"
	"famiko/hw/apu"
	"famiko/hw/hwdefs"
	"famiko/hw/hwio"
)

// Locations reserved for vector pointers.
const (
	NMIVector   = uint16(0xFFFA) // Non-Maskable Interrupt
	ResetVector = uint16(0xFFFC) // Reset
	IRQVector   = uint16(0xFFFE) // Interrupt Request
)

// Cycles the CPU has burnt when it fetches the reset vector. This is the value
// the nestest reference log starts at.
const resetCycles = 7

type CPU struct {
	Bus *hwio.Table

	RAM hwio.Mem `hwio:"bank=0,offset=0x0,size=0x800,vsize=0x2000"`

	PPU    *PPU // non-nil when there's a PPU.
	APU    *apu.APU
	PPUDMA DMA

	Input InputPorts

	// Non-nil when execution tracing is enabled.
	tracer *tracer

	Cycles int64 // CPU cycles

	// cpu registers
	A, X, Y, SP uint8
	PC          uint16
	P           P

	// interrupt handling
	nmiPending bool
	irqFlag    hwdefs.IRQSource

	stall  int64 // DMA cycles to charge to the current instruction
	extra  int64 // page-cross/branch penalties of the current instruction
	halted bool
}

// NewCPU creates a new CPU at power-up state.
func NewCPU(ppu *PPU) *CPU {
	cpu := &CPU{
		Bus: hwio.NewTable("cpu"),
		A:   0x00,
		X:   0x00,
		Y:   0x00,
		SP:  0xFD,
		P:   0x00,
		PC:  0x0000,
		PPU: ppu,
	}
	if ppu != nil {
		ppu.CPU = cpu
	}
	return cpu
}

func (c *CPU) InitBus() {
	hwio.MustInitRegs(c)
	// CPU internal RAM, mirrored every 0x800 up to 0x2000.
	c.Bus.MapBank(0x0000, c, 0)

	if c.PPU != nil {
		// Map the 8 PPU registers (bank 1) from 0x2000 to 0x3FFF.
		for off := uint16(0x2000); off < 0x4000; off += 8 {
			c.Bus.MapBank(off, c.PPU, 1)
		}
	}

	// PPU OAMDMA register.
	c.PPUDMA.InitBus(c)
	c.Bus.MapBank(0x4014, &c.PPUDMA, 0)

	c.Input.initBus(c)
	c.Bus.MapBank(0x4000, &c.Input, 0)

	if c.APU != nil {
		c.Bus.MapBank(0x4000, c.APU, 0)
		c.Bus.MapBank(0x4000, &c.APU.Square1, 0)
		c.Bus.MapBank(0x4004, &c.APU.Square2, 0)
		c.Bus.MapBank(0x4000, &c.APU.Triangle, 0)
		c.Bus.MapBank(0x4000, &c.APU.Noise, 0)
		c.Bus.MapBank(0x4000, &c.APU.DMC, 0)
	}

	// $4017 is shared: reads hit the second controller port, writes hit the
	// APU frame counter.
	var reg4017 reg4017
	hwio.MustInitRegs(&reg4017)
	c.Bus.MapBank(0x4017, &reg4017, 0)
	reg4017.Read = c.Input.ReadOUT
	if c.APU != nil {
		reg4017.Write = c.APU.WriteFrameCounterReg
	} else {
		reg4017.Write = func(old, val uint8) {}
	}

	// $4018-$401F: disabled test registers. Left unmapped, reads return 0.
}

// Used to disambiguate between:
// - read 0x4017 -> reads controller state (OUT register)
// - write 0x4017 -> writes to APU frame counter.
type reg4017 struct {
	REG   hwio.Reg8 `hwio:"offset=0,rcb,wcb"`
	Write func(old, val uint8)
	Read  func(old uint8) uint8
}

func (r *reg4017) WriteREG(old, val uint8) { r.Write(old, val) }
func (r *reg4017) ReadREG(old uint8) uint8 { return r.Read(old) }

func (c *CPU) Reset(soft bool) {
	if soft {
		c.SP -= 0x03
	} else {
		c.A = 0x00
		c.X = 0x00
		c.Y = 0x00
		c.SP = 0xFD
		c.P = 0x00
		c.irqFlag = 0
	}
	c.P.setBit(pbitI)
	c.P.setBit(pbitU)

	c.PPUDMA.reset()

	c.PC = hwio.Read16(c.Bus, ResetVector)

	c.nmiPending = false
	c.halted = false
	c.stall = 0
	c.Cycles = resetCycles
}

// Step services a pending interrupt if any, then executes one instruction and
// returns its cycle cost, penalties and DMA stalls included.
func (c *CPU) Step() int64 {
	if c.halted {
		return 0
	}

	start := c.Cycles

	if c.nmiPending {
		c.nmiPending = false
		c.interrupt(NMIVector)
	} else if c.irqFlag != 0 && !c.P.I() {
		c.interrupt(IRQVector)
	}

	c.traceOp()

	opcode := c.Read8(c.PC)
	op := ops[opcode]
	if op == nil {
		c.halt(opcode)
		return c.Cycles - start
	}

	c.extra = 0
	op(c)
	c.Cycles += int64(opcycles[opcode]) + c.extra

	// DMA triggered by this instruction stalls the CPU; the cost is charged
	// to the instruction itself.
	c.Cycles += c.stall
	c.stall = 0

	return c.Cycles - start
}

// interrupt pushes PC and P (Break clear, Unused set), masks interrupts and
// jumps through the given vector. 7 cycles.
func (c *CPU) interrupt(vector uint16) {
	c.push16(c.PC)

	p := c.P
	p.clearBit(pbitB)
	p.setBit(pbitU)
	c.push8(uint8(p))

	c.P.setBit(pbitI)
	c.PC = c.Read16(vector)
	c.Cycles += 7
}

func (c *CPU) halt(opcode uint8) {
	c.halted = true
	log.ModCPU.ErrorZ("illegal opcode, CPU halted").
		Hex16("PC", c.PC).
		Hex8("opcode", opcode).
		End()
}

func (c *CPU) IsHalted() bool {
	return c.halted
}

/* interrupt lines */

func (c *CPU) SetIRQSource(src hwdefs.IRQSource)      { c.irqFlag |= src }
func (c *CPU) ClearIRQSource(src hwdefs.IRQSource)    { c.irqFlag &= ^src }
func (c *CPU) HasIRQSource(src hwdefs.IRQSource) bool { return c.irqFlag&src != 0 }

func (c *CPU) setNMIflag()   { c.nmiPending = true }
func (c *CPU) clearNMIflag() { c.nmiPending = false }

/* apu hooks */

func (c *CPU) CurrentCycle() int64 { return c.Cycles }

// AddStall schedules extra DMA cycles to be charged to the instruction in
// flight (or to the next one for stalls raised between instructions).
func (c *CPU) AddStall(n int64) { c.stall += n }

// ReadMem reads through the bus outside of any instruction. Used by the DMC
// sample fetches, which must not retrigger DMA themselves.
func (c *CPU) ReadMem(addr uint16) uint8 {
	return c.Bus.Read8(addr, false)
}

/* bus accessors */

func (c *CPU) Read8(addr uint16) uint8 {
	return c.Bus.Read8(addr, false)
}

func (c *CPU) Write8(addr uint16, val uint8) {
	c.Bus.Write8(addr, val)
}

func (c *CPU) Read16(addr uint16) uint16 {
	lo := c.Read8(addr)
	hi := c.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// zpr16 reads 16 bits from the zero page, handling page wrap.
func (c *CPU) zpr16(addr uint16) uint16 {
	lo := c.Read8(addr)
	hi := c.Read8(uint16(uint8(addr) + 1))
	return uint16(hi)<<8 | uint16(lo)
}

/* stack operations */

func (c *CPU) push8(val uint8) {
	top := uint16(c.SP) + 0x0100
	c.Write8(top, val)
	c.SP -= 1
}

func (c *CPU) push16(val uint16) {
	c.push8(uint8(val >> 8))
	c.push8(uint8(val & 0xff))
}

func (c *CPU) pull8() uint8 {
	c.SP++
	top := uint16(c.SP) + 0x0100
	return c.Read8(top)
}

func (c *CPU) pull16() uint16 {
	lo := c.pull8()
	hi := c.pull8()
	return uint16(hi)<<8 | uint16(lo)
}

/* addressing modes */

func pagecrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

func (c *CPU) imm() uint8  { return c.Read8(c.PC + 1) }
func (c *CPU) zp() uint8   { return c.Read8(c.PC + 1) }
func (c *CPU) abs() uint16 { return c.Read16(c.PC + 1) }

func (c *CPU) zpx() uint8 { return c.zp() + c.X }
func (c *CPU) zpy() uint8 { return c.zp() + c.Y }

// absolute indexed x. Returns the destination address and whether a page
// boundary was crossed.
func (c *CPU) abx() (uint16, bool) {
	addr := c.abs()
	dst := addr + uint16(c.X)
	return dst, pagecrossed(addr, dst)
}

// absolute indexed y. Returns the destination address and whether a page
// boundary was crossed.
func (c *CPU) aby() (uint16, bool) {
	addr := c.abs()
	dst := addr + uint16(c.Y)
	return dst, pagecrossed(addr, dst)
}

// zeropage indexed indirect (zp,x).
func (c *CPU) izx() uint16 {
	oper := c.zp() + c.X
	return c.zpr16(uint16(oper))
}

// zeropage indirect indexed (zp),y. Returns the destination address and
// whether a page boundary was crossed.
func (c *CPU) izy() (uint16, bool) {
	oper := c.zp()
	addr := c.zpr16(uint16(oper))
	dst := addr + uint16(c.Y)
	return dst, pagecrossed(addr, dst)
}

// absolute indirect (JMP only), reproducing the page-wrap bug: the high byte
// of the pointer is fetched from the start of the same page when the pointer
// low byte is $FF.
func (c *CPU) ind() uint16 {
	oper := c.Read16(c.PC + 1)
	lo := c.Read8(oper)
	hi := c.Read8((oper & 0xFF00) | (0x00FF & (oper + 1)))
	return uint16(hi)<<8 | uint16(lo)
}

// penalty charges the extra cycle of a page-crossing read.
func (c *CPU) penalty(crossed bool) {
	if crossed {
		c.extra++
	}
}

/* tracing */

// SetTraceOutput enables per-instruction execution tracing to w.
func (c *CPU) SetTraceOutput(w io.Writer) {
	c.tracer = &tracer{w: w}
}

func (c *CPU) traceOp() {
	if c.tracer == nil {
		return
	}
	state := cpuState{
		PC:    c.PC,
		A:     c.A,
		X:     c.X,
		Y:     c.Y,
		P:     c.P,
		SP:    c.SP,
		Clock: c.Cycles,
	}
	if c.PPU != nil {
		state.PPUCycle = c.PPU.Cycle
		state.Scanline = c.PPU.Scanline
	}
	c.tracer.write(state)
}
