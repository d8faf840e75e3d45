package hw

import (
	"testing"
)

// TestOpcodeBaseCycles checks that every implemented opcode consumes exactly
// its base cycle count when no penalty applies (operands chosen so that no
// page is crossed, branches not taken).
func TestOpcodeBaseCycles(t *testing.T) {
	// Flag state that makes each branch NOT taken.
	notTaken := map[uint8]func(p *P){
		0x10: func(p *P) { p.setBit(pbitN) },   // BPL
		0x30: func(p *P) { p.clearBit(pbitN) }, // BMI
		0x50: func(p *P) { p.setBit(pbitV) },   // BVC
		0x70: func(p *P) { p.clearBit(pbitV) }, // BVS
		0x90: func(p *P) { p.setBit(pbitC) },   // BCC
		0xB0: func(p *P) { p.clearBit(pbitC) }, // BCS
		0xD0: func(p *P) { p.setBit(pbitZ) },   // BNE
		0xF0: func(p *P) { p.clearBit(pbitZ) }, // BEQ
	}

	for op := 0; op < 256; op++ {
		op := uint8(op)
		if ops[op] == nil {
			continue
		}

		cpu := newTestCPU(t, 0xC000, []byte{op, 0x00, 0x00})
		cpu.X, cpu.Y = 0, 0
		if setup, ok := notTaken[op]; ok {
			setup(&cpu.P)
		}

		if got, want := cpu.Step(), int64(opcycles[op]); got != want {
			t.Errorf("opcode %02X: cycles = %d, want %d", op, got, want)
		}
	}
}

func TestPageCrossPenalties(t *testing.T) {
	tests := []struct {
		name    string
		program []byte
		setup   func(*CPU)
		cycles  int64
	}{
		{
			name:    "LDA abs,X no cross",
			program: []byte{0xBD, 0x00, 0x02}, // LDA $0200,X
			setup:   func(c *CPU) { c.X = 0x10 },
			cycles:  4,
		},
		{
			name:    "LDA abs,X cross",
			program: []byte{0xBD, 0xF8, 0x02}, // LDA $02F8,X
			setup:   func(c *CPU) { c.X = 0x10 },
			cycles:  5,
		},
		{
			name:    "LDA abs,Y cross",
			program: []byte{0xB9, 0xF8, 0x02}, // LDA $02F8,Y
			setup:   func(c *CPU) { c.Y = 0x10 },
			cycles:  5,
		},
		{
			name:    "LDA (zp),Y cross",
			program: []byte{0xB1, 0x10}, // LDA ($10),Y
			setup: func(c *CPU) {
				c.Write8(0x0010, 0xF8)
				c.Write8(0x0011, 0x02)
				c.Y = 0x10
			},
			cycles: 6,
		},
		{
			name:    "STA abs,X cross still 5",
			program: []byte{0x9D, 0xF8, 0x02}, // STA $02F8,X
			setup:   func(c *CPU) { c.X = 0x10 },
			cycles:  5,
		},
		{
			name:    "STA (zp),Y cross still 6",
			program: []byte{0x91, 0x10}, // STA ($10),Y
			setup: func(c *CPU) {
				c.Write8(0x0010, 0xF8)
				c.Write8(0x0011, 0x02)
				c.Y = 0x10
			},
			cycles: 6,
		},
		{
			name:    "INC abs,X cross still 7",
			program: []byte{0xFE, 0xF8, 0x02}, // INC $02F8,X
			setup:   func(c *CPU) { c.X = 0x10 },
			cycles:  7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpu := newTestCPU(t, 0xC000, tt.program)
			tt.setup(cpu)
			if got := cpu.Step(); got != tt.cycles {
				t.Errorf("cycles = %d, want %d", got, tt.cycles)
			}
		})
	}
}

func TestBranchPenalties(t *testing.T) {
	// Not taken: 2 cycles.
	cpu := newTestCPU(t, 0xC010, []byte{0xD0, 0x10}) // BNE +16
	cpu.P.setBit(pbitZ)
	if got := cpu.Step(); got != 2 {
		t.Errorf("not taken: cycles = %d, want 2", got)
	}

	// Taken, same page: 3 cycles.
	cpu = newTestCPU(t, 0xC010, []byte{0xD0, 0x10})
	cpu.P.clearBit(pbitZ)
	if got := cpu.Step(); got != 3 {
		t.Errorf("taken: cycles = %d, want 3", got)
	}
	if cpu.PC != 0xC022 {
		t.Errorf("PC = $%04X, want $C022", cpu.PC)
	}

	// Taken, page crossed: 4 cycles.
	cpu = newTestCPU(t, 0xC0F0, []byte{0xD0, 0x20}) // BNE +32, crosses into $C1xx
	cpu.P.clearBit(pbitZ)
	if got := cpu.Step(); got != 4 {
		t.Errorf("taken cross: cycles = %d, want 4", got)
	}
	if cpu.PC != 0xC112 {
		t.Errorf("PC = $%04X, want $C112", cpu.PC)
	}

	// Backwards branch.
	cpu = newTestCPU(t, 0xC010, []byte{0xD0, 0xFC}) // BNE -4
	cpu.P.clearBit(pbitZ)
	cpu.Step()
	if cpu.PC != 0xC00E {
		t.Errorf("PC = $%04X, want $C00E", cpu.PC)
	}
}

func TestRMWWritesBack(t *testing.T) {
	cpu := newTestCPU(t, 0xC000, []byte{0xE6, 0x42}) // INC $42
	cpu.Write8(0x0042, 0x7F)
	cpu.Step()

	if got := cpu.Read8(0x0042); got != 0x80 {
		t.Errorf("$0042 = $%02X, want $80", got)
	}
	if !cpu.P.N() {
		t.Error("N = 0, want 1")
	}

	cpu = newTestCPU(t, 0xC000, []byte{0x06, 0x42}) // ASL $42
	cpu.Write8(0x0042, 0x81)
	cpu.Step()

	if got := cpu.Read8(0x0042); got != 0x02 {
		t.Errorf("$0042 = $%02X, want $02", got)
	}
	if !cpu.P.C() {
		t.Error("C = 0, want 1")
	}
}

func TestBIT(t *testing.T) {
	cpu := newTestCPU(t, 0xC000, []byte{0x24, 0x42}) // BIT $42
	cpu.Write8(0x0042, 0xC0)
	cpu.A = 0x3F
	cpu.Step()

	if !cpu.P.N() || !cpu.P.V() {
		t.Error("BIT must copy bits 7 and 6 into N and V")
	}
	if !cpu.P.Z() {
		t.Error("Z = 0, want 1 (A & M == 0)")
	}
}

func TestCompareSetsCarry(t *testing.T) {
	cpu := newTestCPU(t, 0xC000, []byte{0xC9, 0x10}) // CMP #$10
	cpu.A = 0x10
	cpu.Step()

	if !cpu.P.C() || !cpu.P.Z() {
		t.Error("CMP equal: want C=1 Z=1")
	}

	cpu = newTestCPU(t, 0xC000, []byte{0xC9, 0x20})
	cpu.A = 0x10
	cpu.Step()

	if cpu.P.C() || cpu.P.Z() {
		t.Error("CMP less: want C=0 Z=0")
	}
}

// TestStatusAfterOpRoundTrip: for a sample of opcodes, pushing then pulling
// the status register preserves it (modulo Break, which is transient).
func TestStatusAfterOpRoundTrip(t *testing.T) {
	sample := []byte{0x69, 0x29, 0x49, 0xC9, 0xE9, 0x0A, 0x4A, 0x2A, 0x6A}
	for _, op := range sample {
		program := []byte{op, 0x55, 0x08, 0x28} // op #$55, PHP, PLP
		if op&0x0F == 0x0A {
			program = []byte{op, 0x08, 0x28} // op A (1 byte), PHP, PLP
		}
		cpu := newTestCPU(t, 0xC000, program)
		cpu.A = 0xA5
		cpu.Step()
		want := cpu.P
		cpu.Step() // PHP
		cpu.Step() // PLP
		if cpu.P != want {
			t.Errorf("opcode %02X: P = %s, want %s after PHP/PLP", op, cpu.P, want)
		}
	}
}
