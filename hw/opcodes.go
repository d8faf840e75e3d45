package hw

// ops maps each opcode to its implementation. Only the 56 documented 6502
// instructions are populated; executing any other encoding halts the CPU.
var ops = [256]func(*CPU){
	0x00: BRK,
	0x01: ORAizx,
	0x05: ORAzp,
	0x06: ASLzp,
	0x08: PHP,
	0x09: ORAimm,
	0x0A: ASLacc,
	0x0D: ORAabs,
	0x0E: ASLabs,
	0x10: BPL,
	0x11: ORAizy,
	0x15: ORAzpx,
	0x16: ASLzpx,
	0x18: CLC,
	0x19: ORAaby,
	0x1D: ORAabx,
	0x1E: ASLabx,
	0x20: JSR,
	0x21: ANDizx,
	0x24: BITzp,
	0x25: ANDzp,
	0x26: ROLzp,
	0x28: PLP,
	0x29: ANDimm,
	0x2A: ROLacc,
	0x2C: BITabs,
	0x2D: ANDabs,
	0x2E: ROLabs,
	0x30: BMI,
	0x31: ANDizy,
	0x35: ANDzpx,
	0x36: ROLzpx,
	0x38: SEC,
	0x39: ANDaby,
	0x3D: ANDabx,
	0x3E: ROLabx,
	0x40: RTI,
	0x41: EORizx,
	0x45: EORzp,
	0x46: LSRzp,
	0x48: PHA,
	0x49: EORimm,
	0x4A: LSRacc,
	0x4C: JMPabs,
	0x4D: EORabs,
	0x4E: LSRabs,
	0x50: BVC,
	0x51: EORizy,
	0x55: EORzpx,
	0x56: LSRzpx,
	0x58: CLI,
	0x59: EORaby,
	0x5D: EORabx,
	0x5E: LSRabx,
	0x60: RTS,
	0x61: ADCizx,
	0x65: ADCzp,
	0x66: RORzp,
	0x68: PLA,
	0x69: ADCimm,
	0x6A: RORacc,
	0x6C: JMPind,
	0x6D: ADCabs,
	0x6E: RORabs,
	0x70: BVS,
	0x71: ADCizy,
	0x75: ADCzpx,
	0x76: RORzpx,
	0x78: SEI,
	0x79: ADCaby,
	0x7D: ADCabx,
	0x7E: RORabx,
	0x81: STAizx,
	0x84: STYzp,
	0x85: STAzp,
	0x86: STXzp,
	0x88: DEY,
	0x8A: TXA,
	0x8C: STYabs,
	0x8D: STAabs,
	0x8E: STXabs,
	0x90: BCC,
	0x91: STAizy,
	0x94: STYzpx,
	0x95: STAzpx,
	0x96: STXzpy,
	0x98: TYA,
	0x99: STAaby,
	0x9A: TXS,
	0x9D: STAabx,
	0xA0: LDYimm,
	0xA1: LDAizx,
	0xA2: LDXimm,
	0xA4: LDYzp,
	0xA5: LDAzp,
	0xA6: LDXzp,
	0xA8: TAY,
	0xA9: LDAimm,
	0xAA: TAX,
	0xAC: LDYabs,
	0xAD: LDAabs,
	0xAE: LDXabs,
	0xB0: BCS,
	0xB1: LDAizy,
	0xB4: LDYzpx,
	0xB5: LDAzpx,
	0xB6: LDXzpy,
	0xB8: CLV,
	0xB9: LDAaby,
	0xBA: TSX,
	0xBC: LDYabx,
	0xBD: LDAabx,
	0xBE: LDXaby,
	0xC0: CPYimm,
	0xC1: CMPizx,
	0xC4: CPYzp,
	0xC5: CMPzp,
	0xC6: DECzp,
	0xC8: INY,
	0xC9: CMPimm,
	0xCA: DEX,
	0xCC: CPYabs,
	0xCD: CMPabs,
	0xCE: DECabs,
	0xD0: BNE,
	0xD1: CMPizy,
	0xD5: CMPzpx,
	0xD6: DECzpx,
	0xD8: CLD,
	0xD9: CMPaby,
	0xDD: CMPabx,
	0xDE: DECabx,
	0xE0: CPXimm,
	0xE1: SBCizx,
	0xE4: CPXzp,
	0xE5: SBCzp,
	0xE6: INCzp,
	0xE8: INX,
	0xE9: SBCimm,
	0xEA: NOP,
	0xEC: CPXabs,
	0xED: SBCabs,
	0xEE: INCabs,
	0xF0: BEQ,
	0xF1: SBCizy,
	0xF5: SBCzpx,
	0xF6: INCzpx,
	0xF8: SED,
	0xF9: SBCaby,
	0xFD: SBCabx,
	0xFE: INCabx,
}

// opcycles gives the base cycle cost of each opcode. Page-crossing reads and
// taken branches add their penalty on top; write and read-modify-write
// variants already include the dummy read in their base cost.
var opcycles = [256]uint8{
	0x00: 7, 0x01: 6, 0x05: 3, 0x06: 5, 0x08: 3, 0x09: 2, 0x0A: 2, 0x0D: 4, 0x0E: 6,
	0x10: 2, 0x11: 5, 0x15: 4, 0x16: 6, 0x18: 2, 0x19: 4, 0x1D: 4, 0x1E: 7,
	0x20: 6, 0x21: 6, 0x24: 3, 0x25: 3, 0x26: 5, 0x28: 4, 0x29: 2, 0x2A: 2, 0x2C: 4, 0x2D: 4, 0x2E: 6,
	0x30: 2, 0x31: 5, 0x35: 4, 0x36: 6, 0x38: 2, 0x39: 4, 0x3D: 4, 0x3E: 7,
	0x40: 6, 0x41: 6, 0x45: 3, 0x46: 5, 0x48: 3, 0x49: 2, 0x4A: 2, 0x4C: 3, 0x4D: 4, 0x4E: 6,
	0x50: 2, 0x51: 5, 0x55: 4, 0x56: 6, 0x58: 2, 0x59: 4, 0x5D: 4, 0x5E: 7,
	0x60: 6, 0x61: 6, 0x65: 3, 0x66: 5, 0x68: 4, 0x69: 2, 0x6A: 2, 0x6C: 5, 0x6D: 4, 0x6E: 6,
	0x70: 2, 0x71: 5, 0x75: 4, 0x76: 6, 0x78: 2, 0x79: 4, 0x7D: 4, 0x7E: 7,
	0x81: 6, 0x84: 3, 0x85: 3, 0x86: 3, 0x88: 2, 0x8A: 2, 0x8C: 4, 0x8D: 4, 0x8E: 4,
	0x90: 2, 0x91: 6, 0x94: 4, 0x95: 4, 0x96: 4, 0x98: 2, 0x99: 5, 0x9A: 2, 0x9D: 5,
	0xA0: 2, 0xA1: 6, 0xA2: 2, 0xA4: 3, 0xA5: 3, 0xA6: 3, 0xA8: 2, 0xA9: 2, 0xAA: 2, 0xAC: 4, 0xAD: 4, 0xAE: 4,
	0xB0: 2, 0xB1: 5, 0xB4: 4, 0xB5: 4, 0xB6: 4, 0xB8: 2, 0xB9: 4, 0xBA: 2, 0xBC: 4, 0xBD: 4, 0xBE: 4,
	0xC0: 2, 0xC1: 6, 0xC4: 3, 0xC5: 3, 0xC6: 5, 0xC8: 2, 0xC9: 2, 0xCA: 2, 0xCC: 4, 0xCD: 4, 0xCE: 6,
	0xD0: 2, 0xD1: 5, 0xD5: 4, 0xD6: 6, 0xD8: 2, 0xD9: 4, 0xDD: 4, 0xDE: 7,
	0xE0: 2, 0xE1: 6, 0xE4: 3, 0xE5: 3, 0xE6: 5, 0xE8: 2, 0xE9: 2, 0xEA: 2, 0xEC: 4, 0xED: 4, 0xEE: 6,
	0xF0: 2, 0xF1: 5, 0xF5: 4, 0xF6: 6, 0xF8: 2, 0xF9: 4, 0xFD: 4, 0xFE: 7,
}

// 00
func BRK(cpu *CPU) {
	cpu.push16(cpu.PC + 2)
	p := cpu.P
	p.setBit(pbitB)
	p.setBit(pbitU)
	cpu.push8(uint8(p))
	cpu.P.setBit(pbitI)
	cpu.PC = cpu.Read16(IRQVector)
}

// 01
func ORAizx(cpu *CPU) {
	oper := cpu.izx()
	ora(cpu, cpu.Read8(oper))
	cpu.PC += 2
}

// 05
func ORAzp(cpu *CPU) {
	oper := cpu.zp()
	ora(cpu, cpu.Read8(uint16(oper)))
	cpu.PC += 2
}

// 06
func ASLzp(cpu *CPU) {
	oper := cpu.zp()
	val := cpu.Read8(uint16(oper))
	asl(cpu, &val)
	cpu.Write8(uint16(oper), val)
	cpu.PC += 2
}

// 08
func PHP(cpu *CPU) {
	p := cpu.P
	p.setBit(pbitB)
	p.setBit(pbitU)
	cpu.push8(uint8(p))
	cpu.PC += 1
}

// 09
func ORAimm(cpu *CPU) {
	ora(cpu, cpu.imm())
	cpu.PC += 2
}

// 0A
func ASLacc(cpu *CPU) {
	asl(cpu, &cpu.A)
	cpu.PC += 1
}

// 0D
func ORAabs(cpu *CPU) {
	oper := cpu.abs()
	ora(cpu, cpu.Read8(oper))
	cpu.PC += 3
}

// 0E
func ASLabs(cpu *CPU) {
	oper := cpu.abs()
	val := cpu.Read8(oper)
	asl(cpu, &val)
	cpu.Write8(oper, val)
	cpu.PC += 3
}

// 10
func BPL(cpu *CPU) {
	branch(cpu, !cpu.P.N())
}

// 11
func ORAizy(cpu *CPU) {
	oper, crossed := cpu.izy()
	ora(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 2
}

// 15
func ORAzpx(cpu *CPU) {
	oper := cpu.zpx()
	ora(cpu, cpu.Read8(uint16(oper)))
	cpu.PC += 2
}

// 16
func ASLzpx(cpu *CPU) {
	oper := cpu.zpx()
	val := cpu.Read8(uint16(oper))
	asl(cpu, &val)
	cpu.Write8(uint16(oper), val)
	cpu.PC += 2
}

// 18
func CLC(cpu *CPU) {
	cpu.P.clearBit(pbitC)
	cpu.PC += 1
}

// 19
func ORAaby(cpu *CPU) {
	oper, crossed := cpu.aby()
	ora(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 3
}

// 1D
func ORAabx(cpu *CPU) {
	oper, crossed := cpu.abx()
	ora(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 3
}

// 1E
func ASLabx(cpu *CPU) {
	oper, _ := cpu.abx()
	val := cpu.Read8(oper)
	asl(cpu, &val)
	cpu.Write8(oper, val)
	cpu.PC += 3
}

// 20
func JSR(cpu *CPU) {
	oper := cpu.Read16(cpu.PC + 1)
	cpu.push16(cpu.PC + 2)
	cpu.PC = oper
}

// 21
func ANDizx(cpu *CPU) {
	oper := cpu.izx()
	and(cpu, cpu.Read8(oper))
	cpu.PC += 2
}

// 24
func BITzp(cpu *CPU) {
	oper := cpu.zp()
	bit(cpu, cpu.Read8(uint16(oper)))
	cpu.PC += 2
}

// 25
func ANDzp(cpu *CPU) {
	oper := cpu.zp()
	and(cpu, cpu.Read8(uint16(oper)))
	cpu.PC += 2
}

// 26
func ROLzp(cpu *CPU) {
	oper := cpu.zp()
	val := cpu.Read8(uint16(oper))
	rol(cpu, &val)
	cpu.Write8(uint16(oper), val)
	cpu.PC += 2
}

// 28
func PLP(cpu *CPU) {
	plp(cpu, cpu.pull8())
	cpu.PC += 1
}

// 29
func ANDimm(cpu *CPU) {
	and(cpu, cpu.imm())
	cpu.PC += 2
}

// 2A
func ROLacc(cpu *CPU) {
	rol(cpu, &cpu.A)
	cpu.PC += 1
}

// 2C
func BITabs(cpu *CPU) {
	oper := cpu.abs()
	bit(cpu, cpu.Read8(oper))
	cpu.PC += 3
}

// 2D
func ANDabs(cpu *CPU) {
	oper := cpu.abs()
	and(cpu, cpu.Read8(oper))
	cpu.PC += 3
}

// 2E
func ROLabs(cpu *CPU) {
	oper := cpu.abs()
	val := cpu.Read8(oper)
	rol(cpu, &val)
	cpu.Write8(oper, val)
	cpu.PC += 3
}

// 30
func BMI(cpu *CPU) {
	branch(cpu, cpu.P.N())
}

// 31
func ANDizy(cpu *CPU) {
	oper, crossed := cpu.izy()
	and(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 2
}

// 35
func ANDzpx(cpu *CPU) {
	oper := cpu.zpx()
	and(cpu, cpu.Read8(uint16(oper)))
	cpu.PC += 2
}

// 36
func ROLzpx(cpu *CPU) {
	oper := cpu.zpx()
	val := cpu.Read8(uint16(oper))
	rol(cpu, &val)
	cpu.Write8(uint16(oper), val)
	cpu.PC += 2
}

// 38
func SEC(cpu *CPU) {
	cpu.P.setBit(pbitC)
	cpu.PC += 1
}

// 39
func ANDaby(cpu *CPU) {
	oper, crossed := cpu.aby()
	and(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 3
}

// 3D
func ANDabx(cpu *CPU) {
	oper, crossed := cpu.abx()
	and(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 3
}

// 3E
func ROLabx(cpu *CPU) {
	oper, _ := cpu.abx()
	val := cpu.Read8(oper)
	rol(cpu, &val)
	cpu.Write8(oper, val)
	cpu.PC += 3
}

// 40
func RTI(cpu *CPU) {
	plp(cpu, cpu.pull8())
	cpu.PC = cpu.pull16()
}

// 41
func EORizx(cpu *CPU) {
	oper := cpu.izx()
	eor(cpu, cpu.Read8(oper))
	cpu.PC += 2
}

// 45
func EORzp(cpu *CPU) {
	oper := cpu.zp()
	eor(cpu, cpu.Read8(uint16(oper)))
	cpu.PC += 2
}

// 46
func LSRzp(cpu *CPU) {
	oper := cpu.zp()
	val := cpu.Read8(uint16(oper))
	lsr(cpu, &val)
	cpu.Write8(uint16(oper), val)
	cpu.PC += 2
}

// 48
func PHA(cpu *CPU) {
	cpu.push8(cpu.A)
	cpu.PC += 1
}

// 49
func EORimm(cpu *CPU) {
	eor(cpu, cpu.imm())
	cpu.PC += 2
}

// 4A
func LSRacc(cpu *CPU) {
	lsr(cpu, &cpu.A)
	cpu.PC += 1
}

// 4C
func JMPabs(cpu *CPU) {
	cpu.PC = cpu.abs()
}

// 4D
func EORabs(cpu *CPU) {
	oper := cpu.abs()
	eor(cpu, cpu.Read8(oper))
	cpu.PC += 3
}

// 4E
func LSRabs(cpu *CPU) {
	oper := cpu.abs()
	val := cpu.Read8(oper)
	lsr(cpu, &val)
	cpu.Write8(oper, val)
	cpu.PC += 3
}

// 50
func BVC(cpu *CPU) {
	branch(cpu, !cpu.P.V())
}

// 51
func EORizy(cpu *CPU) {
	oper, crossed := cpu.izy()
	eor(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 2
}

// 55
func EORzpx(cpu *CPU) {
	oper := cpu.zpx()
	eor(cpu, cpu.Read8(uint16(oper)))
	cpu.PC += 2
}

// 56
func LSRzpx(cpu *CPU) {
	oper := cpu.zpx()
	val := cpu.Read8(uint16(oper))
	lsr(cpu, &val)
	cpu.Write8(uint16(oper), val)
	cpu.PC += 2
}

// 58
func CLI(cpu *CPU) {
	cpu.P.clearBit(pbitI)
	cpu.PC += 1
}

// 59
func EORaby(cpu *CPU) {
	oper, crossed := cpu.aby()
	eor(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 3
}

// 5D
func EORabx(cpu *CPU) {
	oper, crossed := cpu.abx()
	eor(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 3
}

// 5E
func LSRabx(cpu *CPU) {
	oper, _ := cpu.abx()
	val := cpu.Read8(oper)
	lsr(cpu, &val)
	cpu.Write8(oper, val)
	cpu.PC += 3
}

// 60
func RTS(cpu *CPU) {
	cpu.PC = cpu.pull16() + 1
}

// 61
func ADCizx(cpu *CPU) {
	oper := cpu.izx()
	adc(cpu, cpu.Read8(oper))
	cpu.PC += 2
}

// 65
func ADCzp(cpu *CPU) {
	oper := cpu.zp()
	adc(cpu, cpu.Read8(uint16(oper)))
	cpu.PC += 2
}

// 66
func RORzp(cpu *CPU) {
	oper := cpu.zp()
	val := cpu.Read8(uint16(oper))
	ror(cpu, &val)
	cpu.Write8(uint16(oper), val)
	cpu.PC += 2
}

// 68
func PLA(cpu *CPU) {
	cpu.A = cpu.pull8()
	cpu.P.checkNZ(cpu.A)
	cpu.PC += 1
}

// 69
func ADCimm(cpu *CPU) {
	adc(cpu, cpu.imm())
	cpu.PC += 2
}

// 6A
func RORacc(cpu *CPU) {
	ror(cpu, &cpu.A)
	cpu.PC += 1
}

// 6C
func JMPind(cpu *CPU) {
	cpu.PC = cpu.ind()
}

// 6D
func ADCabs(cpu *CPU) {
	oper := cpu.abs()
	adc(cpu, cpu.Read8(oper))
	cpu.PC += 3
}

// 6E
func RORabs(cpu *CPU) {
	oper := cpu.abs()
	val := cpu.Read8(oper)
	ror(cpu, &val)
	cpu.Write8(oper, val)
	cpu.PC += 3
}

// 70
func BVS(cpu *CPU) {
	branch(cpu, cpu.P.V())
}

// 71
func ADCizy(cpu *CPU) {
	oper, crossed := cpu.izy()
	adc(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 2
}

// 75
func ADCzpx(cpu *CPU) {
	oper := cpu.zpx()
	adc(cpu, cpu.Read8(uint16(oper)))
	cpu.PC += 2
}

// 76
func RORzpx(cpu *CPU) {
	oper := cpu.zpx()
	val := cpu.Read8(uint16(oper))
	ror(cpu, &val)
	cpu.Write8(uint16(oper), val)
	cpu.PC += 2
}

// 78
func SEI(cpu *CPU) {
	cpu.P.setBit(pbitI)
	cpu.PC += 1
}

// 79
func ADCaby(cpu *CPU) {
	oper, crossed := cpu.aby()
	adc(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 3
}

// 7D
func ADCabx(cpu *CPU) {
	oper, crossed := cpu.abx()
	adc(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 3
}

// 7E
func RORabx(cpu *CPU) {
	oper, _ := cpu.abx()
	val := cpu.Read8(oper)
	ror(cpu, &val)
	cpu.Write8(oper, val)
	cpu.PC += 3
}

// 81
func STAizx(cpu *CPU) {
	addr := cpu.izx()
	cpu.Write8(addr, cpu.A)
	cpu.PC += 2
}

// 84
func STYzp(cpu *CPU) {
	oper := cpu.zp()
	cpu.Write8(uint16(oper), cpu.Y)
	cpu.PC += 2
}

// 85
func STAzp(cpu *CPU) {
	oper := cpu.zp()
	cpu.Write8(uint16(oper), cpu.A)
	cpu.PC += 2
}

// 86
func STXzp(cpu *CPU) {
	oper := cpu.zp()
	cpu.Write8(uint16(oper), cpu.X)
	cpu.PC += 2
}

// 88
func DEY(cpu *CPU) {
	cpu.Y--
	cpu.P.checkNZ(cpu.Y)
	cpu.PC += 1
}

// 8A
func TXA(cpu *CPU) {
	cpu.A = cpu.X
	cpu.P.checkNZ(cpu.A)
	cpu.PC += 1
}

// 8C
func STYabs(cpu *CPU) {
	oper := cpu.abs()
	cpu.Write8(oper, cpu.Y)
	cpu.PC += 3
}

// 8D
func STAabs(cpu *CPU) {
	oper := cpu.abs()
	cpu.Write8(oper, cpu.A)
	cpu.PC += 3
}

// 8E
func STXabs(cpu *CPU) {
	oper := cpu.abs()
	cpu.Write8(oper, cpu.X)
	cpu.PC += 3
}

// 90
func BCC(cpu *CPU) {
	branch(cpu, !cpu.P.C())
}

// 91
func STAizy(cpu *CPU) {
	addr, _ := cpu.izy()
	cpu.Write8(addr, cpu.A)
	cpu.PC += 2
}

// 94
func STYzpx(cpu *CPU) {
	oper := cpu.zpx()
	cpu.Write8(uint16(oper), cpu.Y)
	cpu.PC += 2
}

// 95
func STAzpx(cpu *CPU) {
	oper := cpu.zpx()
	cpu.Write8(uint16(oper), cpu.A)
	cpu.PC += 2
}

// 96
func STXzpy(cpu *CPU) {
	oper := cpu.zpy()
	cpu.Write8(uint16(oper), cpu.X)
	cpu.PC += 2
}

// 98
func TYA(cpu *CPU) {
	cpu.A = cpu.Y
	cpu.P.checkNZ(cpu.A)
	cpu.PC += 1
}

// 99
func STAaby(cpu *CPU) {
	addr, _ := cpu.aby()
	cpu.Write8(addr, cpu.A)
	cpu.PC += 3
}

// 9A
func TXS(cpu *CPU) {
	cpu.SP = cpu.X
	cpu.PC += 1
}

// 9D
func STAabx(cpu *CPU) {
	addr, _ := cpu.abx()
	cpu.Write8(addr, cpu.A)
	cpu.PC += 3
}

// A0
func LDYimm(cpu *CPU) {
	ldy(cpu, cpu.imm())
	cpu.PC += 2
}

// A1
func LDAizx(cpu *CPU) {
	oper := cpu.izx()
	lda(cpu, cpu.Read8(oper))
	cpu.PC += 2
}

// A2
func LDXimm(cpu *CPU) {
	ldx(cpu, cpu.imm())
	cpu.PC += 2
}

// A4
func LDYzp(cpu *CPU) {
	oper := cpu.zp()
	ldy(cpu, cpu.Read8(uint16(oper)))
	cpu.PC += 2
}

// A5
func LDAzp(cpu *CPU) {
	oper := cpu.zp()
	lda(cpu, cpu.Read8(uint16(oper)))
	cpu.PC += 2
}

// A6
func LDXzp(cpu *CPU) {
	oper := cpu.zp()
	ldx(cpu, cpu.Read8(uint16(oper)))
	cpu.PC += 2
}

// A8
func TAY(cpu *CPU) {
	cpu.Y = cpu.A
	cpu.P.checkNZ(cpu.Y)
	cpu.PC += 1
}

// A9
func LDAimm(cpu *CPU) {
	lda(cpu, cpu.imm())
	cpu.PC += 2
}

// AA
func TAX(cpu *CPU) {
	cpu.X = cpu.A
	cpu.P.checkNZ(cpu.X)
	cpu.PC += 1
}

// AC
func LDYabs(cpu *CPU) {
	oper := cpu.abs()
	ldy(cpu, cpu.Read8(oper))
	cpu.PC += 3
}

// AD
func LDAabs(cpu *CPU) {
	oper := cpu.abs()
	lda(cpu, cpu.Read8(oper))
	cpu.PC += 3
}

// AE
func LDXabs(cpu *CPU) {
	oper := cpu.abs()
	ldx(cpu, cpu.Read8(oper))
	cpu.PC += 3
}

// B0
func BCS(cpu *CPU) {
	branch(cpu, cpu.P.C())
}

// B1
func LDAizy(cpu *CPU) {
	oper, crossed := cpu.izy()
	lda(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 2
}

// B4
func LDYzpx(cpu *CPU) {
	oper := cpu.zpx()
	ldy(cpu, cpu.Read8(uint16(oper)))
	cpu.PC += 2
}

// B5
func LDAzpx(cpu *CPU) {
	oper := cpu.zpx()
	lda(cpu, cpu.Read8(uint16(oper)))
	cpu.PC += 2
}

// B6
func LDXzpy(cpu *CPU) {
	oper := cpu.zpy()
	ldx(cpu, cpu.Read8(uint16(oper)))
	cpu.PC += 2
}

// B8
func CLV(cpu *CPU) {
	cpu.P.clearBit(pbitV)
	cpu.PC += 1
}

// B9
func LDAaby(cpu *CPU) {
	oper, crossed := cpu.aby()
	lda(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 3
}

// BA
func TSX(cpu *CPU) {
	cpu.X = cpu.SP
	cpu.P.checkNZ(cpu.X)
	cpu.PC += 1
}

// BC
func LDYabx(cpu *CPU) {
	oper, crossed := cpu.abx()
	ldy(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 3
}

// BD
func LDAabx(cpu *CPU) {
	oper, crossed := cpu.abx()
	lda(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 3
}

// BE
func LDXaby(cpu *CPU) {
	oper, crossed := cpu.aby()
	ldx(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 3
}

// C0
func CPYimm(cpu *CPU) {
	cpy(cpu, cpu.imm())
	cpu.PC += 2
}

// C1
func CMPizx(cpu *CPU) {
	oper := cpu.izx()
	compare(cpu, cpu.Read8(oper))
	cpu.PC += 2
}

// C4
func CPYzp(cpu *CPU) {
	oper := cpu.zp()
	cpy(cpu, cpu.Read8(uint16(oper)))
	cpu.PC += 2
}

// C5
func CMPzp(cpu *CPU) {
	oper := cpu.zp()
	compare(cpu, cpu.Read8(uint16(oper)))
	cpu.PC += 2
}

// C6
func DECzp(cpu *CPU) {
	oper := cpu.zp()
	val := cpu.Read8(uint16(oper)) - 1
	cpu.P.checkNZ(val)
	cpu.Write8(uint16(oper), val)
	cpu.PC += 2
}

// C8
func INY(cpu *CPU) {
	cpu.Y++
	cpu.P.checkNZ(cpu.Y)
	cpu.PC += 1
}

// C9
func CMPimm(cpu *CPU) {
	compare(cpu, cpu.imm())
	cpu.PC += 2
}

// CA
func DEX(cpu *CPU) {
	cpu.X--
	cpu.P.checkNZ(cpu.X)
	cpu.PC += 1
}

// CC
func CPYabs(cpu *CPU) {
	oper := cpu.abs()
	cpy(cpu, cpu.Read8(oper))
	cpu.PC += 3
}

// CD
func CMPabs(cpu *CPU) {
	oper := cpu.abs()
	compare(cpu, cpu.Read8(oper))
	cpu.PC += 3
}

// CE
func DECabs(cpu *CPU) {
	oper := cpu.abs()
	val := cpu.Read8(oper) - 1
	cpu.P.checkNZ(val)
	cpu.Write8(oper, val)
	cpu.PC += 3
}

// D0
func BNE(cpu *CPU) {
	branch(cpu, !cpu.P.Z())
}

// D1
func CMPizy(cpu *CPU) {
	oper, crossed := cpu.izy()
	compare(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 2
}

// D5
func CMPzpx(cpu *CPU) {
	oper := cpu.zpx()
	compare(cpu, cpu.Read8(uint16(oper)))
	cpu.PC += 2
}

// D6
func DECzpx(cpu *CPU) {
	oper := cpu.zpx()
	val := cpu.Read8(uint16(oper)) - 1
	cpu.P.checkNZ(val)
	cpu.Write8(uint16(oper), val)
	cpu.PC += 2
}

// D8
func CLD(cpu *CPU) {
	cpu.P.clearBit(pbitD)
	cpu.PC += 1
}

// D9
func CMPaby(cpu *CPU) {
	oper, crossed := cpu.aby()
	compare(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 3
}

// DD
func CMPabx(cpu *CPU) {
	oper, crossed := cpu.abx()
	compare(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 3
}

// DE
func DECabx(cpu *CPU) {
	oper, _ := cpu.abx()
	val := cpu.Read8(oper) - 1
	cpu.P.checkNZ(val)
	cpu.Write8(oper, val)
	cpu.PC += 3
}

// E0
func CPXimm(cpu *CPU) {
	cpx(cpu, cpu.imm())
	cpu.PC += 2
}

// E1
func SBCizx(cpu *CPU) {
	oper := cpu.izx()
	sbc(cpu, cpu.Read8(oper))
	cpu.PC += 2
}

// E4
func CPXzp(cpu *CPU) {
	oper := cpu.zp()
	cpx(cpu, cpu.Read8(uint16(oper)))
	cpu.PC += 2
}

// E5
func SBCzp(cpu *CPU) {
	oper := cpu.zp()
	sbc(cpu, cpu.Read8(uint16(oper)))
	cpu.PC += 2
}

// E6
func INCzp(cpu *CPU) {
	oper := cpu.zp()
	val := cpu.Read8(uint16(oper)) + 1
	cpu.P.checkNZ(val)
	cpu.Write8(uint16(oper), val)
	cpu.PC += 2
}

// E8
func INX(cpu *CPU) {
	cpu.X++
	cpu.P.checkNZ(cpu.X)
	cpu.PC += 1
}

// E9
func SBCimm(cpu *CPU) {
	sbc(cpu, cpu.imm())
	cpu.PC += 2
}

// EA
func NOP(cpu *CPU) {
	cpu.PC += 1
}

// EC
func CPXabs(cpu *CPU) {
	oper := cpu.abs()
	cpx(cpu, cpu.Read8(oper))
	cpu.PC += 3
}

// ED
func SBCabs(cpu *CPU) {
	oper := cpu.abs()
	sbc(cpu, cpu.Read8(oper))
	cpu.PC += 3
}

// EE
func INCabs(cpu *CPU) {
	oper := cpu.abs()
	val := cpu.Read8(oper) + 1
	cpu.P.checkNZ(val)
	cpu.Write8(oper, val)
	cpu.PC += 3
}

// F0
func BEQ(cpu *CPU) {
	branch(cpu, cpu.P.Z())
}

// F1
func SBCizy(cpu *CPU) {
	oper, crossed := cpu.izy()
	sbc(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 2
}

// F5
func SBCzpx(cpu *CPU) {
	oper := cpu.zpx()
	sbc(cpu, cpu.Read8(uint16(oper)))
	cpu.PC += 2
}

// F6
func INCzpx(cpu *CPU) {
	oper := cpu.zpx()
	val := cpu.Read8(uint16(oper)) + 1
	cpu.P.checkNZ(val)
	cpu.Write8(uint16(oper), val)
	cpu.PC += 2
}

// F8
func SED(cpu *CPU) {
	cpu.P.setBit(pbitD)
	cpu.PC += 1
}

// F9
func SBCaby(cpu *CPU) {
	oper, crossed := cpu.aby()
	sbc(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 3
}

// FD
func SBCabx(cpu *CPU) {
	oper, crossed := cpu.abx()
	sbc(cpu, cpu.Read8(oper))
	cpu.penalty(crossed)
	cpu.PC += 3
}

// FE
func INCabx(cpu *CPU) {
	oper, _ := cpu.abx()
	val := cpu.Read8(oper) + 1
	cpu.P.checkNZ(val)
	cpu.Write8(oper, val)
	cpu.PC += 3
}

/* common instruction implementation */

// add memory to accumulator with carry.
func adc(cpu *CPU, val uint8) {
	carry := cpu.P.ibit(pbitC)
	sum := uint16(cpu.A) + uint16(val) + uint16(carry)

	cpu.P.checkCV(cpu.A, val, sum)
	cpu.A = uint8(sum)
	cpu.P.checkNZ(cpu.A)
}

// subtract memory from accumulator with borrow.
func sbc(cpu *CPU, val uint8) {
	adc(cpu, val^0xFF)
}

func and(cpu *CPU, val uint8) {
	cpu.A &= val
	cpu.P.checkNZ(cpu.A)
}

func ora(cpu *CPU, val uint8) {
	cpu.A |= val
	cpu.P.checkNZ(cpu.A)
}

func eor(cpu *CPU, val uint8) {
	cpu.A ^= val
	cpu.P.checkNZ(cpu.A)
}

// rotate one bit left.
func rol(cpu *CPU, val *uint8) {
	carry := *val & 0x80 // next carry is bit 7
	*val <<= 1
	if cpu.P.C() {
		*val |= 1 << 0
	}
	cpu.P.checkNZ(*val)
	cpu.P.writeBit(pbitC, carry != 0)
}

// rotate one bit right.
func ror(cpu *CPU, val *uint8) {
	carry := *val & 0x01 // next carry is bit 0
	*val >>= 1
	if cpu.P.C() {
		*val |= 1 << 7
	}
	cpu.P.checkNZ(*val)
	cpu.P.writeBit(pbitC, carry != 0)
}

// shift one bit left (memory or accumulator).
func asl(cpu *CPU, val *uint8) {
	carry := *val & 0x80
	*val <<= 1
	cpu.P.checkNZ(*val)
	cpu.P.writeBit(pbitC, carry != 0)
}

// shift one bit right (memory or accumulator).
func lsr(cpu *CPU, val *uint8) {
	carry := *val & 0x01
	*val >>= 1
	cpu.P.checkNZ(*val)
	cpu.P.writeBit(pbitC, carry != 0)
}

// test bits in memory with accumulator.
func bit(cpu *CPU, val uint8) {
	// Copy bits 7 and 6 (N and V).
	cpu.P &= 0b00111111
	cpu.P |= P(val & 0b11000000)
	cpu.P.checkZ(cpu.A & val)
}

func compare(cpu *CPU, val uint8) {
	cpu.P.checkNZ(cpu.A - val)
	cpu.P.writeBit(pbitC, val <= cpu.A)
}

func cpx(cpu *CPU, val uint8) {
	cpu.P.checkNZ(cpu.X - val)
	cpu.P.writeBit(pbitC, val <= cpu.X)
}

func cpy(cpu *CPU, val uint8) {
	cpu.P.checkNZ(cpu.Y - val)
	cpu.P.writeBit(pbitC, val <= cpu.Y)
}

func lda(cpu *CPU, val uint8) {
	cpu.A = val
	cpu.P.checkNZ(cpu.A)
}

func ldx(cpu *CPU, val uint8) {
	cpu.X = val
	cpu.P.checkNZ(cpu.X)
}

func ldy(cpu *CPU, val uint8) {
	cpu.Y = val
	cpu.P.checkNZ(cpu.Y)
}

// plp loads the status register from a value pulled off the stack. Break only
// exists in pushed copies and Unused always reads back as set.
func plp(cpu *CPU, val uint8) {
	cpu.P = P(val)
	cpu.P.clearBit(pbitB)
	cpu.P.setBit(pbitU)
}

// reladdr returns the destination address for a branch: the address past the
// instruction plus the signed offset at PC+1.
func reladdr(cpu *CPU) uint16 {
	off := int8(cpu.Read8(cpu.PC + 1))
	return uint16(int16(cpu.PC+2) + int16(off))
}

func branch(cpu *CPU, cond bool) {
	addr := reladdr(cpu)
	if cond {
		cpu.extra++
		if pagecrossed(cpu.PC+2, addr) {
			cpu.extra++
		}
		cpu.PC = addr
		return
	}
	cpu.PC += 2
}
