package hw

import (
	"famiko/emu/log"
	"famiko/hw/hwio"
)

// DMA handles the OAM DMA transfer of sprite attributes to the PPU. A write
// to $4014 copies one page into OAM through the bus and stalls the CPU for
// 513 cycles, 514 when the write lands on an odd cycle.
type DMA struct {
	cpu *CPU

	OAMDMA hwio.Reg8 `hwio:"offset=0x00,writeonly,wcb"`
}

func (dma *DMA) InitBus(cpu *CPU) {
	hwio.MustInitRegs(dma)
	dma.cpu = cpu
}

func (dma *DMA) reset() {
	dma.OAMDMA.Value = 0
}

func (dma *DMA) WriteOAMDMA(_, val uint8) {
	log.ModDMA.DebugZ("OAM DMA transfer").Hex8("page", val).End()

	page := uint16(val) << 8
	for i := uint16(0); i < 256; i++ {
		b := dma.cpu.Bus.Read8(page+i, false)
		dma.cpu.Bus.Write8(0x2004, b)
	}

	stall := int64(513)
	if dma.cpu.Cycles&1 != 0 {
		stall++
	}
	dma.cpu.AddStall(stall)
}
