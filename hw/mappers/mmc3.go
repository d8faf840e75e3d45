package mappers

import (
	"famiko/hw/hwdefs"
	"famiko/ines"
)

var MMC3 = MapperDesc{
	Name: "MMC3",
	Load: loadMMC3,
}

type mmc3 struct {
	*base

	bankSelect uint8
	bankRegs   [8]uint8

	prgMode uint8
	chrMode uint8

	irqLatch   uint8
	irqCounter uint8
	irqReload  bool
	irqEnabled bool
}

func (m *mmc3) WritePRGROM(addr uint16, val uint8) {
	even := addr&1 == 0
	switch {
	case addr < 0xA000:
		if even { // $8000: bank select
			m.bankSelect = val & 0x07
			m.prgMode = (val >> 6) & 1
			m.chrMode = (val >> 7) & 1
		} else { // $8001: bank data
			m.bankRegs[m.bankSelect] = val
		}
		m.updateBanks()

	case addr < 0xC000:
		if even { // $A000: mirroring
			if m.rom.Mirroring() != ines.FourScreen {
				if val&1 == 0 {
					m.setNTMirroring(ines.VertMirroring)
				} else {
					m.setNTMirroring(ines.HorzMirroring)
				}
			}
		}
		// $A001: PRG RAM protect, not emulated.

	case addr < 0xE000:
		if even { // $C000: IRQ latch
			m.irqLatch = val
		} else { // $C001: IRQ reload
			m.irqCounter = 0
			m.irqReload = true
		}

	default:
		if even { // $E000: IRQ disable (and acknowledge)
			m.irqEnabled = false
			m.cpu.ClearIRQSource(hwdefs.External)
		} else { // $E001: IRQ enable
			m.irqEnabled = true
		}
	}
}

func (m *mmc3) updateBanks() {
	// PRG: $A000 always holds R7, $E000 the last bank. R6 and the
	// second-to-last bank swap between $8000 and $C000 with the mode bit.
	switch m.prgMode {
	case 0:
		m.selectPRGPage8KB(0, int(m.bankRegs[6]), m.WritePRGROM)
		m.selectPRGPage8KB(1, int(m.bankRegs[7]), m.WritePRGROM)
		m.selectPRGPage8KB(2, -2, m.WritePRGROM)
		m.selectPRGPage8KB(3, -1, m.WritePRGROM)
	case 1:
		m.selectPRGPage8KB(0, -2, m.WritePRGROM)
		m.selectPRGPage8KB(1, int(m.bankRegs[7]), m.WritePRGROM)
		m.selectPRGPage8KB(2, int(m.bankRegs[6]), m.WritePRGROM)
		m.selectPRGPage8KB(3, -1, m.WritePRGROM)
	}

	// CHR: two 2 KiB banks and four 1 KiB banks, halves swapped by the mode
	// bit.
	r0, r1 := int(m.bankRegs[0]&0xFE), int(m.bankRegs[1]&0xFE)
	switch m.chrMode {
	case 0:
		m.selectCHRPage2KB(0, r0>>1)
		m.selectCHRPage2KB(1, r1>>1)
		m.selectCHRPage1KB(4, int(m.bankRegs[2]))
		m.selectCHRPage1KB(5, int(m.bankRegs[3]))
		m.selectCHRPage1KB(6, int(m.bankRegs[4]))
		m.selectCHRPage1KB(7, int(m.bankRegs[5]))
	case 1:
		m.selectCHRPage1KB(0, int(m.bankRegs[2]))
		m.selectCHRPage1KB(1, int(m.bankRegs[3]))
		m.selectCHRPage1KB(2, int(m.bankRegs[4]))
		m.selectCHRPage1KB(3, int(m.bankRegs[5]))
		m.selectCHRPage2KB(2, r0>>1)
		m.selectCHRPage2KB(3, r1>>1)
	}
}

// clockScanline is the A12 rising edge approximation: the PPU calls it at dot
// 260 of every rendering-enabled visible or pre-render scanline.
func (m *mmc3) clockScanline() {
	if m.irqCounter == 0 || m.irqReload {
		m.irqCounter = m.irqLatch
		m.irqReload = false
	} else {
		m.irqCounter--
	}

	if m.irqCounter == 0 && m.irqEnabled {
		modMapper.DebugZ("MMC3 IRQ").End()
		m.cpu.SetIRQSource(hwdefs.External)
	}
}

func loadMMC3(b *base) error {
	mmc3 := &mmc3{base: b}

	b.setNTMirroring(b.rom.Mirroring())
	mmc3.updateBanks()
	b.ppu.SetScanlineHook(mmc3.clockScanline)
	return nil
}
