package mappers

var UxROM = MapperDesc{
	Name: "UxROM",
	Load: loadUxROM,
}

type uxrom struct {
	*base

	prgbank  uint32
	bankmask uint8
}

func (m *uxrom) WritePRGROM(addr uint16, val uint8) {
	// 7  bit  0
	// ---- ----
	// xxxx pPPP
	//      ||||
	//      ++++- Select 16 KB PRG ROM bank for CPU $8000-$BFFF
	//            (UNROM uses bits 2-0; UOROM uses bits 3-0)
	prev := m.prgbank
	m.prgbank = uint32(val & m.bankmask)
	if prev != m.prgbank {
		m.selectPRGPage16KB(0, int(m.prgbank), m.WritePRGROM)
	}
}

func loadUxROM(b *base) error {
	uxrom := &uxrom{
		base:     b,
		bankmask: uint8(len(b.rom.PRGROM)>>14) - 1,
	}

	b.setNTMirroring(b.rom.Mirroring())
	b.selectCHRPage8KB(0)
	b.selectPRGPage16KB(0, 0, uxrom.WritePRGROM)
	b.selectPRGPage16KB(1, -1, uxrom.WritePRGROM)
	return nil
}
