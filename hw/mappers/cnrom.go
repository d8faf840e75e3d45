package mappers

var CNROM = MapperDesc{
	Name: "CNROM",
	Load: loadCNROM,
}

type cnrom struct {
	*base

	chrbank uint32
}

func (m *cnrom) WritePRGROM(addr uint16, val uint8) {
	// CNROM suffers from bus conflicts: the written value is ANDed with the
	// ROM byte at the same address.
	val &= m.cpu.Bus.Peek8(addr)

	prev := m.chrbank
	m.chrbank = uint32(val & 0x03)
	if prev != m.chrbank {
		m.selectCHRPage8KB(int(m.chrbank))
	}
}

func loadCNROM(b *base) error {
	cnrom := &cnrom{base: b}

	b.setNTMirroring(b.rom.Mirroring())
	b.selectCHRPage8KB(0)
	b.selectPRGPage32KB(0, cnrom.WritePRGROM)
	return nil
}
