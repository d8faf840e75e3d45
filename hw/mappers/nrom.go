package mappers

var NROM = MapperDesc{
	Name: "NROM",
	Load: loadNROM,
}

func loadNROM(b *base) error {
	// No registers: writes to the ROM window are ignored.
	b.selectPRGPage32KB(0, nil)
	b.selectCHRPage8KB(0)
	b.setNTMirroring(b.rom.Mirroring())
	return nil
}
