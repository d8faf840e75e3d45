package mappers

import (
	"errors"
	"fmt"

	"famiko/emu/log"
	"famiko/hw"
	"famiko/ines"
)

var modMapper = log.NewModule("mapper")

// ErrUnsupportedMapper is returned (wrapped) when a rom requires a mapper
// that is not implemented.
var ErrUnsupportedMapper = errors.New("unsupported mapper")

// Load instantiates the mapper required by the rom and wires it into the CPU
// and PPU buses.
func Load(rom *ines.Rom, cpu *hw.CPU, ppu *hw.PPU) error {
	desc, ok := All[rom.Mapper()]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnsupportedMapper, rom.Mapper())
	}
	base, err := newbase(desc, rom, cpu, ppu)
	if err != nil {
		return fmt.Errorf("mapper initialization failed: %w", err)
	}
	if err := desc.Load(base); err != nil {
		return fmt.Errorf("failed to load mapper %s: %w", desc.Name, err)
	}

	log.ModEmu.InfoZ("mapper loaded").
		String("name", desc.Name).
		Int("prg", len(rom.PRGROM)).
		Int("chr", len(rom.CHRROM)).
		Stringer("mirroring", rom.Mirroring()).
		End()
	return nil
}

type MapperDesc struct {
	Name string
	Load func(*base) error
}

var All = map[uint16]MapperDesc{
	0: NROM,
	1: MMC1,
	2: UxROM,
	3: CNROM,
	4: MMC3,
}
