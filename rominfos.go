package main

import (
	"fmt"
	"os"

	"github.com/go-faster/jx"

	"famiko/ines"
)

func romInfos(path string, asJSON bool) {
	rom, err := ines.Open(path)
	checkf(err, "failed to read %s", path)

	if !asJSON {
		fmt.Printf("PRG ROM:   %d KiB\n", len(rom.PRGROM)/1024)
		if rom.HasCHRRAM() {
			fmt.Printf("CHR RAM:   8 KiB\n")
		} else {
			fmt.Printf("CHR ROM:   %d KiB\n", len(rom.CHRROM)/1024)
		}
		fmt.Printf("Mapper:    %d\n", rom.Mapper())
		fmt.Printf("Mirroring: %s\n", rom.Mirroring())
		fmt.Printf("Battery:   %t\n", rom.HasBattery())
		fmt.Printf("Trainer:   %t\n", rom.HasTrainer())
		return
	}

	var e jx.Encoder
	e.SetIdent(2)
	e.Obj(func(e *jx.Encoder) {
		e.Field("prg_rom_size", func(e *jx.Encoder) { e.Int(len(rom.PRGROM)) })
		e.Field("chr_rom_size", func(e *jx.Encoder) { e.Int(len(rom.CHRROM)) })
		e.Field("chr_ram", func(e *jx.Encoder) { e.Bool(rom.HasCHRRAM()) })
		e.Field("mapper", func(e *jx.Encoder) { e.Int(int(rom.Mapper())) })
		e.Field("mirroring", func(e *jx.Encoder) { e.Str(rom.Mirroring().String()) })
		e.Field("battery", func(e *jx.Encoder) { e.Bool(rom.HasBattery()) })
		e.Field("trainer", func(e *jx.Encoder) { e.Bool(rom.HasTrainer()) })
	})
	fmt.Fprintln(os.Stdout, e.String())
}
