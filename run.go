package main

import (
	"fmt"
	"hash/crc32"

	"famiko/emu"
	"famiko/ines"
)

func runRom(cli CLI) {
	rom, err := ines.Open(cli.Run.RomPath)
	checkf(err, "failed to read %s", cli.Run.RomPath)

	nes, err := emu.PowerUp(rom)
	checkf(err, "failed to power up %s", cli.Run.RomPath)

	if cli.Run.Trace != nil {
		nes.CPU.SetTraceOutput(cli.Run.Trace)
		defer func() {
			nes.CPU.FlushTrace()
			cli.Run.Trace.Close()
		}()
	}

	if cli.Run.Frames > 0 {
		runHeadless(nes, cli.Run.Frames, cli.Run.CRC)
		return
	}

	cfg := emu.LoadConfigOrDefault()
	if cli.Run.Scale > 0 {
		cfg.Video.Scale = cli.Run.Scale
	}

	scr, err := newScreen(cli.Run.RomPath, cfg)
	checkf(err, "failed to open window")
	defer scr.close()

	checkf(scr.loop(nes), "emulation error")
}

// runHeadless runs n frames without any output window, then optionally prints
// the CRC32 of the last frame's RGBA pixels.
func runHeadless(nes *emu.NES, n int, crc bool) {
	var frame = nes.PPU.Output()
	for range n {
		f, err := nes.RunFrame()
		checkf(err, "emulation error")
		frame = f

		// Audio is not played but must still be drained.
		nes.AudioSamples(0)
	}

	if crc {
		fmt.Printf("%08X\n", crc32.ChecksumIEEE(frame.Pix))
	}
}
