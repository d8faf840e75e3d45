package ines

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func buildRom(tb testing.TB, flags6, flags7 uint8, nprg, nchr int, trainer bool) []byte {
	tb.Helper()

	hdr := make([]byte, 16)
	copy(hdr, Magic)
	hdr[4] = uint8(nprg)
	hdr[5] = uint8(nchr)
	hdr[6] = flags6
	hdr[7] = flags7
	if trainer {
		hdr[6] |= 0x04
	}

	buf := hdr
	if trainer {
		buf = append(buf, bytes.Repeat([]byte{0xAA}, 512)...)
	}
	buf = append(buf, bytes.Repeat([]byte{0x11}, nprg*16384)...)
	buf = append(buf, bytes.Repeat([]byte{0x22}, nchr*8192)...)
	return buf
}

func TestReadFrom(t *testing.T) {
	rom := new(Rom)
	buf := buildRom(t, 0x01, 0x00, 2, 1, true)
	if _, err := rom.ReadFrom(bytes.NewReader(buf)); err != nil {
		t.Fatal(err)
	}

	if len(rom.Trainer) != 512 {
		t.Errorf("trainer length = %d, want 512", len(rom.Trainer))
	}
	if len(rom.PRGROM) != 2*16384 {
		t.Errorf("PRG length = %d, want %d", len(rom.PRGROM), 2*16384)
	}
	if len(rom.CHRROM) != 8192 {
		t.Errorf("CHR length = %d, want %d", len(rom.CHRROM), 8192)
	}
	if rom.Mirroring() != VertMirroring {
		t.Errorf("mirroring = %s, want vertical", rom.Mirroring())
	}
	if rom.HasCHRRAM() {
		t.Error("HasCHRRAM = true, want false")
	}
}

func TestMapperNumber(t *testing.T) {
	tests := []struct {
		flags6, flags7 uint8
		want           uint16
	}{
		{0x00, 0x00, 0},
		{0x10, 0x00, 1},
		{0x40, 0x00, 4},
		{0x00, 0x10, 16},
		{0x30, 0x40, 67},
	}
	for _, tt := range tests {
		rom := new(Rom)
		buf := buildRom(t, tt.flags6, tt.flags7, 1, 0, false)
		if _, err := rom.ReadFrom(bytes.NewReader(buf)); err != nil {
			t.Fatal(err)
		}
		if got := rom.Mapper(); got != tt.want {
			t.Errorf("flags6=%02X flags7=%02X: mapper = %d, want %d", tt.flags6, tt.flags7, got, tt.want)
		}
	}
}

func TestMirroring(t *testing.T) {
	tests := []struct {
		flags6 uint8
		want   NTMirroring
	}{
		{0x00, HorzMirroring},
		{0x01, VertMirroring},
		{0x08, FourScreen},
		{0x09, FourScreen}, // four-screen wins over the mirroring bit
	}
	for _, tt := range tests {
		rom := new(Rom)
		buf := buildRom(t, tt.flags6, 0, 1, 0, false)
		if _, err := rom.ReadFrom(bytes.NewReader(buf)); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(tt.want.String(), rom.Mirroring().String()); diff != "" {
			t.Errorf("flags6=%02X: mirroring mismatch (-want +got):\n%s", tt.flags6, diff)
		}
	}
}

func TestInvalidRoms(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"empty", nil},
		{"short header", []byte("NES\x1a")},
		{"bad magic", bytes.Repeat([]byte{0xFF}, 16)},
		{"truncated prg", buildRom(t, 0, 0, 2, 1, false)[:16+100]},
		{"truncated chr", buildRom(t, 0, 0, 1, 1, false)[:16+16384+100]},
		{"truncated trainer", buildRom(t, 0, 0, 1, 0, true)[:16+100]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rom := new(Rom)
			_, err := rom.ReadFrom(bytes.NewReader(tt.buf))
			if !errors.Is(err, ErrInvalidRom) {
				t.Errorf("got %v, want ErrInvalidRom", err)
			}
		})
	}
}
