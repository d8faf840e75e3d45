package hw

import (
	"testing"
)

func TestControllerShiftRegister(t *testing.T) {
	_, cpu := newTestPPU(t)

	cpu.Input.SetButtons(0, PadA|PadStart|PadRight)

	// Strobe high then low latches the state.
	cpu.Write8(0x4016, 1)
	cpu.Write8(0x4016, 0)

	want := []uint8{1, 0, 0, 1, 0, 0, 0, 1} // A, B, Select, Start, Up, Down, Left, Right
	for i, bit := range want {
		got := cpu.Read8(0x4016)
		if got&1 != bit {
			t.Errorf("read %d = %d, want %d", i, got&1, bit)
		}
		// Upper bits emulate open bus.
		if got&0x40 == 0 {
			t.Errorf("read %d: open bus bits missing", i)
		}
	}

	// Once drained, reads return 1.
	for i := 0; i < 4; i++ {
		if got := cpu.Read8(0x4016); got&1 != 1 {
			t.Errorf("post-drain read %d = %d, want 1", i, got&1)
		}
	}
}

func TestControllerStrobeHeldHigh(t *testing.T) {
	_, cpu := newTestPPU(t)

	cpu.Input.SetButtons(0, PadA)
	cpu.Write8(0x4016, 1)

	// While the strobe is held high, reads keep returning the A button.
	for i := 0; i < 3; i++ {
		if got := cpu.Read8(0x4016); got&1 != 1 {
			t.Errorf("read %d = %d, want 1 (A held, strobe high)", i, got&1)
		}
	}
}

func TestSecondController(t *testing.T) {
	_, cpu := newTestPPU(t)

	cpu.Input.SetButtons(1, PadB)
	cpu.Write8(0x4016, 1)
	cpu.Write8(0x4016, 0)

	if got := cpu.Read8(0x4017); got&1 != 0 {
		t.Errorf("port 2 bit 0 = %d, want 0 (A not pressed)", got&1)
	}
	if got := cpu.Read8(0x4017); got&1 != 1 {
		t.Errorf("port 2 bit 1 = %d, want 1 (B pressed)", got&1)
	}
}
