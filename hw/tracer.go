package hw

import (
	"bufio"
	"fmt"
	"io"
)

// cpuState is the per-instruction execution state recorded by the tracer,
// captured before the instruction at PC executes.
type cpuState struct {
	PC    uint16
	A     uint8
	X     uint8
	Y     uint8
	P     P
	SP    uint8
	Clock int64

	Scanline int
	PPUCycle int
}

type tracer struct {
	w   io.Writer
	buf *bufio.Writer
}

func (t *tracer) write(state cpuState) {
	if t.buf == nil {
		t.buf = bufio.NewWriter(t.w)
	}
	fmt.Fprintf(t.buf, "%04X A:%02X X:%02X Y:%02X P:%02X SP:%02X PPU:%3d,%3d CYC:%d\n",
		state.PC, state.A, state.X, state.Y, uint8(state.P), state.SP,
		state.Scanline, state.PPUCycle, state.Clock)
}

func (t *tracer) flush() error {
	if t.buf == nil {
		return nil
	}
	return t.buf.Flush()
}

// FlushTrace flushes any buffered trace output.
func (c *CPU) FlushTrace() error {
	if c.tracer == nil {
		return nil
	}
	return c.tracer.flush()
}
