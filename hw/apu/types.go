package apu

import "famiko/hw/hwdefs"

// Channel identifies one of the five sound channels.
type Channel int

const (
	Square1 Channel = iota
	Square2
	Triangle
	Noise
	DPCM
)

// FrameType is the kind of clock a frame counter step distributes.
type FrameType int

const (
	NoFrame FrameType = iota
	QuarterFrame
	HalfFrame
)

// cpu is the view of the CPU the APU needs: the IRQ lines, the cycle counter
// for write-parity effects, and bus access for DMC sample fetches (which also
// stall the CPU).
type cpu interface {
	SetIRQSource(src hwdefs.IRQSource)
	ClearIRQSource(src hwdefs.IRQSource)
	HasIRQSource(src hwdefs.IRQSource) bool
	CurrentCycle() int64
	ReadMem(addr uint16) uint8
	AddStall(n int64)
}
