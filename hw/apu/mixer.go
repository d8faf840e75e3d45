package apu

import (
	"github.com/arl/blip"
)

const ntscClockRate = 1789773

const DefaultSampleRate = 48000

// Output amplitude: the non-linear mix is in [0, 1), scaled to int16.
const mixAmplitude = 32000

// pulseMix and tndMix are the two canonical non-linear mixing tables.
//
//	pulse_out = 95.52 / (8128.0 / (pulse1 + pulse2) + 100)
//	tnd_out   = 163.67 / (24329.0 / (3*triangle + 2*noise + dmc) + 100)
var (
	pulseMix [31]float64
	tndMix   [203]float64
)

func init() {
	for i := 1; i < len(pulseMix); i++ {
		pulseMix[i] = 95.52 / (8128.0/float64(i) + 100)
	}
	for i := 1; i < len(tndMix); i++ {
		tndMix[i] = 163.67 / (24329.0/float64(i) + 100)
	}
}

// Mixer accumulates the per-cycle output deltas of the five channels into a
// band-limited buffer, and resamples them to the host audio rate on demand.
type Mixer struct {
	buf        *blip.Buffer
	sampleRate int

	lastOutput int16
}

// The blip buffer must hold at least a frame's worth of output samples.
const maxSamplesPerFrame = 96000/60 + 1

func NewMixer() *Mixer {
	m := &Mixer{
		buf:        blip.NewBuffer(maxSamplesPerFrame),
		sampleRate: DefaultSampleRate,
	}
	m.buf.SetRates(ntscClockRate, float64(m.sampleRate))
	return m
}

func (m *Mixer) Reset() {
	m.buf.Clear()
	m.lastOutput = 0
}

// run records the mixed output value at the given CPU cycle timestamp
// (relative to the current frame).
func (m *Mixer) run(cycle uint32, output int16) {
	if output != m.lastOutput {
		m.buf.AddDelta(uint64(cycle), int32(output-m.lastOutput))
		m.lastOutput = output
	}
}

// endFrame closes the current frame: cycleCount clocks of input become
// available for resampled reads.
func (m *Mixer) endFrame(cycleCount uint32) {
	m.buf.EndFrame(int(cycleCount))
}

// Samples drains the accumulated output, resampled at the given rate.
func (m *Mixer) Samples(rate int) []int16 {
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	if rate != m.sampleRate {
		m.sampleRate = rate
		m.buf.SetRates(ntscClockRate, float64(rate))
	}

	n := m.buf.SamplesAvailable()
	if n == 0 {
		return nil
	}
	out := make([]int16, n)
	m.buf.ReadSamples(out, n, blip.Mono)
	return out
}

// mix combines the instantaneous channel levels through the non-linear DAC
// tables.
func mix(square1, square2, triangle, noise, dmc uint8) int16 {
	pulse := pulseMix[square1+square2]
	tnd := tndMix[3*uint16(triangle)+2*uint16(noise)+uint16(dmc)]
	return int16((pulse + tnd) * mixAmplitude)
}
