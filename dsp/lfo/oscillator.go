package lfo

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vibrato/dsp/buffer"
)

// ErrInvalidTableSize is returned when a wavetable would hold no samples.
var ErrInvalidTableSize = errors.New("lfo: invalid table size")

// Oscillator is a sine wavetable LFO. It is not safe for concurrent use.
type Oscillator struct {
	table      *buffer.Ring
	size       int
	sampleRate float64
	freqHz     float64
	amplitude  float64
	phase      float64 // table-index units, [0, size)
}

// New returns an oscillator with a tableSize-point sine table. Frequency
// starts at zero and amplitude at one.
func New(sampleRate float64, tableSize int) (*Oscillator, error) {
	table, err := sineTable(tableSize)
	if err != nil {
		return nil, err
	}

	return &Oscillator{
		table:      table,
		size:       tableSize,
		sampleRate: sampleRate,
		amplitude:  1,
	}, nil
}

// sineTable builds size samples of one sine period plus a trailing copy of
// the first sample, so reads between the last point and the wrap need no
// special case.
func sineTable(size int) (*buffer.Ring, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d (must be >= 1)", ErrInvalidTableSize, size)
	}

	table, err := buffer.NewRing(size + 1)
	if err != nil {
		return nil, err
	}

	for i := 0; i < size; i++ {
		table.Push(math.Sin(2 * math.Pi * float64(i) / float64(size)))
	}

	table.Push(table.At(0))

	return table, nil
}

// SetFrequency sets the oscillation rate in Hz. Negative rates run the
// table backwards.
func (o *Oscillator) SetFrequency(hz float64) {
	o.freqHz = hz
}

// SetAmplitude sets the output scale factor.
func (o *Oscillator) SetAmplitude(amplitude float64) {
	o.amplitude = amplitude
}

// SetPhase sets the phase in radians. Values outside [0, 2π) are wrapped.
func (o *Oscillator) SetPhase(radians float64) {
	o.phase = wrapPhase(radians/(2*math.Pi)*float64(o.size), float64(o.size))
}

// Frequency returns the oscillation rate in Hz.
func (o *Oscillator) Frequency() float64 { return o.freqHz }

// Amplitude returns the output scale factor.
func (o *Oscillator) Amplitude() float64 { return o.amplitude }

// Phase returns the current phase in radians, in [0, 2π).
func (o *Oscillator) Phase() float64 {
	return o.phase / float64(o.size) * 2 * math.Pi
}

// SampleRate returns the sample rate in Hz.
func (o *Oscillator) SampleRate() float64 { return o.sampleRate }

// TableSize returns the number of points in one period of the wavetable.
func (o *Oscillator) TableSize() int { return o.size }

// Next advances the phase by one sample period and returns the interpolated
// table value scaled by the amplitude. Call it exactly once per output sample.
func (o *Oscillator) Next() float64 {
	size := float64(o.size)
	o.phase = wrapPhase(o.phase+size*o.freqHz/o.sampleRate, size)

	return o.table.Frac(o.phase) * o.amplitude
}

// Reset rebuilds the wavetable with tableSize points and zeroes the phase.
// Frequency and amplitude are kept. It allocates and is O(tableSize); do not
// call it per sample.
func (o *Oscillator) Reset(tableSize int) error {
	table, err := sineTable(tableSize)
	if err != nil {
		return err
	}

	o.table = table
	o.size = tableSize
	o.phase = 0

	return nil
}

func wrapPhase(phase, size float64) float64 {
	phase = math.Mod(phase, size)
	if phase < 0 {
		phase += size
	}

	// -tiny + size rounds to size
	if phase >= size {
		phase = 0
	}

	return phase
}
