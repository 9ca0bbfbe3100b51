package buffer

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vibrato/dsp/core"
)

// ErrInvalidCapacity is returned by NewRing for capacities below one.
var ErrInvalidCapacity = errors.New("buffer: invalid capacity")

// Ring is a circular sample buffer. Push overwrites the oldest sample once
// the ring has wrapped. The capacity never changes; allocate a new Ring to
// resize.
type Ring struct {
	samples []float64
	head    int // next write position
	written int // pushes since construction or Reset
}

// NewRing returns a zero-filled ring holding capacity samples.
func NewRing(capacity int) (*Ring, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: %d (must be >= 1)", ErrInvalidCapacity, capacity)
	}

	return &Ring{samples: make([]float64, capacity)}, nil
}

// Cap returns the fixed capacity.
func (r *Ring) Cap() int {
	return len(r.samples)
}

// Written returns the number of pushes since construction or the last Reset.
// It keeps counting past the capacity.
func (r *Ring) Written() int {
	return r.written
}

// Full reports whether every slot holds a pushed sample.
func (r *Ring) Full() bool {
	return r.written >= len(r.samples)
}

// Push stores sample at the write cursor and advances it.
func (r *Ring) Push(sample float64) {
	r.samples[r.head] = sample
	r.head++
	if r.head == len(r.samples) {
		r.head = 0
	}

	r.written++
}

// Newest returns the absolute index of the most recently pushed sample.
// Before the first push it is the last slot, which still reads zero.
func (r *Ring) Newest() int {
	if r.head == 0 {
		return len(r.samples) - 1
	}

	return r.head - 1
}

// At returns the sample at absolute index i, wrapped modulo the capacity.
func (r *Ring) At(i int) float64 {
	return r.samples[r.wrap(i)]
}

// Frac reads at absolute position pos, blending the samples at floor(pos)
// and floor(pos)+1 by the fractional part. Both indices wrap.
func (r *Ring) Frac(pos float64) float64 {
	base := math.Floor(pos)
	frac := pos - base
	i := r.wrap(int(base))
	x0 := r.samples[i]
	if frac == 0 {
		return x0
	}

	i++
	if i == len(r.samples) {
		i = 0
	}

	return x0*(1-frac) + r.samples[i]*frac
}

// Tap reads delay samples behind the most recent push. Tap(0) returns the
// newest sample and Tap(1) the one pushed before it. delay is clamped to
// [0, Cap()-1].
func (r *Ring) Tap(delay float64) float64 {
	delay = core.Clamp(delay, 0, float64(len(r.samples)-1))
	return r.Frac(float64(r.Newest()) - delay)
}

// Reset zeroes the storage and rewinds the cursor.
func (r *Ring) Reset() {
	core.Zero(r.samples)
	r.head = 0
	r.written = 0
}

func (r *Ring) wrap(i int) int {
	n := len(r.samples)
	i %= n
	if i < 0 {
		i += n
	}

	return i
}
