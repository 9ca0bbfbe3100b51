package spectrum

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Stats summarizes the level of a block of samples.
type Stats struct {
	Peak float64 // max |x|
	RMS  float64
}

// PeakDB returns the peak level in dBFS.
func (s Stats) PeakDB() float64 {
	return toDB(s.Peak)
}

// RMSDB returns the RMS level in dBFS.
func (s Stats) RMSDB() float64 {
	return toDB(s.RMS)
}

// Levels returns peak and RMS of samples. An empty slice yields zero Stats.
func Levels(samples []float64) Stats {
	if len(samples) == 0 {
		return Stats{}
	}

	return Stats{
		Peak: vecmath.MaxAbs(samples),
		RMS:  math.Sqrt(vecmath.DotProduct(samples, samples) / float64(len(samples))),
	}
}

func toDB(linear float64) float64 {
	if linear <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}
