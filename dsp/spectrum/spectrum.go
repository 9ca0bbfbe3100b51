package spectrum

import (
	"errors"
	"fmt"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-vibrato/dsp/window"
)

// ErrEmptyInput is returned for zero-length signals.
var ErrEmptyInput = errors.New("spectrum: empty input")

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}

	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// FFTSize returns the transform length used for n samples: the next power of
// two not below n.
func FFTSize(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}

	return size
}

// MagnitudeSpectrum returns the one-sided magnitude spectrum of samples after
// Hann windowing and zero-padding to FFTSize(len(samples)). The result holds
// FFTSize/2+1 bins from DC to Nyquist.
func MagnitudeSpectrum(samples []float64) ([]float64, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyInput
	}

	size := FFTSize(len(samples))
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	coeffs, err := window.Hann(len(samples))
	if err != nil {
		return nil, fmt.Errorf("spectrum: %w", err)
	}

	windowed := make([]float64, len(samples))
	copy(windowed, samples)

	err = window.ApplyCoefficientsInPlace(windowed, coeffs)
	if err != nil {
		return nil, fmt.Errorf("spectrum: %w", err)
	}

	in := make([]complex128, size)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	bins := make([]complex128, size)

	err = plan.Forward(bins, in)
	if err != nil {
		return nil, fmt.Errorf("spectrum: forward FFT: %w", err)
	}

	half := size/2 + 1
	out := make([]float64, half)
	re, im, buf := getScratch(half)
	for i := 0; i < half; i++ {
		re[i] = real(bins[i])
		im[i] = imag(bins[i])
	}

	vecmath.Magnitude(out, re, im)
	putScratch(buf)

	return out, nil
}

// BinFrequency returns the centre frequency in Hz of bin k of a one-sided
// spectrum with bins entries.
func BinFrequency(k, bins int, sampleRate float64) float64 {
	return float64(k) * sampleRate / float64(2*(bins-1))
}

// PeakFrequency estimates the frequency of the strongest non-DC component of
// samples, refining the peak bin by parabolic interpolation.
func PeakFrequency(samples []float64, sampleRate float64) (float64, error) {
	if sampleRate <= 0 {
		return 0, fmt.Errorf("spectrum sample rate must be > 0: %f", sampleRate)
	}

	mag, err := MagnitudeSpectrum(samples)
	if err != nil {
		return 0, err
	}

	if len(mag) < 3 {
		return 0, nil
	}

	peak := 1
	for k := 2; k < len(mag); k++ {
		if mag[k] > mag[peak] {
			peak = k
		}
	}

	offset := 0.0
	if peak < len(mag)-1 {
		a, b, c := mag[peak-1], mag[peak], mag[peak+1]
		if den := a - 2*b + c; den != 0 {
			offset = 0.5 * (a - c) / den
		}
	}

	bin := float64(peak) + offset

	return bin * sampleRate / float64(2*(len(mag)-1)), nil
}

// BandEnergy sums squared magnitudes of the bins whose centre lies in
// [loHz, hiHz].
func BandEnergy(mag []float64, sampleRate, loHz, hiHz float64) float64 {
	if len(mag) < 2 {
		return 0
	}

	energy := 0.0
	for k, m := range mag {
		f := BinFrequency(k, len(mag), sampleRate)
		if f >= loHz && f <= hiHz {
			energy += m * m
		}
	}

	return energy
}

// TotalEnergy sums squared magnitudes of all bins.
func TotalEnergy(mag []float64) float64 {
	return vecmath.DotProduct(mag, mag)
}
