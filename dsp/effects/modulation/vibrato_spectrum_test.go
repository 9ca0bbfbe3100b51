package modulation

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-vibrato/dsp/spectrum"
	"github.com/cwbudde/algo-vibrato/internal/testutil"
)

func carrierRatio(t *testing.T, widthSecs float64) (ratio, wideRatio, peak float64) {
	t.Helper()
	const (
		sampleRate = 44100.0
		carrier    = 1000.0
		n          = 44100
		skip       = 4096
	)
	v := newVibrato(t, sampleRate, 0.003, widthSecs, 5, 1)
	out := process(t, v, [][]float64{testutil.DeterministicSine(carrier, sampleRate, 0.8, n)})[0]

	mag, err := spectrum.MagnitudeSpectrum(out[skip:])
	if err != nil {
		t.Fatal(err)
	}

	total := spectrum.TotalEnergy(mag)
	peak, err = spectrum.PeakFrequency(out[skip:], sampleRate)
	if err != nil {
		t.Fatal(err)
	}

	return spectrum.BandEnergy(mag, sampleRate, carrier-3, carrier+3) / total,
		spectrum.BandEnergy(mag, sampleRate, carrier-150, carrier+150) / total,
		peak
}

func TestVibratoSpreadsCarrier(t *testing.T) {
	static, _, staticPeak := carrierRatio(t, 0)
	if static < 0.9 {
		t.Fatalf("pure delay spread the carrier: ratio %v", static)
	}

	if math.Abs(staticPeak-1000) > 1 {
		t.Fatalf("pure delay moved the carrier to %v Hz", staticPeak)
	}

	// ±0.002 s at 5 Hz swings the pitch by roughly ±6%, about ±63 Hz.
	modulated, wide, _ := carrierRatio(t, 0.002)
	if modulated > 0.5 {
		t.Fatalf("vibrato left %v of the energy on the carrier", modulated)
	}

	if wide < 0.95 {
		t.Fatalf("vibrato energy escaped the ±150 Hz band: %v", wide)
	}
}
