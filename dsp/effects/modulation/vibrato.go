package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vibrato/dsp/buffer"
	"github.com/cwbudde/algo-vibrato/dsp/core"
	"github.com/cwbudde/algo-vibrato/dsp/lfo"
)

const defaultVibratoTableSize = 1024

// VibratoOption mutates vibrato construction parameters.
type VibratoOption func(*vibratoConfig) error

type vibratoConfig struct {
	tableSize int
}

func defaultVibratoConfig() vibratoConfig {
	return vibratoConfig{tableSize: defaultVibratoTableSize}
}

// WithVibratoTableSize sets the LFO wavetable resolution in points per period.
func WithVibratoTableSize(size int) VibratoOption {
	return func(cfg *vibratoConfig) error {
		if size < 1 {
			return invalidParam("table size", float64(size), "must be >= 1")
		}

		cfg.tableSize = size

		return nil
	}
}

// Vibrato is a pitch-modulation effect: every channel is written into its
// own delay line and read back at
//
//	d(t) = delay + width * sin(2π * modFreq * t)
//
// samples behind the newest input. One LFO step is taken per sample index and
// shared by all channels, so channels stay phase-locked.
//
// The output is fully wet. During the first delay samples the read reaches
// storage that has not been written yet and yields silence.
//
// A Vibrato is not safe for concurrent use; run one instance per stream.
type Vibrato struct {
	sampleRate float64
	delaySecs  float64
	widthSecs  float64
	modFreqHz  float64

	delaySamples float64

	lines []*buffer.Ring
	osc   *lfo.Oscillator
}

// NewVibrato creates a vibrato for channels channels at sampleRate Hz.
//
// delaySecs is the base delay, widthSecs the peak modulation excursion and
// modFreqHz the LFO rate. width must not exceed delay, so the total delay can
// never go negative, and modFreqHz must be > 0. Every rejected parameter is
// reported as an *InvalidParameterError.
func NewVibrato(sampleRate, delaySecs, widthSecs, modFreqHz float64, channels int, opts ...VibratoOption) (*Vibrato, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, invalidParam("sample rate", sampleRate, "must be > 0 and finite")
	}

	if channels < 1 {
		return nil, invalidParam("channel count", float64(channels), "must be >= 1")
	}

	cfg := defaultVibratoConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	err := validateVibratoParams(sampleRate, delaySecs, widthSecs, modFreqHz)
	if err != nil {
		return nil, err
	}

	osc, err := lfo.New(sampleRate, cfg.tableSize)
	if err != nil {
		return nil, fmt.Errorf("vibrato: %w", err)
	}

	v := &Vibrato{
		sampleRate: sampleRate,
		osc:        osc,
		lines:      make([]*buffer.Ring, channels),
	}

	err = v.configure(delaySecs, widthSecs, modFreqHz)
	if err != nil {
		return nil, err
	}

	return v, nil
}

func validateVibratoParams(sampleRate, delaySecs, widthSecs, modFreqHz float64) error {
	if delaySecs < 0 || !core.IsFinite(delaySecs) {
		return invalidParam("delay", delaySecs, "must be >= 0 and finite")
	}

	if widthSecs < 0 || !core.IsFinite(widthSecs) {
		return invalidParam("width", widthSecs, "must be >= 0 and finite")
	}

	if widthSecs*sampleRate > delaySecs*sampleRate {
		return invalidParam("width", widthSecs, fmt.Sprintf("must be <= delay (%g)", delaySecs))
	}

	if modFreqHz <= 0 || !core.IsFinite(modFreqHz) {
		return invalidParam("modulation frequency", modFreqHz, "must be > 0 and finite")
	}

	return nil
}

// VibratoCapacity returns the delay-line length needed for the given delay
// and width in samples: the longest read is delay+width samples back and
// touches the slot one further, so one guard slot is added on top of
// delay + 2*width.
func VibratoCapacity(delaySamples, widthSamples float64) int {
	return 1 + int(math.Ceil(delaySamples)) + 2*int(math.Ceil(widthSamples))
}

// configure allocates fresh delay lines and retunes the LFO. Parameters must
// already be validated.
func (v *Vibrato) configure(delaySecs, widthSecs, modFreqHz float64) error {
	delaySamples := delaySecs * v.sampleRate
	widthSamples := widthSecs * v.sampleRate
	capacity := VibratoCapacity(delaySamples, widthSamples)

	lines := make([]*buffer.Ring, len(v.lines))
	for c := range lines {
		line, err := buffer.NewRing(capacity)
		if err != nil {
			return fmt.Errorf("vibrato: %w", err)
		}

		lines[c] = line
	}

	v.lines = lines
	v.delaySecs = delaySecs
	v.widthSecs = widthSecs
	v.modFreqHz = modFreqHz
	v.delaySamples = delaySamples

	v.osc.SetFrequency(modFreqHz)
	v.osc.SetAmplitude(widthSamples)
	v.osc.SetPhase(0)

	return nil
}

// SetParams validates and applies new delay, width and modulation rate.
//
// Every delay line is replaced by a fresh, silent one, even when the length
// does not change, and the LFO restarts at phase zero. Audio history is
// discarded, so the output goes silent for the new delay time; this is an
// intentional reset, not a glitch. On error the vibrato is left unchanged.
func (v *Vibrato) SetParams(delaySecs, widthSecs, modFreqHz float64) error {
	err := validateVibratoParams(v.sampleRate, delaySecs, widthSecs, modFreqHz)
	if err != nil {
		return err
	}

	return v.configure(delaySecs, widthSecs, modFreqHz)
}

// Params returns the delay and width in seconds and the LFO rate in Hz.
func (v *Vibrato) Params() (delaySecs, widthSecs, modFreqHz float64) {
	return v.delaySecs, v.widthSecs, v.modFreqHz
}

// Reset clears the delay history of every channel and restarts the LFO at
// phase zero, so a reset vibrato replays the same modulation trajectory.
// The wavetable is kept.
func (v *Vibrato) Reset() {
	for _, line := range v.lines {
		line.Reset()
	}

	v.osc.SetPhase(0)
}

// ProcessFrame processes one sample per channel. in and out must hold
// exactly Channels() samples and may be the same slice. A rejected frame
// leaves the vibrato untouched.
func (v *Vibrato) ProcessFrame(in, out []float64) error {
	channels := len(v.lines)
	if len(in) != channels || len(out) != channels {
		return fmt.Errorf("%w: vibrato has %d, got frame input %d, output %d",
			ErrChannelMismatch, channels, len(in), len(out))
	}

	delay := v.delaySamples + v.osc.Next()
	for c, line := range v.lines {
		line.Push(in[c])
		out[c] = line.Tap(delay)
	}

	return nil
}

// Process runs input through the vibrato into output. Both hold one slice per
// channel; output[c] must be at least as long as input[c] and all input
// channels must have the same length. Input and output may alias.
func (v *Vibrato) Process(input, output [][]float64) error {
	channels := len(v.lines)
	if len(input) != channels || len(output) != channels {
		return fmt.Errorf("%w: vibrato has %d, got input %d, output %d",
			ErrChannelMismatch, channels, len(input), len(output))
	}

	frames := len(input[0])
	for c := range input {
		if len(input[c]) != frames || len(output[c]) < frames {
			return fmt.Errorf("%w: channel %d has input %d, output %d, want %d",
				ErrLengthMismatch, c, len(input[c]), len(output[c]), frames)
		}
	}

	for t := 0; t < frames; t++ {
		delay := v.delaySamples + v.osc.Next()
		for c, line := range v.lines {
			line.Push(input[c][t])
			output[c][t] = line.Tap(delay)
		}
	}

	return nil
}

// ProcessInPlace applies the vibrato to buf, one slice per channel.
func (v *Vibrato) ProcessInPlace(buf [][]float64) error {
	return v.Process(buf, buf)
}

// SampleRate returns the sample rate in Hz.
func (v *Vibrato) SampleRate() float64 { return v.sampleRate }

// Channels returns the number of channels.
func (v *Vibrato) Channels() int { return len(v.lines) }

// DelaySamples returns the base delay in samples.
func (v *Vibrato) DelaySamples() float64 { return v.delaySamples }

// WidthSamples returns the peak modulation excursion in samples.
func (v *Vibrato) WidthSamples() float64 { return v.osc.Amplitude() }

// Capacity returns the length of each channel's delay line.
func (v *Vibrato) Capacity() int { return v.lines[0].Cap() }

// TableSize returns the LFO wavetable resolution.
func (v *Vibrato) TableSize() int { return v.osc.TableSize() }
