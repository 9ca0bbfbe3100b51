// Package wavio reads and writes PCM WAV files as de-interleaved, normalized
// float64 channels.
package wavio

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/algo-vecmath"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-vibrato/dsp/core"
)

// Errors returned by Read and Write.
var (
	ErrInvalidFile = errors.New("wavio: invalid WAV file")
	ErrUnsupported = errors.New("wavio: unsupported format")
	ErrInvalidClip = errors.New("wavio: invalid clip")
)

const defaultBitDepth = 16

// supportedBitDepth reports whether bitDepth is a signed PCM width handled
// here. 8-bit WAV is unsigned and is not supported.
func supportedBitDepth(bitDepth int) bool {
	return bitDepth == 16 || bitDepth == 24 || bitDepth == 32
}

// Clip is decoded audio: one slice per channel, samples in [-1, 1].
type Clip struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float64
}

// NumChannels returns the channel count.
func (c *Clip) NumChannels() int { return len(c.Channels) }

// Frames returns the number of samples per channel.
func (c *Clip) Frames() int {
	if len(c.Channels) == 0 {
		return 0
	}

	return len(c.Channels[0])
}

// Read decodes the WAV file at path.
func Read(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavio: open %q: %w", path, err)
	}

	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFile, path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wavio: decode %q: %w", path, err)
	}

	bitDepth := int(dec.BitDepth)
	numChans := buf.Format.NumChannels
	if !supportedBitDepth(bitDepth) {
		return nil, fmt.Errorf("%w: %s: bit depth %d", ErrUnsupported, path, bitDepth)
	}

	if numChans < 1 {
		return nil, fmt.Errorf("%w: %s: %d channels", ErrUnsupported, path, numChans)
	}

	clip := &Clip{
		SampleRate: buf.Format.SampleRate,
		BitDepth:   bitDepth,
		Channels:   Deinterleave(buf.Data, numChans),
	}

	scale := 1 / math.Pow(2, float64(bitDepth-1))
	for _, ch := range clip.Channels {
		vecmath.ScaleBlockInPlace(ch, scale)
	}

	return clip, nil
}

// Write encodes clip to path as PCM WAV. A zero BitDepth writes 16-bit.
// Samples are clamped to [-1, 1] before quantization.
func Write(path string, clip *Clip) error {
	if clip == nil || clip.NumChannels() == 0 || clip.SampleRate <= 0 {
		return fmt.Errorf("%w: need channels and a positive sample rate", ErrInvalidClip)
	}

	frames := clip.Frames()
	for c, ch := range clip.Channels {
		if len(ch) != frames {
			return fmt.Errorf("%w: channel %d has %d frames, want %d", ErrInvalidClip, c, len(ch), frames)
		}
	}

	bitDepth := clip.BitDepth
	if bitDepth == 0 {
		bitDepth = defaultBitDepth
	}

	if !supportedBitDepth(bitDepth) {
		return fmt.Errorf("%w: bit depth %d", ErrUnsupported, bitDepth)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: create %q: %w", path, err)
	}

	enc := wav.NewEncoder(f, clip.SampleRate, bitDepth, clip.NumChannels(), 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: clip.NumChannels(),
			SampleRate:  clip.SampleRate,
		},
		Data:           Interleave(clip.Channels, bitDepth),
		SourceBitDepth: bitDepth,
	}

	err = enc.Write(buf)
	if err != nil {
		f.Close()

		return fmt.Errorf("wavio: encode %q: %w", path, err)
	}

	err = enc.Close()
	if err != nil {
		f.Close()

		return fmt.Errorf("wavio: finalize %q: %w", path, err)
	}

	return f.Close()
}

// Deinterleave splits interleaved integer PCM into numChans float64 slices.
// A trailing partial frame is dropped.
func Deinterleave(data []int, numChans int) [][]float64 {
	frames := len(data) / numChans
	out := make([][]float64, numChans)
	for c := range out {
		out[c] = make([]float64, frames)
	}

	for i := 0; i < frames*numChans; i++ {
		out[i%numChans][i/numChans] = float64(data[i])
	}

	return out
}

// Interleave quantizes normalized channels to bitDepth-bit integers in frame
// order.
func Interleave(channels [][]float64, bitDepth int) []int {
	numChans := len(channels)
	if numChans == 0 {
		return nil
	}

	frames := len(channels[0])
	full := math.Pow(2, float64(bitDepth-1)) - 1
	out := make([]int, frames*numChans)
	for i := range out {
		s := channels[i%numChans][i/numChans]
		if math.IsNaN(s) {
			s = 0
		}

		s = core.Clamp(s, -1, 1)

		out[i] = int(math.Round(s * full))
	}

	return out
}
