// Package modulation provides delay-based modulation effects.
//
// Vibrato reads a per-channel delay line at an offset swept by a sine
// wavetable LFO, producing a periodic pitch wobble:
//
//	v, err := modulation.NewVibrato(44100, 0.005, 0.002, 5, 2)
//	if err != nil {
//		return err
//	}
//	err = v.Process(in, out)
//
// Parameters are validated at construction and by SetParams. Rejected values
// come back as *InvalidParameterError, which matches ErrInvalidParameter
// under errors.Is. Processing itself never fails for well-shaped buffers.
package modulation
