// Package lfo provides a wavetable low-frequency oscillator for modulating
// effect parameters such as delay time.
//
// The oscillator precomputes one sine period into a buffer.Ring and reads it
// with linear interpolation. Phase is accumulated in table-index units and
// wrapped into [0, TableSize()) on every step; SetPhase and Phase convert
// from and to radians.
package lfo
