// Package buffer provides Ring, a fixed-capacity circular store of float64
// samples with linearly interpolated fractional reads.
//
// A Ring serves two roles. As a delay line it is written with Push and read
// with Tap, where the argument is a distance behind the most recent sample.
// As a wavetable it is filled once and read with Frac at absolute table
// positions. Both read paths wrap indices modulo the capacity, so they never
// go out of bounds, and slots that were never written read as exactly zero.
package buffer
