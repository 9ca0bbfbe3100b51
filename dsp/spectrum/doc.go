// Package spectrum provides the analysis used to inspect effect output:
// windowed FFT magnitude spectra, spectral peak estimation, band energy and
// simple level statistics.
//
// FFTs are computed with algo-fft plans; windowing, magnitudes and level
// reductions use the SIMD kernels of algo-vecmath when available.
package spectrum
