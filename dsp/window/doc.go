// Package window generates tapering windows for spectral analysis.
//
// Windows are produced as coefficient slices by Generate or the named
// helpers and applied with ApplyCoefficientsInPlace or Apply. Symmetric form
// is the default; WithPeriodic selects the FFT-framing variant.
package window
