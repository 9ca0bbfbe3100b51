package core

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// EnsureLen returns a slice of length n, reusing buf's backing array when it
// is large enough.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}

	if cap(buf) >= n {
		return buf[:n]
	}

	return make([]float64, n)
}

// Channels allocates frames zeroed samples for each of n channels.
func Channels(n, frames int) [][]float64 {
	if n <= 0 {
		return nil
	}

	out := make([][]float64, n)
	for c := range out {
		out[c] = make([]float64, frames)
	}

	return out
}

// Slice returns per-channel views of buf restricted to [start, end).
func Slice(buf [][]float64, start, end int) [][]float64 {
	out := make([][]float64, len(buf))
	for c := range buf {
		out[c] = buf[c][start:end]
	}

	return out
}
