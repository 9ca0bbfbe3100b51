package buffer

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// --- construction and validation ---

func TestNewRingValidation(t *testing.T) {
	for _, capacity := range []int{0, -1, -64} {
		_, err := NewRing(capacity)
		if err == nil {
			t.Fatalf("expected error for capacity=%d", capacity)
		}

		if !errors.Is(err, ErrInvalidCapacity) {
			t.Fatalf("capacity=%d: error %v does not wrap ErrInvalidCapacity", capacity, err)
		}
	}
}

func TestNewRingReadsZero(t *testing.T) {
	for _, capacity := range []int{1, 2, 3, 16, 1025} {
		r, err := NewRing(capacity)
		if err != nil {
			t.Fatal(err)
		}

		if r.Cap() != capacity {
			t.Fatalf("Cap: got %d want %d", r.Cap(), capacity)
		}

		if got := r.Tap(0); got != 0 {
			t.Fatalf("capacity=%d: Tap(0) on empty ring = %v, want 0", capacity, got)
		}

		if got := r.Frac(0); got != 0 {
			t.Fatalf("capacity=%d: Frac(0) on empty ring = %v, want 0", capacity, got)
		}

		if r.Full() {
			t.Fatalf("capacity=%d: empty ring reports full", capacity)
		}
	}
}

// --- push and integer taps ---

func TestTapNewestAndPrevious(t *testing.T) {
	for _, capacity := range []int{2, 3, 5, 8} {
		r, err := NewRing(capacity)
		if err != nil {
			t.Fatal(err)
		}

		// push well past the capacity so the cursor wraps several times
		n := 3*capacity + 1
		for i := 1; i <= n; i++ {
			r.Push(float64(i))
		}

		if got := r.Tap(0); got != float64(n) {
			t.Fatalf("capacity=%d: Tap(0) = %v, want %d", capacity, got, n)
		}

		if got := r.Tap(1); got != float64(n-1) {
			t.Fatalf("capacity=%d: Tap(1) = %v, want %d", capacity, got, n-1)
		}

		if !r.Full() {
			t.Fatalf("capacity=%d: ring should be full", capacity)
		}

		if r.Written() != n {
			t.Fatalf("Written: got %d want %d", r.Written(), n)
		}
	}
}

func TestTapCapacityOne(t *testing.T) {
	r, err := NewRing(1)
	if err != nil {
		t.Fatal(err)
	}

	r.Push(4)
	r.Push(5)
	if got := r.Tap(0); got != 5 {
		t.Fatalf("Tap(0) = %v, want 5", got)
	}

	// the only valid delay is zero; anything larger clamps to it
	if got := r.Tap(0.5); got != 5 {
		t.Fatalf("Tap(0.5) = %v, want 5", got)
	}
}

func TestPushWraparoundLayout(t *testing.T) {
	r, err := NewRing(4)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		r.Push(float64(i))
	}

	// storage is [8, 9, 6, 7] with the cursor at index 2
	got := []float64{r.At(0), r.At(1), r.At(2), r.At(3)}
	if diff := cmp.Diff([]float64{8, 9, 6, 7}, got); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}

	if r.Newest() != 1 {
		t.Fatalf("Newest: got %d want 1", r.Newest())
	}

	if got := r.At(-3); got != 9 {
		t.Fatalf("At(-3) = %v, want 9", got)
	}
}

func TestTapBeforeWarmupReadsZero(t *testing.T) {
	r, err := NewRing(8)
	if err != nil {
		t.Fatal(err)
	}

	r.Push(1)
	r.Push(2)
	for delay := 2; delay < 8; delay++ {
		if got := r.Tap(float64(delay)); got != 0 {
			t.Fatalf("Tap(%d) = %v, want 0 from unwritten storage", delay, got)
		}
	}
}

// --- fractional reads ---

func TestTapFractionalLinearity(t *testing.T) {
	r, err := NewRing(16)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 23; i++ {
		r.Push(math.Sin(float64(i) * 0.7))
	}

	for k := 0; k < 14; k++ {
		a := r.Tap(float64(k))
		b := r.Tap(float64(k + 1))
		for _, f := range []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1} {
			want := a*(1-f) + b*f
			got := r.Tap(float64(k) + f)
			if !approxEqual(got, want, 1e-12) {
				t.Fatalf("Tap(%d+%.2f) = %v, want %v", k, f, got, want)
			}
		}
	}
}

func TestFracAbsolutePosition(t *testing.T) {
	r, err := NewRing(4)
	if err != nil {
		t.Fatal(err)
	}

	for _, v := range []float64{10, 20, 30, 40} {
		r.Push(v)
	}

	tests := []struct {
		pos  float64
		want float64
	}{
		{pos: 0, want: 10},
		{pos: 1.5, want: 25},
		{pos: 2.25, want: 32.5},
		{pos: 3.5, want: 25}, // blends slot 3 with slot 0
		{pos: 4, want: 10},
		{pos: -0.5, want: 25},
		{pos: 9.75, want: 27.5},
	}

	for _, tt := range tests {
		if got := r.Frac(tt.pos); !approxEqual(got, tt.want, 1e-12) {
			t.Fatalf("Frac(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestTapFractionalRamp(t *testing.T) {
	r, err := NewRing(32)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < r.Cap(); i++ {
		r.Push(float64(i))
	}

	// linear interpolation is exact on a ramp
	got := r.Tap(5.5)
	want := float64(r.Cap()-1) - 5.5
	if !approxEqual(got, want, 1e-10) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestTapClampsOutOfRange(t *testing.T) {
	r, err := NewRing(4)
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 4; i++ {
		r.Push(float64(i))
	}

	if got := r.Tap(-1); got != 4 {
		t.Fatalf("Tap(-1) = %v, want newest 4", got)
	}

	if got := r.Tap(99); got != 1 {
		t.Fatalf("Tap(99) = %v, want oldest 1", got)
	}
}

func TestTapSineQuality(t *testing.T) {
	const (
		freq = 0.02
		size = 256
	)
	r, err := NewRing(size)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < size; i++ {
		r.Push(math.Sin(2 * math.Pi * freq * float64(i)))
	}

	delay := 20.37
	exact := float64(size-1) - delay
	want := math.Sin(2 * math.Pi * freq * exact)
	if got := r.Tap(delay); !approxEqual(got, want, 0.01) {
		t.Fatalf("got %v want %v", got, want)
	}
}

// --- reset ---

func TestReset(t *testing.T) {
	r, err := NewRing(4)
	if err != nil {
		t.Fatal(err)
	}

	r.Push(1)
	r.Push(2)
	r.Reset()

	if r.Written() != 0 {
		t.Fatalf("Written after reset: got %d want 0", r.Written())
	}

	got := make([]float64, r.Cap())
	for i := range got {
		got[i] = r.Tap(float64(i))
	}

	if diff := cmp.Diff(make([]float64, r.Cap()), got); diff != "" {
		t.Fatalf("reset ring not silent (-want +got):\n%s", diff)
	}

	r.Push(7)
	if got := r.Tap(0); got != 7 {
		t.Fatalf("Tap(0) after reset+push = %v, want 7", got)
	}
}

// --- benchmarks ---

func BenchmarkPush(b *testing.B) {
	r, _ := NewRing(4096)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		r.Push(float64(i))
	}
}

func BenchmarkTap(b *testing.B) {
	r, _ := NewRing(1024)
	for i := 0; i < r.Cap(); i++ {
		r.Push(float64(i))
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		r.Tap(100.37)
	}
}
