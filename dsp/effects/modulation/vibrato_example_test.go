package modulation_test

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vibrato/dsp/effects/modulation"
)

func ExampleVibrato_Process() {
	// Zero width degenerates to a fixed three-sample delay.
	vibrato, err := modulation.NewVibrato(3, 1, 0, 5, 1)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	in := [][]float64{{1, 1, 1, 1, 1}}
	out := [][]float64{make([]float64, 5)}
	if err := vibrato.Process(in, out); err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(out[0])
	// Output:
	// [0 0 0 1 1]
}

func ExampleNewVibrato_invalidParameter() {
	_, err := modulation.NewVibrato(44100, 0.005, 0.01, 5, 2)

	var perr *modulation.InvalidParameterError
	if errors.As(err, &perr) {
		fmt.Printf("%s=%g\n", perr.Name, perr.Value)
	}

	fmt.Println(errors.Is(err, modulation.ErrInvalidParameter))
	// Output:
	// width=0.01
	// true
}
