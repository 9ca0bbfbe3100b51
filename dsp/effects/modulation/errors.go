package modulation

import (
	"errors"
	"fmt"
)

// Errors returned by Vibrato.
var (
	ErrInvalidParameter = errors.New("vibrato: invalid parameter")
	ErrChannelMismatch  = errors.New("vibrato: channel count mismatch")
	ErrLengthMismatch   = errors.New("vibrato: input and output length mismatch")
)

// InvalidParameterError names a rejected construction or reconfiguration
// parameter and the value it was given.
type InvalidParameterError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("vibrato %s is invalid: %g", e.Name, e.Value)
	}

	return fmt.Sprintf("vibrato %s %s: %g", e.Name, e.Reason, e.Value)
}

// Is reports ErrInvalidParameter as a match.
func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

func invalidParam(name string, value float64, reason string) error {
	return &InvalidParameterError{Name: name, Value: value, Reason: reason}
}
