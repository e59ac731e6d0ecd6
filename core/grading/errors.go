package grading

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange matches any *OutOfRangeError with errors.Is.
	ErrOutOfRange = errors.New("value out of range")
	// ErrEmptyInput matches any *EmptyInputError with errors.Is.
	ErrEmptyInput = errors.New("empty input")
)

// OutOfRangeError reports a raw input outside its allowed closed interval.
type OutOfRangeError struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s must be between %d and %d (got %d)", e.Field, e.Min, e.Max, e.Value)
}

func (e *OutOfRangeError) Is(target error) bool { return target == ErrOutOfRange }

// EmptyInputError reports an aggregate requested over nothing.
type EmptyInputError struct {
	Op string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: no input to compute from", e.Op)
}

func (e *EmptyInputError) Is(target error) bool { return target == ErrEmptyInput }

func checkRange(field string, v, min, max int) error {
	if v < min || v > max {
		return &OutOfRangeError{Field: field, Value: v, Min: min, Max: max}
	}
	return nil
}
