package calculator

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is wrapped by every input violation detected by the calculator.
var ErrInvalidArgument = errors.New("invalid argument")

// RangeError reports a field whose value falls outside its closed interval.
type RangeError struct {
	Field string
	Value int64
	Min   int64
	Max   int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s=%d is out of range [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error {
	return ErrInvalidArgument
}

// CardinalityError reports a mismatch between the declared tank count and the
// number of capacities supplied.
type CardinalityError struct {
	Expected int
	Got      int
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("expected %d capacities, got %d", e.Expected, e.Got)
}

func (e *CardinalityError) Unwrap() error {
	return ErrInvalidArgument
}

// CapacityField names the capacity at index i in error reports.
func CapacityField(i int) string {
	return fmt.Sprintf("capacity[%d]", i)
}
