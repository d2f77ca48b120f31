package validation

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// ErrInvalidInput is wrapped by every aggregated validation failure.
var ErrInvalidInput = errors.New("input validation failed")

// ErrMissingHeader is reported when the tank count or inflow rate token is absent.
var ErrMissingHeader = errors.New("expected at least tank count and inflow rate")

// ParseError reports a token that is not a well-formed integer.
type ParseError struct {
	Field string
	Token string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s must be an integer (got %q)", e.Field, e.Token)
}

// Error aggregates every violation discovered for one input.
type Error struct {
	err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(ErrInvalidInput.Error())
	b.WriteString(":")
	for _, err := range multierr.Errors(e.err) {
		b.WriteString("\n- ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Is reports ErrInvalidInput as well as any individual violation.
func (e *Error) Is(target error) bool {
	return target == ErrInvalidInput || errors.Is(e.err, target)
}

// As matches the individual violations.
func (e *Error) As(target any) bool {
	return errors.As(e.err, target)
}

// Violations returns the individual errors in discovery order.
func (e *Error) Violations() []error {
	return multierr.Errors(e.err)
}

func aggregate(err error) error {
	if err == nil {
		return nil
	}
	return &Error{err: err}
}
