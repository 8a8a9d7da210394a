package calc

import (
	"errors"
	"fmt"
)

// Error kinds returned by every calculator.
var (
	ErrInvalidInput       = errors.New("calc: invalid input")
	ErrConvergenceFailure = errors.New("calc: convergence failure")
)

// FieldError describes a rejected input field. It wraps ErrInvalidInput.
type FieldError struct {
	Field    string
	Value    any
	Expected string
}

func (e *FieldError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s: got %v, want %s", e.Field, e.Value, e.Expected)
}

func (e *FieldError) Unwrap() error { return ErrInvalidInput }

// Invalid builds a FieldError for field.
func Invalid(field string, value any, expected string) error {
	return &FieldError{Field: field, Value: value, Expected: expected}
}

// Prefix qualifies the field path of a FieldError, leaving other errors untouched.
func Prefix(prefix string, err error) error {
	var fe *FieldError
	if !errors.As(err, &fe) {
		return err
	}
	field := prefix
	if fe.Field != "" {
		field = prefix + "." + fe.Field
	}
	return &FieldError{Field: field, Value: fe.Value, Expected: fe.Expected}
}

// IndexError reports which entry of a collection was rejected.
type IndexError struct {
	Index int
	Err   error
}

func (e *IndexError) Error() string { return fmt.Sprintf("entry %d: %v", e.Index, e.Err) }

func (e *IndexError) Unwrap() error { return e.Err }

// Kind names the error class of err for logs and metric labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrConvergenceFailure):
		return "convergence_failure"
	}
	return "internal"
}
