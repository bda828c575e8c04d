package model

import (
	"errors"
	"fmt"
	"strings"
)

// InvalidInputError reports an input rejected before any computation runs.
// It is fatal to the call that produced it and to nothing else.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

// NewInvalidInput builds an InvalidInputError.
func NewInvalidInput(field, reason string) *InvalidInputError {
	return &InvalidInputError{Field: field, Reason: reason}
}

// IsInvalidInput returns true if err (or any error in its chain) is an
// InvalidInputError.
func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}

// ValidationErrors collects every InvalidInputError found on a value.
type ValidationErrors []*InvalidInputError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Field+" "+e.Reason)
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the individual errors to errors.As / errors.Is.
func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, e := range v {
		errs[i] = e
	}
	return errs
}

// orNil returns nil when no errors were collected.
func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
