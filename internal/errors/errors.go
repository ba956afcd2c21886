package errors

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// MultiError collects errors from multi-step operations like shutdown, where
// a failure in one step must not prevent the remaining steps from running.
// The zero value is ready to use.
type MultiError struct {
	Errors []error
}

// Append adds an error to the collection. Nil errors are ignored.
func (m *MultiError) Append(err error) {
	if err == nil {
		return
	}
	m.Errors = append(m.Errors, err)
}

// Error implements the error interface.
func (m *MultiError) Error() string {
	switch len(m.Errors) {
	case 0:
		return "no errors"
	case 1:
		return m.Errors[0].Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d errors occurred:", len(m.Errors))
	for _, err := range m.Errors {
		b.WriteString("\n  * ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// ErrorOrNil returns nil when no errors were collected, the single error
// when exactly one was, and the MultiError itself otherwise.
func (m *MultiError) ErrorOrNil() error {
	switch len(m.Errors) {
	case 0:
		return nil
	case 1:
		return m.Errors[0]
	}
	return m
}

// Unwrap exposes the collected errors to errors.Is/errors.As.
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// TransientError marks a failure that does not invalidate the overall
// operation, e.g. a shutdown step timing out while the rest proceeds.
type TransientError struct {
	Op  string
	Err error
}

// NewTransientError wraps err as a transient failure of the named operation.
func NewTransientError(op string, err error) *TransientError {
	return &TransientError{Op: op, Err: err}
}

// Error implements the error interface.
func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v (transient)", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransientError) Unwrap() error {
	return e.Err
}

// PanicError carries a recovered panic value together with the stack trace
// captured at the recovery site.
type PanicError struct {
	Value      interface{}
	StackTrace string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Recover runs fn and converts any panic into a *PanicError so callers can
// treat crashes as ordinary errors (and inspect the stack via errors.As).
func Recover(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{
				Value:      r,
				StackTrace: string(debug.Stack()),
			}
		}
	}()
	return fn()
}
