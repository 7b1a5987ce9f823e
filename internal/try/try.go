// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package try provides deferrable helpers which fold cleanup failures and
// recovered panics into a named error return value.
package try

import (
	"errors"
	"fmt"
	"io"
)

// PanicError wraps a value recovered from a panic.
type PanicError struct {
	Value any
}

// Error implements the error interface.
func (e PanicError) Error() string {
	return fmt.Sprintf("recovered from panic: %v", e.Value)
}

// Unwrap returns the recovered value if it is itself an error.
func (e PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// Recover must be deferred. Any recovered panic is joined with the
// error referenced by err.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	*err = join(*err, PanicError{Value: r})
}

// CloseError occurs when an io.Closer fails to close.
type CloseError struct {
	Cause error
}

// Error implements the error interface.
func (e CloseError) Error() string {
	return fmt.Sprintf("failed to close: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e CloseError) Unwrap() error {
	return e.Cause
}

// Close closes v, if it's an io.Closer, and joins any resulting
// failure with the error referenced by err.
func Close(err *error, v any) {
	c, ok := v.(io.Closer)
	if !ok || c == nil {
		return
	}

	cerr := c.Close()
	if cerr == nil {
		return
	}
	*err = join(*err, CloseError{Cause: cerr})
}

func join(err, other error) error {
	if err == nil {
		return other
	}
	return errors.Join(err, other)
}
