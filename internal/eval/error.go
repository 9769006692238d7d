// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an evaluation failure.
type ErrorKind int

const (
	// Unclassified is any failure not covered by a more specific kind.
	Unclassified ErrorKind = iota
	// DivisionByZero means a divisor evaluated to zero.
	DivisionByZero
	// InvalidExpression means the input could not be parsed or was misused
	// (wrong argument count, calling a value).
	InvalidExpression
	// DomainError means an argument fell outside a function's domain.
	DomainError
	// UndefinedReference means a name is not bound.
	UndefinedReference
)

// String returns the name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case DivisionByZero:
		return "DivisionByZero"
	case InvalidExpression:
		return "InvalidExpression"
	case DomainError:
		return "DomainError"
	case UndefinedReference:
		return "UndefinedReference"
	default:
		return "Unclassified"
	}
}

// Message returns the fixed user-facing message for the kind.
// Unclassified has no fixed message; see Error.Message.
func (k ErrorKind) Message() string {
	switch k {
	case DivisionByZero:
		return "Divide by zero"
	case InvalidExpression:
		return "invalid expression"
	case DomainError:
		return "math domain error"
	case UndefinedReference:
		return "undefined name"
	default:
		return "evaluation failed"
	}
}

// Error is the only error type Evaluate returns.
type Error struct {
	Kind   ErrorKind
	Detail string // e.g. "sqrt of negative number"
	Err    error  // underlying cause, if any
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Errorf returns an *Error of the given kind with a formatted detail.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return newError(kind, format, args...)
}

// Error returns the kind message with its detail, suitable for logs.
func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.Message()
	}
	if e.Kind == Unclassified {
		return e.Detail
	}
	return e.Kind.Message() + ": " + e.Detail
}

// Message returns the text shown to users. Every kind but Unclassified has a
// fixed message; Unclassified carries the underlying description.
func (e *Error) Message() string {
	if e.Kind == Unclassified && e.Detail != "" {
		return e.Detail
	}
	return e.Kind.Message()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err. Errors that are not *Error are Unclassified.
func KindOf(err error) ErrorKind {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return Unclassified
}

// AsError converts any error into an *Error, preserving an existing one.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}
	return &Error{Kind: Unclassified, Detail: err.Error(), Err: err}
}
