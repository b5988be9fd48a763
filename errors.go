package lninvoice

import (
	"errors"
	"fmt"

	"github.com/lnsuite/lninvoice/bolt11"
)

// ErrorKind classifies the failures that can occur while parsing or
// validating a payment request. Callers branch on the kind rather than on
// error strings.
type ErrorKind uint8

const (
	// KindGeneric is the catch-all kind for failures that do not fit a
	// more specific classification.
	KindGeneric ErrorKind = iota

	// KindEmptyInput means the input contained no invoice at all after
	// trimming whitespace and the URI scheme prefix.
	KindEmptyInput

	// KindMalformedEncoding means the input could not be decoded as a
	// bech32 payment request: bad checksum, broken tagged fields or a
	// signature that does not verify.
	KindMalformedEncoding

	// KindValidation means the invoice decoded but violates a semantic
	// requirement, such as a missing payment secret.
	KindValidation

	// KindInvalidNetwork means the invoice was minted for a different
	// Bitcoin network than the one expected by the caller.
	KindInvalidNetwork
)

// String returns a human readable name for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindEmptyInput:
		return "empty input"
	case KindMalformedEncoding:
		return "malformed encoding"
	case KindValidation:
		return "validation"
	case KindInvalidNetwork:
		return "invalid network"
	default:
		return "generic"
	}
}

// Error is the error type returned by this package. It carries a Kind for
// programmatic handling and wraps the underlying cause.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Err is the underlying cause, may be nil.
	Err error
}

// Error returns the error rendered as "<kind>: <cause>".
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}

	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// newError wraps err with the given kind.
func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// errorf is a convenience around newError and fmt.Errorf.
func errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return newError(kind, fmt.Errorf(format, args...))
}

// classifyDecodeError maps an error returned by the bolt11 package onto our
// error kinds. Structural failures become KindMalformedEncoding, semantic
// ones KindValidation.
func classifyDecodeError(err error) *Error {
	var parseErr *bolt11.ParseError
	if errors.As(err, &parseErr) {
		return newError(KindMalformedEncoding, parseErr.Err)
	}

	var semErr *bolt11.SemanticError
	if errors.As(err, &semErr) {
		return newError(KindValidation, semErr.Err)
	}

	return newError(KindGeneric, err)
}
