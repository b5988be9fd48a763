package bolt11

// ParseError is returned when the bech32 container of an invoice cannot be
// read at all: a checksum failure, a wrong bit-group count, a truncated
// tagged field, or an otherwise malformed data part.
type ParseError struct {
	Err error
}

// Error returns the string representation of the wrapped failure.
func (e *ParseError) Error() string {
	return "unable to parse invoice: " + e.Err.Error()
}

// Unwrap returns the underlying failure.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// SemanticError is returned when the container could be read, but its
// contents violate BOLT-0011 semantics: a bad amount expression, a wrong
// network prefix, a missing mandatory field, or a signature that fails
// verification or recovery.
type SemanticError struct {
	Err error
}

// Error returns the string representation of the wrapped failure.
func (e *SemanticError) Error() string {
	return "invalid invoice: " + e.Err.Error()
}

// Unwrap returns the underlying failure.
func (e *SemanticError) Unwrap() error {
	return e.Err
}
