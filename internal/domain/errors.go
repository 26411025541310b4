package domain

import "errors"

// Domain errors represent error conditions in the echo listener.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrEmptyDelimiter is returned when a start or tail sequence is empty.
	ErrEmptyDelimiter = errors.New("cltuecho: empty delimiter sequence")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("cltuecho: invalid configuration")

	// ErrNotConnected is returned when reading from a source that is not connected.
	ErrNotConnected = errors.New("cltuecho: source not connected")

	// ErrBlockStructure marks a frame whose body is not a whole number of codeblocks.
	ErrBlockStructure = errors.New("block structure fault")

	// ErrUnblock marks a codeblock whose parity check failed.
	ErrUnblock = errors.New("unblock fault")

	// ErrCodec marks any other decoding failure.
	ErrCodec = errors.New("codec fault")
)
