package ports

import (
	"context"
	"io"
)

// ByteSource delivers a raw byte stream in chunks of arbitrary size.
// Only connection establishment differs between implementations.
type ByteSource interface {
	// Connect establishes the underlying file or socket connection.
	// It blocks until connected or ctx is done.
	Connect(ctx context.Context) error

	// IsConnected reports whether ReadChunk may be called.
	IsConnected() bool

	// ReadChunk returns the next chunk of bytes. Ownership of the returned
	// slice passes to the caller. Returns io.EOF at the end of the stream.
	ReadChunk(ctx context.Context) ([]byte, error)

	// Disconnect releases the connection. It is safe to call when not connected.
	Disconnect() error

	// String describes the source for logs and status.
	String() string
}

// ErrEndOfStream indicates that the source has no more data.
var ErrEndOfStream = io.EOF
