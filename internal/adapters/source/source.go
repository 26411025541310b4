// Package source provides the byte sources an echo session can read from:
// a file, a TCP server the listener dials, and a TCP client that dials the
// listener.
//
// Every ReadChunk returns a freshly allocated slice; ownership passes to the
// caller. End of stream is reported as io.EOF.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/bft-labs/cltuecho/internal/ports"
)

// DefaultChunkSize is the read size used when none is configured.
const DefaultChunkSize = 64

var (
	_ ports.ByteSource = (*FileSource)(nil)
	_ ports.ByteSource = (*ClientSource)(nil)
	_ ports.ByteSource = (*ServerSource)(nil)
)

func chunkSize(n int) int {
	if n <= 0 {
		return DefaultChunkSize
	}
	return n
}

// readConn reads one chunk from conn. A cancelled ctx interrupts the read
// by expiring the connection's read deadline.
func readConn(ctx context.Context, conn net.Conn, size int) ([]byte, error) {
	if err := conn.SetReadDeadline(time.Time{}); err != nil {
		return nil, fmt.Errorf("clear read deadline: %w", err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	buf := make([]byte, size)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			return buf[:n], nil
		}
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read %s: %w", conn.RemoteAddr(), err)
	}
}
