package source

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/bft-labs/cltuecho/internal/domain"
)

// DefaultDialTimeout bounds a single connection attempt.
const DefaultDialTimeout = 10 * time.Second

// ClientSource dials a TCP echo server and reads the echoed bytes.
type ClientSource struct {
	Addr        string
	ChunkSize   int
	DialTimeout time.Duration

	conn net.Conn
}

// Connect dials Addr. It returns immediately when already connected.
func (s *ClientSource) Connect(ctx context.Context) error {
	if s.conn != nil {
		return nil
	}
	timeout := s.DialTimeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}

	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.Addr, err)
	}
	s.conn = conn
	return nil
}

// IsConnected reports whether a connection is open.
func (s *ClientSource) IsConnected() bool {
	return s.conn != nil
}

// ReadChunk reads the next piece of echoed data.
func (s *ClientSource) ReadChunk(ctx context.Context) ([]byte, error) {
	if s.conn == nil {
		return nil, domain.ErrNotConnected
	}
	return readConn(ctx, s.conn, chunkSize(s.ChunkSize))
}

// Disconnect closes the connection.
func (s *ClientSource) Disconnect() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func (s *ClientSource) String() string {
	return "client:" + s.Addr
}
