package source

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/bft-labs/cltuecho/internal/domain"
)

// ServerSource listens on Addr and reads from one accepted connection at a
// time. The listener outlives individual connections so a session can
// reconnect by accepting the next one.
type ServerSource struct {
	Addr      string
	ChunkSize int

	mu   sync.Mutex
	ln   net.Listener
	conn net.Conn
}

// Listen binds the listener if it is not bound yet. Connect calls it
// lazily; calling it early makes ListenAddr available before a client
// arrives.
func (s *ServerSource) Listen(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln != nil {
		return nil
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.Addr, err)
	}
	s.ln = ln
	return nil
}

// ListenAddr returns the bound address, or "" before Listen.
func (s *ServerSource) ListenAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Connect waits for the next client connection.
func (s *ServerSource) Connect(ctx context.Context) error {
	if s.IsConnected() {
		return nil
	}
	if err := s.Listen(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()

	if tl, ok := ln.(*net.TCPListener); ok {
		if err := tl.SetDeadline(time.Time{}); err != nil {
			return fmt.Errorf("clear accept deadline: %w", err)
		}
		stop := context.AfterFunc(ctx, func() {
			_ = tl.SetDeadline(time.Now())
		})
		defer stop()
	}

	conn, err := ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("accept on %s: %w", ln.Addr(), err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	return nil
}

// IsConnected reports whether a client connection is open.
func (s *ServerSource) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// ReadChunk reads the next piece of echoed data from the current client.
func (s *ServerSource) ReadChunk(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return nil, domain.ErrNotConnected
	}
	return readConn(ctx, conn, chunkSize(s.ChunkSize))
}

// Disconnect closes the current client connection and keeps listening.
func (s *ServerSource) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// Close closes the current connection and the listener.
func (s *ServerSource) Close() error {
	err := s.Disconnect()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		if lerr := s.ln.Close(); err == nil {
			err = lerr
		}
		s.ln = nil
	}
	return err
}

func (s *ServerSource) String() string {
	if addr := s.ListenAddr(); addr != "" {
		return "server:" + addr
	}
	return "server:" + s.Addr
}
