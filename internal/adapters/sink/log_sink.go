// Package sink records decode outcomes.
//
// LogSink writes one human-readable record per CLTU to an append-only text
// file. Each record is flushed as soon as it is written so the file can be
// followed while the listener runs.
package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/bft-labs/cltuecho/internal/domain"
	"github.com/bft-labs/cltuecho/internal/ports"
)

var _ ports.ResultSink = (*LogSink)(nil)

// LogSink writes decode outcomes as text records. It is safe for concurrent
// use.
type LogSink struct {
	mu     sync.Mutex
	w      *bufio.Writer
	closer io.Closer
}

// NewLogSink returns a sink writing to w. Close does not close w.
func NewLogSink(w io.Writer) *LogSink {
	return &LogSink{w: bufio.NewWriter(w)}
}

// OpenLogFile opens path for appending, creating it if needed, and returns
// a sink that owns the file.
func OpenLogFile(path string) (*LogSink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open echo log: %w", err)
	}
	s := NewLogSink(f)
	s.closer = f
	return s, nil
}

// Received records a successfully decoded CLTU.
func (s *LogSink) Received(n uint64, cltu *domain.CLTU) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintf(s.w, "CLTU #%d - successfully received\n", n)
	if cltu != nil {
		fmt.Fprintln(s.w, cltu.String())
	}
	return s.flush()
}

// Faulted records a frame that could not be decoded.
func (s *LogSink) Faulted(n uint64, raw []byte, fault error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintf(s.w, "CLTU #%d - error\n", n)
	fmt.Fprintf(s.w, "  fault: %v\n", fault)
	fmt.Fprintf(s.w, "  raw: %X\n", raw)
	return s.flush()
}

func (s *LogSink) flush() error {
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("flush echo log: %w", err)
	}
	return nil
}

// Close flushes pending output and closes the file if the sink owns one.
func (s *LogSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.w.Flush()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
		s.closer = nil
	}
	return err
}
