package ports

import "github.com/bft-labs/cltuecho/internal/domain"

// ResultSink records the outcome of each emitted frame.
// Frame numbers start at 1 and increase by one per frame, good or bad.
type ResultSink interface {
	// Received records a successfully decoded frame.
	Received(n uint64, cltu *domain.CLTU) error

	// Faulted records a frame that failed to decode, with its raw bytes.
	Faulted(n uint64, raw []byte, fault error) error
}
