package ports

import "github.com/bft-labs/cltuecho/internal/domain"

// FrameDecoder decodes a delimited frame, start and tail sequences included.
type FrameDecoder interface {
	// Decode returns the decoded CLTU, or a *domain.DecodeFault when the
	// frame content is malformed. Decode must not modify frame.
	Decode(frame []byte) (*domain.CLTU, error)
}
