package framesync

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/bft-labs/cltuecho/internal/chunkbuf"
	"github.com/bft-labs/cltuecho/internal/domain"
	"github.com/bft-labs/cltuecho/internal/ports"
	"github.com/bft-labs/cltuecho/pkg/log"
)

// ErrNilCollaborator is returned by New when the decoder or sink is missing.
var ErrNilCollaborator = errors.New("framesync: decoder and sink are required")

// State is the synchronization state.
type State int

const (
	NoFrame State = iota
	FrameStarted
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case NoFrame:
		return "NoFrame"
	case FrameStarted:
		return "FrameStarted"
	default:
		return "Unknown"
	}
}

// Config holds the synchronizer settings, fixed for its lifetime.
type Config struct {
	// Start is the sequence that opens a frame.
	Start []byte

	// Tail is the sequence that closes a frame.
	Tail []byte

	// PreSynced treats every chunk as one complete frame.
	PreSynced bool

	// MaxBuffered caps the bytes held while waiting for a delimiter.
	// Zero means no cap.
	MaxBuffered int
}

// Synchronizer turns a sequence of chunks into a sequence of frames.
type Synchronizer struct {
	start       []byte
	tail        []byte
	preSynced   bool
	maxBuffered int

	decoder ports.FrameDecoder
	sink    ports.ResultSink
	logger  log.Logger

	buf         *chunkbuf.Buffer
	state       State
	startOffset int
	// tailFrom is where the next tail search begins; bytes before it were
	// already ruled out as the beginning of a tail.
	tailFrom int

	stats domain.Stats
}

// New creates a Synchronizer. Empty delimiters are rejected here, before any
// data flows, even in pre-synced mode.
func New(cfg Config, decoder ports.FrameDecoder, sink ports.ResultSink, logger log.Logger) (*Synchronizer, error) {
	if len(cfg.Start) == 0 || len(cfg.Tail) == 0 {
		return nil, fmt.Errorf("%w: start is %d bytes, tail is %d bytes",
			domain.ErrEmptyDelimiter, len(cfg.Start), len(cfg.Tail))
	}
	if decoder == nil || sink == nil {
		return nil, ErrNilCollaborator
	}
	if cfg.MaxBuffered < 0 {
		return nil, fmt.Errorf("%w: negative buffer cap %d", domain.ErrInvalidConfig, cfg.MaxBuffered)
	}
	if minFrame := len(cfg.Start) + len(cfg.Tail); cfg.MaxBuffered > 0 && cfg.MaxBuffered < minFrame {
		return nil, fmt.Errorf("%w: buffer cap %d is smaller than the delimiters (%d bytes)",
			domain.ErrInvalidConfig, cfg.MaxBuffered, minFrame)
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	return &Synchronizer{
		start:       append([]byte(nil), cfg.Start...),
		tail:        append([]byte(nil), cfg.Tail...),
		preSynced:   cfg.PreSynced,
		maxBuffered: cfg.MaxBuffered,
		decoder:     decoder,
		sink:        sink,
		logger:      logger,
		buf:         chunkbuf.New(),
		state:       NoFrame,
	}, nil
}

// OnChunk feeds one chunk into the synchronizer and emits every frame it
// completes. Ownership of chunk passes to the synchronizer.
//
// The only error returned is a sink failure; the frame that triggered it
// has already been consumed.
func (s *Synchronizer) OnChunk(chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}
	s.stats.BytesIn += uint64(len(chunk))

	if s.preSynced {
		return s.emit(chunk)
	}

	s.buf.Consume(chunk)
	for {
		progressed, err := s.step()
		if err != nil {
			return err
		}
		if progressed {
			continue
		}
		if !s.enforceCap() {
			return nil
		}
	}
}

// step performs one transition. It reports whether the state changed in a
// way that warrants another step.
func (s *Synchronizer) step() (bool, error) {
	switch s.state {
	case NoFrame:
		if i, ok := s.buf.FindSequence(s.start, 0); ok {
			s.state = FrameStarted
			s.startOffset = i
			s.tailFrom = i + len(s.start)
			return true, nil
		}
		s.evictUnreachable()
		return false, nil

	case FrameStarted:
		j, ok := s.buf.FindSequence(s.tail, s.tailFrom)
		if !ok {
			if next := s.buf.Len() - len(s.tail) + 1; next > s.tailFrom {
				s.tailFrom = next
			}
			return false, nil
		}
		end := j + len(s.tail)
		frame, err := s.buf.Materialize(s.startOffset, end-s.startOffset)
		if err != nil {
			return false, fmt.Errorf("materialize frame: %w", err)
		}
		s.buf.DropThrough(end)
		s.resetFrame()
		return true, s.emit(frame)
	}
	return false, nil
}

// evictUnreachable drops leading chunks while no start sequence is buffered.
// The search always restarts at offset 0, so a chunk can only matter if a
// start sequence could begin inside it. With the start absent, a partial
// start can only sit in the last len(start)-1 bytes; once more than
// len(start) bytes follow the oldest chunk, none of them belong to it.
func (s *Synchronizer) evictUnreachable() {
	for s.buf.Chunks() > 1 && s.buf.Len() > s.buf.FirstChunkLen()+len(s.start) {
		s.buf.DropFirstChunk()
	}
}

// enforceCap discards data when the buffer exceeds MaxBuffered.
// It reports whether anything was discarded.
func (s *Synchronizer) enforceCap() bool {
	if s.maxBuffered == 0 || s.buf.Len() <= s.maxBuffered {
		return false
	}

	before := s.buf.Len()
	abandoned := s.state
	switch s.state {
	case NoFrame:
		// Keep only what could still be the beginning of a start sequence.
		s.buf.DropThrough(before - (len(s.start) - 1))
	case FrameStarted:
		// Abandon the pending frame; the rescan may find a later start.
		s.buf.DropThrough(s.startOffset + 1)
		s.resetFrame()
	}
	s.stats.Overflows++

	s.logger.Warn("buffer cap exceeded, discarding data",
		log.String("state", abandoned.String()),
		log.String("buffered", humanize.Bytes(uint64(before))),
		log.String("cap", humanize.Bytes(uint64(s.maxBuffered))),
		log.Int("dropped", before-s.buf.Len()),
	)
	return true
}

// emit numbers the frame, decodes it and reports the outcome.
func (s *Synchronizer) emit(frame []byte) error {
	s.stats.Frames++
	n := s.stats.Frames

	cltu, err := s.decoder.Decode(frame)
	if err != nil {
		s.stats.Faults++
		s.logger.Warn("frame decode fault",
			log.Uint64("frame", n),
			log.Int("bytes", len(frame)),
			log.Err(err),
		)
		if serr := s.sink.Faulted(n, frame, err); serr != nil {
			return fmt.Errorf("record frame %d: %w", n, serr)
		}
		return nil
	}

	s.stats.Received++
	s.logger.Debug("frame received",
		log.Uint64("frame", n),
		log.Int("bytes", len(frame)),
		log.Int("codeblocks", len(cltu.Codeblocks)),
	)
	if serr := s.sink.Received(n, cltu); serr != nil {
		return fmt.Errorf("record frame %d: %w", n, serr)
	}
	return nil
}

func (s *Synchronizer) resetFrame() {
	s.state = NoFrame
	s.startOffset = 0
	s.tailFrom = 0
}

// Reset drops all buffered data and any pending frame. Counters are kept.
func (s *Synchronizer) Reset() {
	s.buf.Reset()
	s.resetFrame()
}

// State returns the current synchronization state.
func (s *Synchronizer) State() State {
	return s.state
}

// StartOffset returns the offset of the pending start sequence, if any.
func (s *Synchronizer) StartOffset() (int, bool) {
	if s.state != FrameStarted {
		return 0, false
	}
	return s.startOffset, true
}

// FrameCount returns the number of frames emitted so far.
func (s *Synchronizer) FrameCount() uint64 {
	return s.stats.Frames
}

// Buffered returns the number of bytes held for synchronization.
func (s *Synchronizer) Buffered() int {
	return s.buf.Len()
}

// Stats returns a copy of the synchronizer counters.
func (s *Synchronizer) Stats() domain.Stats {
	st := s.stats
	st.Buffered = s.buf.Len()
	return st
}
