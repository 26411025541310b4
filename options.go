package cltuecho

import (
	"github.com/bft-labs/cltuecho/internal/domain"
	"github.com/bft-labs/cltuecho/internal/ports"
	"github.com/bft-labs/cltuecho/pkg/log"
)

// Re-export types so callers can supply their own pipeline stages.
type (
	// ByteSource produces the raw echo stream.
	ByteSource = ports.ByteSource

	// FrameDecoder turns a delimited frame into a CLTU.
	FrameDecoder = ports.FrameDecoder

	// ResultSink records decode outcomes.
	ResultSink = ports.ResultSink

	// StatusRepository persists session snapshots.
	StatusRepository = ports.StatusRepository

	// CLTU is a decoded Communications Link Transmission Unit.
	CLTU = domain.CLTU

	// Status is a point-in-time snapshot of a session.
	Status = domain.Status

	// Stats holds the frame synchronizer counters.
	Stats = domain.Stats
)

// Option configures optional behavior of Echo.
type Option func(*options)

// options holds the optional configuration for an Echo instance.
type options struct {
	logger     log.Logger
	source     ports.ByteSource
	sink       ports.ResultSink
	decoder    ports.FrameDecoder
	statusRepo ports.StatusRepository
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSource replaces the source selected by Config.Mode.
func WithSource(src ByteSource) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithSink replaces the echo log file. Config.Output is then ignored.
func WithSink(sink ResultSink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithDecoder replaces the CLTU decoder.
func WithDecoder(decoder FrameDecoder) Option {
	return func(o *options) {
		o.decoder = decoder
	}
}

// WithStatusRepository replaces the status file selected by
// Config.StatusDir. It enables status snapshots even without StatusDir.
func WithStatusRepository(repo StatusRepository) Option {
	return func(o *options) {
		o.statusRepo = repo
	}
}
