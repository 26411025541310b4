package cltuecho

import (
	"fmt"
	"time"

	"github.com/bft-labs/cltuecho/internal/adapters/source"
	"github.com/bft-labs/cltuecho/internal/domain"
)

// Mode selects where the echo stream comes from.
type Mode string

const (
	ModeFile   Mode = "file"
	ModeClient Mode = "client"
	ModeServer Mode = "server"
)

// Config holds the configuration for an echo listener.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config struct {
	// Mode selects the source. Required.
	Mode Mode

	// File is the recorded stream read in ModeFile.
	File string

	// Follow keeps reading File as it grows.
	Follow bool

	// PollInterval bounds how long a following file source waits for a
	// change notification before re-reading.
	// Default: 500ms
	PollInterval time.Duration

	// Addr is the address to dial (ModeClient) or listen on (ModeServer).
	Addr string

	// DialTimeout bounds a single connection attempt in ModeClient.
	// Default: 10s
	DialTimeout time.Duration

	// ChunkSize is the read size of the source.
	// Default: 64
	ChunkSize int

	// Start and Tail delimit a CLTU on the wire. Both must be non-empty.
	Start []byte
	Tail  []byte

	// PreSynced treats every chunk the source returns as one whole CLTU.
	PreSynced bool

	// MaxBuffered caps the bytes held while waiting for a delimiter.
	// Zero disables the cap.
	MaxBuffered int

	// Output is the echo log file. Ignored when WithSink is used.
	Output string

	// StatusDir enables status snapshots written to StatusDir/echo-status.json.
	StatusDir string

	// StatusInterval is how often the status snapshot is written.
	// Default: 5s
	StatusInterval time.Duration

	// Reconnect keeps network sessions alive across connection loss.
	// It has no effect in ModeFile.
	Reconnect bool
}

// DefaultConfig returns a Config with the CCSDS delimiters and sensible
// defaults. Mode and its source settings must still be set.
func DefaultConfig() Config {
	return Config{
		PollInterval:   source.DefaultPollInterval,
		DialTimeout:    source.DefaultDialTimeout,
		ChunkSize:      source.DefaultChunkSize,
		Start:          []byte{0xEB, 0x90},
		Tail:           []byte{0xC5, 0xC5, 0xC5, 0xC5, 0xC5, 0xC5, 0xC5, 0x79},
		MaxBuffered:    1 << 20,
		Output:         "cltu_echo.log",
		StatusInterval: 5 * time.Second,
	}
}

// SetDefaults fills zero durations and sizes with their defaults.
func (c *Config) SetDefaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = source.DefaultPollInterval
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = source.DefaultDialTimeout
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = source.DefaultChunkSize
	}
	if c.StatusInterval <= 0 {
		c.StatusInterval = 5 * time.Second
	}
}

// Validate checks the configuration. A custom source or sink supplied
// through options relaxes the corresponding requirements.
func (c Config) Validate() error {
	return c.validate(options{})
}

func (c Config) validate(o options) error {
	if len(c.Start) == 0 || len(c.Tail) == 0 {
		return fmt.Errorf("%w: start is %d bytes, tail is %d bytes",
			domain.ErrEmptyDelimiter, len(c.Start), len(c.Tail))
	}
	if c.MaxBuffered < 0 || (c.MaxBuffered > 0 && c.MaxBuffered < len(c.Start)+len(c.Tail)) {
		return fmt.Errorf("%w: max buffered %d", domain.ErrInvalidConfig, c.MaxBuffered)
	}

	if o.source == nil {
		switch c.Mode {
		case ModeFile:
			if c.File == "" {
				return fmt.Errorf("%w: file is required in file mode", domain.ErrInvalidConfig)
			}
		case ModeClient, ModeServer:
			if c.Addr == "" {
				return fmt.Errorf("%w: addr is required in %s mode", domain.ErrInvalidConfig, c.Mode)
			}
		default:
			return fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidConfig, c.Mode)
		}
	}
	if o.sink == nil && c.Output == "" {
		return fmt.Errorf("%w: output is required", domain.ErrInvalidConfig)
	}
	return nil
}
