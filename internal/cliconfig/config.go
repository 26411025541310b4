package cliconfig

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/bft-labs/cltuecho/internal/domain"
	"github.com/bft-labs/cltuecho/pkg/log"
)

// Source modes.
const (
	ModeFile   = "file"
	ModeClient = "client"
	ModeServer = "server"
)

// Defaults for the CCSDS CLTU delimiters.
const (
	DefaultStartSequence = "EB90"
	DefaultTailSequence  = "C5C5C5C5C5C5C579"
)

// Config holds CLI configuration for cltuecho.
type Config struct {
	Mode   string
	File   string
	Follow bool
	Addr   string

	ChunkSize     int
	StartSequence string
	TailSequence  string
	PreSynced     bool
	MaxBuffered   string

	Output         string
	StatusDir      string
	StatusInterval time.Duration
	PollInterval   time.Duration
	Reconnect      bool
	DialTimeout    time.Duration
	LogLevel       string

	// Set by Validate.
	Start            []byte
	Tail             []byte
	MaxBufferedBytes int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Mode:           ModeFile,
		ChunkSize:      64,
		StartSequence:  DefaultStartSequence,
		TailSequence:   DefaultTailSequence,
		MaxBuffered:    "1 MiB",
		Output:         "cltu_echo.log",
		StatusInterval: 5 * time.Second,
		PollInterval:   500 * time.Millisecond,
		DialTimeout:    10 * time.Second,
		LogLevel:       "info",
	}
}

// Validate checks the configuration for errors and sets derived values.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeFile:
		if c.File == "" {
			return invalid("file is required in %s mode", c.Mode)
		}
	case ModeClient, ModeServer:
		if c.Addr == "" {
			return invalid("addr is required in %s mode", c.Mode)
		}
	default:
		return invalid("unknown mode %q (want file, client or server)", c.Mode)
	}

	if c.ChunkSize <= 0 {
		return invalid("chunk size must be positive")
	}

	start, err := ParseHex(c.StartSequence)
	if err != nil {
		return fmt.Errorf("start sequence: %w", err)
	}
	tail, err := ParseHex(c.TailSequence)
	if err != nil {
		return fmt.Errorf("tail sequence: %w", err)
	}
	c.Start, c.Tail = start, tail

	maxBuffered, err := ParseSize(c.MaxBuffered)
	if err != nil {
		return fmt.Errorf("max buffered: %w", err)
	}
	if maxBuffered > 0 && maxBuffered < len(start)+len(tail) {
		return invalid("max buffered %s is smaller than the delimiters", c.MaxBuffered)
	}
	c.MaxBufferedBytes = maxBuffered

	if c.Output == "" {
		return invalid("output is required")
	}
	if c.PollInterval <= 0 {
		return invalid("poll interval must be positive")
	}
	if c.DialTimeout <= 0 {
		return invalid("dial timeout must be positive")
	}
	if c.StatusDir != "" && c.StatusInterval <= 0 {
		return invalid("status interval must be positive")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return invalid("%v", err)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// ParseHex decodes a delimiter written as hex digits. An optional 0x
// prefix and space, colon, dash or underscore separators are accepted:
// "EB90", "eb 90", "0xEB90" and "EB:90" are equivalent.
func ParseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', ':', '-', '_':
			return -1
		}
		return r
	}, s)

	if s == "" {
		return nil, domain.ErrEmptyDelimiter
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not hex: %v", domain.ErrInvalidConfig, s, err)
	}
	return b, nil
}

// ParseSize parses a byte size such as "1 MiB", "64k" or "65536".
// An empty string or "0" disables the limit.
func ParseSize(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: size %s is too large", domain.ErrInvalidConfig, s)
	}
	return int(n), nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
