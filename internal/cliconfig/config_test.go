package cliconfig

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bft-labs/cltuecho/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != ModeFile {
		t.Errorf("Mode = %v, want file", cfg.Mode)
	}
	if cfg.ChunkSize != 64 {
		t.Errorf("ChunkSize = %v, want 64", cfg.ChunkSize)
	}
	if cfg.StartSequence != "EB90" || cfg.TailSequence != "C5C5C5C5C5C5C579" {
		t.Errorf("delimiters = %s/%s", cfg.StartSequence, cfg.TailSequence)
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Errorf("PollInterval = %v, want 500ms", cfg.PollInterval)
	}
	if cfg.Output != "cltu_echo.log" {
		t.Errorf("Output = %v, want cltu_echo.log", cfg.Output)
	}
}

func TestConfig_ValidateDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.File = "/data/echo.bin"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]byte{0xEB, 0x90}, cfg.Start); diff != "" {
		t.Errorf("Start mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]byte{0xC5, 0xC5, 0xC5, 0xC5, 0xC5, 0xC5, 0xC5, 0x79}, cfg.Tail); diff != "" {
		t.Errorf("Tail mismatch (-want +got):\n%s", diff)
	}
	if cfg.MaxBufferedBytes != 1<<20 {
		t.Errorf("MaxBufferedBytes = %d, want %d", cfg.MaxBufferedBytes, 1<<20)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:   "file mode",
			modify: func(c *Config) { c.File = "/data/echo.bin" },
		},
		{
			name:   "client mode",
			modify: func(c *Config) { c.Mode = ModeClient; c.Addr = "localhost:5000" },
		},
		{
			name:   "server mode",
			modify: func(c *Config) { c.Mode = ModeServer; c.Addr = ":5000" },
		},
		{
			name:    "file mode without file",
			modify:  func(c *Config) {},
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name:    "client mode without addr",
			modify:  func(c *Config) { c.Mode = ModeClient },
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name:    "unknown mode",
			modify:  func(c *Config) { c.Mode = "serial" },
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name:    "empty start",
			modify:  func(c *Config) { c.File = "x"; c.StartSequence = "" },
			wantErr: domain.ErrEmptyDelimiter,
		},
		{
			name:    "empty tail after separators",
			modify:  func(c *Config) { c.File = "x"; c.TailSequence = "0x :" },
			wantErr: domain.ErrEmptyDelimiter,
		},
		{
			name:    "bad hex",
			modify:  func(c *Config) { c.File = "x"; c.StartSequence = "EBZ0" },
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name:    "zero chunk size",
			modify:  func(c *Config) { c.File = "x"; c.ChunkSize = 0 },
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name:    "cap below delimiters",
			modify:  func(c *Config) { c.File = "x"; c.MaxBuffered = "4" },
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name:   "cap disabled",
			modify: func(c *Config) { c.File = "x"; c.MaxBuffered = "0" },
		},
		{
			name:    "bad cap",
			modify:  func(c *Config) { c.File = "x"; c.MaxBuffered = "lots" },
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name:    "missing output",
			modify:  func(c *Config) { c.File = "x"; c.Output = "" },
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name:    "status dir without interval",
			modify:  func(c *Config) { c.File = "x"; c.StatusDir = "/tmp"; c.StatusInterval = 0 },
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.File = "x"; c.LogLevel = "chatty" },
			wantErr: domain.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    []byte
		wantErr bool
	}{
		{"EB90", []byte{0xEB, 0x90}, false},
		{"eb 90", []byte{0xEB, 0x90}, false},
		{"0xEB90", []byte{0xEB, 0x90}, false},
		{"EB:90", []byte{0xEB, 0x90}, false},
		{" C5-C5_79 ", []byte{0xC5, 0xC5, 0x79}, false},
		{"EB9", nil, true},
		{"GG", nil, true},
		{"", nil, true},
	}

	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseHex(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"65536", 65536, false},
		{"1 MiB", 1 << 20, false},
		{"64k", 64000, false},
		{"lots", 0, true},
		{"100 GiB", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseSize(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestConfigSetter(t *testing.T) {
	s := newConfigSetter(map[string]bool{"addr": true, "chunk-size": true})

	addr := "flag:1"
	s.setString("addr", "file:2", &addr)
	if addr != "flag:1" {
		t.Errorf("changed flag overwritten: %s", addr)
	}

	size := 64
	s.setInt("chunk-size", 128, &size)
	if size != 64 {
		t.Errorf("changed flag overwritten: %d", size)
	}

	follow := false
	yes := true
	s.setBool("follow", &yes, &follow)
	if !follow {
		t.Error("setBool did not apply")
	}
	s.setBool("follow", nil, &follow)
	if !follow {
		t.Error("setBool(nil) changed the value")
	}
}
