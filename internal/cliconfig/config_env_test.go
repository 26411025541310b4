package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"CLTUECHO_MODE":           "client",
				"CLTUECHO_ADDR":           "gse:5000",
				"CLTUECHO_CHUNK_SIZE":     "128",
				"CLTUECHO_START_SEQUENCE": "EB 90",
				"CLTUECHO_MAX_BUFFERED":   "2 MiB",
				"CLTUECHO_POLL_INTERVAL":  "1s",
				"CLTUECHO_DIAL_TIMEOUT":   "3s",
				"CLTUECHO_RECONNECT":      "true",
				"CLTUECHO_PRE_SYNCED":     "1",
				"CLTUECHO_LOG_LEVEL":      "debug",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				Mode:          "client",
				Addr:          "gse:5000",
				ChunkSize:     128,
				StartSequence: "EB 90",
				MaxBuffered:   "2 MiB",
				PollInterval:  time.Second,
				DialTimeout:   3 * time.Second,
				Reconnect:     true,
				PreSynced:     true,
				LogLevel:      "debug",
			},
			wantErr: false,
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"CLTUECHO_MODE": "server",
				"CLTUECHO_ADDR": ":6000",
			},
			changed: map[string]bool{"mode": true},
			initial: Config{
				Mode: "file",
			},
			expected: Config{
				Mode: "file",
				Addr: ":6000",
			},
			wantErr: false,
		},
		{
			name: "returns error for invalid duration",
			envVars: map[string]string{
				"CLTUECHO_STATUS_INTERVAL": "not-a-duration",
			},
			changed:  map[string]bool{},
			initial:  Config{},
			expected: Config{},
			wantErr:  true,
		},
		{
			name: "returns error for invalid int",
			envVars: map[string]string{
				"CLTUECHO_CHUNK_SIZE": "not-a-number",
			},
			changed:  map[string]bool{},
			initial:  Config{},
			expected: Config{},
			wantErr:  true,
		},
		{
			name: "ignores non-positive int",
			envVars: map[string]string{
				"CLTUECHO_CHUNK_SIZE": "0",
			},
			changed:  map[string]bool{},
			initial:  Config{ChunkSize: 64},
			expected: Config{ChunkSize: 64},
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyEnvConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyEnvConfig() unexpected error: %v", err)
				return
			}

			if !tt.wantErr {
				if cfg.Mode != tt.expected.Mode {
					t.Errorf("Mode = %v, want %v", cfg.Mode, tt.expected.Mode)
				}
				if cfg.Addr != tt.expected.Addr {
					t.Errorf("Addr = %v, want %v", cfg.Addr, tt.expected.Addr)
				}
				if cfg.StartSequence != tt.expected.StartSequence {
					t.Errorf("StartSequence = %v, want %v", cfg.StartSequence, tt.expected.StartSequence)
				}
				if cfg.MaxBuffered != tt.expected.MaxBuffered {
					t.Errorf("MaxBuffered = %v, want %v", cfg.MaxBuffered, tt.expected.MaxBuffered)
				}
				if cfg.LogLevel != tt.expected.LogLevel {
					t.Errorf("LogLevel = %v, want %v", cfg.LogLevel, tt.expected.LogLevel)
				}

				if cfg.PollInterval != tt.expected.PollInterval {
					t.Errorf("PollInterval = %v, want %v", cfg.PollInterval, tt.expected.PollInterval)
				}
				if cfg.DialTimeout != tt.expected.DialTimeout {
					t.Errorf("DialTimeout = %v, want %v", cfg.DialTimeout, tt.expected.DialTimeout)
				}

				if cfg.ChunkSize != tt.expected.ChunkSize {
					t.Errorf("ChunkSize = %v, want %v", cfg.ChunkSize, tt.expected.ChunkSize)
				}

				if cfg.Reconnect != tt.expected.Reconnect {
					t.Errorf("Reconnect = %v, want %v", cfg.Reconnect, tt.expected.Reconnect)
				}
				if cfg.PreSynced != tt.expected.PreSynced {
					t.Errorf("PreSynced = %v, want %v", cfg.PreSynced, tt.expected.PreSynced)
				}
			}
		})
	}
}

// Integration test: precedence order (CLI > Env > File)
func TestConfigPrecedence(t *testing.T) {
	trueVal := true

	fileConf := FileConfig{
		Mode:   "client",
		Addr:   "file-host:5000",
		Output: "/file/echo.log",
		Follow: &trueVal,
	}

	t.Setenv("CLTUECHO_MODE", "server")
	t.Setenv("CLTUECHO_ADDR", "env-host:5000")
	t.Setenv("CLTUECHO_STATUS_DIR", "/env/status")

	// Simulate CLI flags
	changed := map[string]bool{
		"mode": true,
	}

	cfg := DefaultConfig()
	cfg.Mode = "file"

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.Mode != "file" {
		t.Errorf("Mode = %v, want file (CLI should win)", cfg.Mode)
	}
	if cfg.Addr != "env-host:5000" {
		t.Errorf("Addr = %v, want env-host:5000 (env should override file)", cfg.Addr)
	}
	if cfg.StatusDir != "/env/status" {
		t.Errorf("StatusDir = %v, want /env/status (env should set)", cfg.StatusDir)
	}
	if cfg.Output != "/file/echo.log" {
		t.Errorf("Output = %v, want /file/echo.log (file should set)", cfg.Output)
	}
	if !cfg.Follow {
		t.Errorf("Follow = %v, want true (file should set)", cfg.Follow)
	}
	if cfg.ChunkSize != 64 {
		t.Errorf("ChunkSize = %v, want 64 (default should remain)", cfg.ChunkSize)
	}
}
