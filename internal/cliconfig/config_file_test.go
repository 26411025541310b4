package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true
	falseVal := false

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				Mode:           "server",
				Addr:           ":5000",
				ChunkSize:      256,
				TailSequence:   "C5C5",
				StatusInterval: "30s",
				Reconnect:      &trueVal,
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				Mode:           "server",
				Addr:           ":5000",
				ChunkSize:      256,
				TailSequence:   "C5C5",
				StatusInterval: 30 * time.Second,
				Reconnect:      true,
			},
			wantErr: false,
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				File:      "/config/echo.bin",
				ChunkSize: 16,
			},
			changed: map[string]bool{"file": true, "chunk-size": true},
			initial: Config{
				File:      "/cli/echo.bin",
				ChunkSize: 64,
			},
			expected: Config{
				File:      "/cli/echo.bin",
				ChunkSize: 64,
			},
			wantErr: false,
		},
		{
			name: "explicit false overrides true",
			fileConfig: FileConfig{
				Follow: &falseVal,
			},
			changed: map[string]bool{},
			initial: Config{
				Follow: true,
			},
			expected: Config{
				Follow: false,
			},
			wantErr: false,
		},
		{
			name: "returns error for invalid duration",
			fileConfig: FileConfig{
				DialTimeout: "soon",
			},
			changed:  map[string]bool{},
			initial:  Config{},
			expected: Config{},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyFileConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyFileConfig() unexpected error: %v", err)
				return
			}

			if !tt.wantErr {
				if cfg.Mode != tt.expected.Mode {
					t.Errorf("Mode = %v, want %v", cfg.Mode, tt.expected.Mode)
				}
				if cfg.File != tt.expected.File {
					t.Errorf("File = %v, want %v", cfg.File, tt.expected.File)
				}
				if cfg.Addr != tt.expected.Addr {
					t.Errorf("Addr = %v, want %v", cfg.Addr, tt.expected.Addr)
				}
				if cfg.TailSequence != tt.expected.TailSequence {
					t.Errorf("TailSequence = %v, want %v", cfg.TailSequence, tt.expected.TailSequence)
				}

				if cfg.StatusInterval != tt.expected.StatusInterval {
					t.Errorf("StatusInterval = %v, want %v", cfg.StatusInterval, tt.expected.StatusInterval)
				}

				if cfg.ChunkSize != tt.expected.ChunkSize {
					t.Errorf("ChunkSize = %v, want %v", cfg.ChunkSize, tt.expected.ChunkSize)
				}

				if cfg.Follow != tt.expected.Follow {
					t.Errorf("Follow = %v, want %v", cfg.Follow, tt.expected.Follow)
				}
				if cfg.Reconnect != tt.expected.Reconnect {
					t.Errorf("Reconnect = %v, want %v", cfg.Reconnect, tt.expected.Reconnect)
				}
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.toml")

	tomlContent := `
mode = "client"
addr = "gse.example:5000"
chunk_size = 128
start_sequence = "EB90"
max_buffered = "512 KiB"
poll_interval = "250ms"
reconnect = true
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.Mode != "client" {
		t.Errorf("Mode = %v, want client", fc.Mode)
	}
	if fc.Addr != "gse.example:5000" {
		t.Errorf("Addr = %v, want gse.example:5000", fc.Addr)
	}
	if fc.ChunkSize != 128 {
		t.Errorf("ChunkSize = %v, want 128", fc.ChunkSize)
	}
	if fc.MaxBuffered != "512 KiB" {
		t.Errorf("MaxBuffered = %v, want 512 KiB", fc.MaxBuffered)
	}
	if fc.PollInterval != "250ms" {
		t.Errorf("PollInterval = %v, want 250ms", fc.PollInterval)
	}
	if fc.Reconnect == nil || *fc.Reconnect != true {
		t.Errorf("Reconnect = %v, want true", fc.Reconnect)
	}
	if fc.Follow != nil {
		t.Errorf("Follow = %v, want nil", fc.Follow)
	}
}

func TestLoadFileConfig_InvalidFile(t *testing.T) {
	_, err := LoadFileConfig("/nonexistent/path/config.toml")
	if err == nil {
		t.Error("LoadFileConfig() expected error for nonexistent file")
	}
}

func TestLoadFileConfig_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.toml")

	invalidContent := `
mode = "file"
this is not valid toml
`

	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	_, err := LoadFileConfig(configPath)
	if err == nil {
		t.Error("LoadFileConfig() expected error for invalid TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if path != "" && !strings.Contains(path, ".cltuecho") {
		t.Errorf("DefaultConfigPath() = %v, should contain .cltuecho", path)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingFile := filepath.Join(tmpDir, "exists.txt")

	if err := os.WriteFile(existingFile, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if !FileExists(existingFile) {
		t.Error("FileExists() = false, want true for existing file")
	}

	if FileExists(filepath.Join(tmpDir, "nonexistent.txt")) {
		t.Error("FileExists() = true, want false for nonexistent file")
	}
}
