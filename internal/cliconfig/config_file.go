package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Mode           string `toml:"mode"`
	File           string `toml:"file"`
	Follow         *bool  `toml:"follow"`
	Addr           string `toml:"addr"`
	ChunkSize      int    `toml:"chunk_size"`
	StartSequence  string `toml:"start_sequence"`
	TailSequence   string `toml:"tail_sequence"`
	PreSynced      *bool  `toml:"pre_synced"`
	MaxBuffered    string `toml:"max_buffered"`
	Output         string `toml:"output"`
	StatusDir      string `toml:"status_dir"`
	StatusInterval string `toml:"status_interval"`
	PollInterval   string `toml:"poll_interval"`
	Reconnect      *bool  `toml:"reconnect"`
	DialTimeout    string `toml:"dial_timeout"`
	LogLevel       string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.cltuecho/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".cltuecho", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("mode", fc.Mode, &cfg.Mode)
	s.setString("file", fc.File, &cfg.File)
	s.setString("addr", fc.Addr, &cfg.Addr)
	s.setString("start", fc.StartSequence, &cfg.StartSequence)
	s.setString("tail", fc.TailSequence, &cfg.TailSequence)
	s.setString("max-buffered", fc.MaxBuffered, &cfg.MaxBuffered)
	s.setString("output", fc.Output, &cfg.Output)
	s.setString("status-dir", fc.StatusDir, &cfg.StatusDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("status-interval", fc.StatusInterval, &cfg.StatusInterval); err != nil {
		return err
	}
	if err := s.setDuration("poll", fc.PollInterval, &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("dial-timeout", fc.DialTimeout, &cfg.DialTimeout); err != nil {
		return err
	}

	s.setInt("chunk-size", fc.ChunkSize, &cfg.ChunkSize)

	s.setBool("follow", fc.Follow, &cfg.Follow)
	s.setBool("pre-synced", fc.PreSynced, &cfg.PreSynced)
	s.setBool("reconnect", fc.Reconnect, &cfg.Reconnect)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
