package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (CLTUECHO_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("mode", os.Getenv("CLTUECHO_MODE"), &cfg.Mode)
	s.setString("file", os.Getenv("CLTUECHO_FILE"), &cfg.File)
	s.setString("addr", os.Getenv("CLTUECHO_ADDR"), &cfg.Addr)
	s.setString("start", os.Getenv("CLTUECHO_START_SEQUENCE"), &cfg.StartSequence)
	s.setString("tail", os.Getenv("CLTUECHO_TAIL_SEQUENCE"), &cfg.TailSequence)
	s.setString("max-buffered", os.Getenv("CLTUECHO_MAX_BUFFERED"), &cfg.MaxBuffered)
	s.setString("output", os.Getenv("CLTUECHO_OUTPUT"), &cfg.Output)
	s.setString("status-dir", os.Getenv("CLTUECHO_STATUS_DIR"), &cfg.StatusDir)
	s.setString("log-level", os.Getenv("CLTUECHO_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("status-interval", os.Getenv("CLTUECHO_STATUS_INTERVAL"), &cfg.StatusInterval); err != nil {
		return err
	}
	if err := s.setDuration("poll", os.Getenv("CLTUECHO_POLL_INTERVAL"), &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("dial-timeout", os.Getenv("CLTUECHO_DIAL_TIMEOUT"), &cfg.DialTimeout); err != nil {
		return err
	}

	if err := s.setIntFromString("chunk-size", os.Getenv("CLTUECHO_CHUNK_SIZE"), &cfg.ChunkSize); err != nil {
		return err
	}

	s.setBoolFromString("follow", os.Getenv("CLTUECHO_FOLLOW"), &cfg.Follow)
	s.setBoolFromString("pre-synced", os.Getenv("CLTUECHO_PRE_SYNCED"), &cfg.PreSynced)
	s.setBoolFromString("reconnect", os.Getenv("CLTUECHO_RECONNECT"), &cfg.Reconnect)

	return nil
}
