// Package app runs echo sessions: it pumps one byte source into one frame
// synchronizer and handles connection loss.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/cltuecho/internal/domain"
	"github.com/bft-labs/cltuecho/internal/framesync"
	"github.com/bft-labs/cltuecho/internal/ports"
	"github.com/bft-labs/cltuecho/pkg/log"
)

// SessionState represents the connection state of a session.
type SessionState int

const (
	SessionDisconnected SessionState = iota
	SessionConnecting
	SessionConnected
	SessionClosed
)

// String returns a human-readable representation of the state.
func (s SessionState) String() string {
	switch s {
	case SessionDisconnected:
		return "Disconnected"
	case SessionConnecting:
		return "Connecting"
	case SessionConnected:
		return "Connected"
	case SessionClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// SessionConfig contains configuration for the session loop.
type SessionConfig struct {
	// Reconnect keeps the session alive across connection loss and end of
	// stream. Without it the session ends at the first of either.
	Reconnect bool

	RetryInitial time.Duration
	RetryMax     time.Duration
}

// Session owns one source and one synchronizer. Only Run touches them;
// Status may be called from any goroutine.
type Session struct {
	id      string
	src     ports.ByteSource
	syncer  *framesync.Synchronizer
	logger  log.Logger
	cfg     SessionConfig
	backoff *backoff

	mu     sync.RWMutex
	state  SessionState
	status domain.Status
}

// NewSession creates a session reading src into syncer.
func NewSession(id string, src ports.ByteSource, syncer *framesync.Synchronizer, logger log.Logger, cfg SessionConfig) *Session {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if cfg.RetryMax <= 0 {
		cfg.RetryMax = DefaultBackoffMax
	}
	return &Session{
		id:      id,
		src:     src,
		syncer:  syncer,
		logger:  logger,
		cfg:     cfg,
		backoff: newBackoff(cfg.RetryInitial, cfg.RetryMax),
		state:   SessionDisconnected,
		status: domain.Status{
			SessionID: id,
			Source:    src.String(),
			State:     SessionDisconnected.String(),
		},
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Run reads the source until it ends, fails, or ctx is cancelled.
//
// Cancellation is a normal shutdown and returns nil; a frame still waiting
// for its tail is dropped. A sink failure always ends the session with an
// error.
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	s.status.StartedAt = time.Now().UTC()
	s.mu.Unlock()
	defer s.transition(SessionClosed, "session ended")

	for {
		if err := s.connect(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		streamErr, fatal := s.pump(ctx)
		s.disconnect()

		switch {
		case fatal != nil:
			return fatal
		case ctx.Err() != nil:
			if s.syncer.State() == framesync.FrameStarted {
				s.logger.Info("dropping unterminated frame on shutdown",
					log.Int("buffered", s.syncer.Buffered()),
				)
			}
			return nil
		case !s.cfg.Reconnect:
			if errors.Is(streamErr, ports.ErrEndOfStream) {
				return nil
			}
			return streamErr
		}

		s.logger.Warn("source lost, reconnecting",
			log.String("source", s.src.String()),
			log.Err(streamErr),
			log.Duration("backoff", s.backoff.Current()),
		)
		// A partial frame cannot continue on a new connection.
		s.syncer.Reset()
		s.publish()
		if err := s.backoff.Wait(ctx); err != nil {
			return nil
		}
	}
}

// connect opens the source, retrying while Reconnect is set.
func (s *Session) connect(ctx context.Context) error {
	for {
		s.transition(SessionConnecting, "connecting")
		err := s.src.Connect(ctx)
		if err == nil {
			s.backoff.Reset()
			s.mu.Lock()
			s.status.Connects++
			s.mu.Unlock()
			s.transition(SessionConnected, "connected")
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !s.cfg.Reconnect {
			return fmt.Errorf("connect %s: %w", s.src, err)
		}

		s.logger.Warn("connect failed, retrying",
			log.String("source", s.src.String()),
			log.Err(err),
			log.Duration("backoff", s.backoff.Current()),
		)
		if err := s.backoff.Wait(ctx); err != nil {
			return err
		}
	}
}

// pump feeds chunks to the synchronizer until the source stops producing.
// streamErr is why the stream ended; fatal is set when the session must stop.
func (s *Session) pump(ctx context.Context) (streamErr, fatal error) {
	for {
		chunk, err := s.src.ReadChunk(ctx)
		if err != nil {
			return err, nil
		}
		if err := s.syncer.OnChunk(chunk); err != nil {
			return nil, err
		}
		s.publish()
	}
}

func (s *Session) disconnect() {
	if err := s.src.Disconnect(); err != nil {
		s.logger.Warn("disconnect failed",
			log.String("source", s.src.String()),
			log.Err(err),
		)
	}
	s.transition(SessionDisconnected, "disconnected")
}

// publish copies the synchronizer counters into the shared snapshot.
func (s *Session) publish() {
	stats := s.syncer.Stats()

	s.mu.Lock()
	defer s.mu.Unlock()
	if stats.Frames > s.status.Stats.Frames {
		s.status.LastFrameAt = time.Now().UTC()
	}
	s.status.Stats = stats
}

func (s *Session) transition(next SessionState, reason string) {
	s.mu.Lock()
	prev := s.state
	s.state = next
	s.status.State = next.String()
	s.mu.Unlock()

	if prev == next {
		return
	}
	s.logger.Debug("state transition",
		log.String("from", prev.String()),
		log.String("to", next.String()),
		log.String("reason", reason),
	)
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Status returns a snapshot of the session.
func (s *Session) Status() domain.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.status
	st.UpdatedAt = time.Now().UTC()
	return st
}
