package cltuecho

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/cltuecho/internal/adapters/fs"
	"github.com/bft-labs/cltuecho/internal/adapters/sink"
	"github.com/bft-labs/cltuecho/internal/adapters/source"
	"github.com/bft-labs/cltuecho/internal/app"
	"github.com/bft-labs/cltuecho/internal/cltu"
	"github.com/bft-labs/cltuecho/internal/framesync"
	"github.com/bft-labs/cltuecho/internal/ports"
	"github.com/bft-labs/cltuecho/pkg/log"
)

// Echo is a command-echo listener that can be embedded in other
// applications. Use New() to create an instance, then Run() to listen.
type Echo struct {
	config     Config
	id         string
	logger     log.Logger
	source     ports.ByteSource
	syncer     *framesync.Synchronizer
	session    *app.Session
	statusRepo ports.StatusRepository

	// closers are owned resources, closed in reverse order.
	closers []io.Closer
}

// New creates an Echo with the given configuration.
// Returns an error if configuration is invalid or the echo log cannot be
// opened.
func New(cfg Config, opts ...Option) (*Echo, error) {
	cfg.SetDefaults()

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.validate(o); err != nil {
		return nil, err
	}

	e := &Echo{
		config:     cfg,
		id:         uuid.New().String(),
		logger:     o.logger,
		statusRepo: o.statusRepo,
	}

	src := o.source
	if src == nil {
		src = newSource(cfg)
	}
	if c, ok := src.(io.Closer); ok && o.source == nil {
		e.closers = append(e.closers, c)
	}
	e.source = src

	resultSink := o.sink
	if resultSink == nil {
		logSink, err := sink.OpenLogFile(cfg.Output)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, logSink)
		resultSink = logSink
	}

	decoder := o.decoder
	if decoder == nil {
		decoder = cltu.NewDecoder(cfg.Start, cfg.Tail)
	}

	syncer, err := framesync.New(framesync.Config{
		Start:       cfg.Start,
		Tail:        cfg.Tail,
		PreSynced:   cfg.PreSynced,
		MaxBuffered: cfg.MaxBuffered,
	}, decoder, resultSink, e.logger)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.syncer = syncer

	if e.statusRepo == nil && cfg.StatusDir != "" {
		e.statusRepo = fs.NewStatusFileRepository(cfg.StatusDir)
	}

	e.session = app.NewSession(e.id, src, syncer, e.logger, app.SessionConfig{
		Reconnect: cfg.Reconnect && cfg.Mode != ModeFile,
	})
	return e, nil
}

func newSource(cfg Config) ports.ByteSource {
	switch cfg.Mode {
	case ModeClient:
		return &source.ClientSource{
			Addr:        cfg.Addr,
			ChunkSize:   cfg.ChunkSize,
			DialTimeout: cfg.DialTimeout,
		}
	case ModeServer:
		return &source.ServerSource{
			Addr:      cfg.Addr,
			ChunkSize: cfg.ChunkSize,
		}
	default:
		return &source.FileSource{
			Path:         cfg.File,
			ChunkSize:    cfg.ChunkSize,
			Follow:       cfg.Follow,
			PollInterval: cfg.PollInterval,
		}
	}
}

// Run listens until the stream ends, ctx is cancelled or the sink fails.
// Cancellation is a normal shutdown and returns nil.
func (e *Echo) Run(ctx context.Context) error {
	e.logPreviousStatus(ctx)

	maxBuffered := "unlimited"
	if e.config.MaxBuffered > 0 {
		maxBuffered = humanize.IBytes(uint64(e.config.MaxBuffered))
	}
	e.logger.Info("echo session starting",
		log.String("session", e.id),
		log.String("source", e.source.String()),
		log.Hex("start", e.config.Start),
		log.Hex("tail", e.config.Tail),
		log.Bool("pre_synced", e.config.PreSynced),
		log.String("max_buffered", maxBuffered),
	)

	g, gctx := errgroup.WithContext(ctx)
	sessionDone := make(chan struct{})

	g.Go(func() error {
		defer close(sessionDone)
		return e.session.Run(gctx)
	})
	if e.statusRepo != nil {
		g.Go(func() error {
			e.statusLoop(gctx, sessionDone)
			return nil
		})
	}

	err := g.Wait()

	st := e.session.Status()
	e.logger.Info("echo session finished",
		log.String("session", e.id),
		log.Uint64("frames", st.Stats.Frames),
		log.Uint64("received", st.Stats.Received),
		log.Uint64("faults", st.Stats.Faults),
		log.String("bytes_in", humanize.Bytes(st.Stats.BytesIn)),
	)
	return err
}

// statusLoop saves a snapshot every StatusInterval and once more when the
// session ends.
func (e *Echo) statusLoop(ctx context.Context, done <-chan struct{}) {
	ticker := time.NewTicker(e.config.StatusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			e.saveStatus(context.WithoutCancel(ctx))
			return
		case <-ctx.Done():
			<-done
			e.saveStatus(context.WithoutCancel(ctx))
			return
		case <-ticker.C:
			e.saveStatus(ctx)
		}
	}
}

func (e *Echo) saveStatus(ctx context.Context) {
	if err := e.statusRepo.Save(ctx, e.session.Status()); err != nil {
		e.logger.Warn("failed to save status", log.Err(err))
	}
}

func (e *Echo) logPreviousStatus(ctx context.Context) {
	if e.statusRepo == nil {
		return
	}
	prev, err := e.statusRepo.Load(ctx)
	if err != nil {
		e.logger.Warn("failed to load previous status", log.Err(err))
		return
	}
	if prev.IsEmpty() {
		return
	}
	e.logger.Info("previous session",
		log.String("session", prev.SessionID),
		log.String("source", prev.Source),
		log.Uint64("frames", prev.Stats.Frames),
		log.Uint64("faults", prev.Stats.Faults),
		log.String("updated", humanize.Time(prev.UpdatedAt)),
	)
}

// Status returns a snapshot of the running session.
func (e *Echo) Status() Status {
	return e.session.Status()
}

// SessionID returns the identifier of this listener's session.
func (e *Echo) SessionID() string {
	return e.id
}

// Close releases the resources Echo opened itself: the echo log file and
// the server listener. Supplied sources and sinks are left to the caller.
func (e *Echo) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}
