package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/cltuecho/internal/domain"
)

// DefaultPollInterval is how often a following FileSource re-reads the file
// when no change notification arrives.
const DefaultPollInterval = 500 * time.Millisecond

// FileSource reads a recorded echo stream from a file.
//
// With Follow set, reaching the end of the file is not the end of the
// stream: the source waits for the file to grow, like tail -f.
type FileSource struct {
	Path         string
	ChunkSize    int
	Follow       bool
	PollInterval time.Duration

	f       *os.File
	watcher *fsnotify.Watcher
}

// Connect opens the file. In follow mode it also starts watching the
// file's directory; if the watcher cannot be created the source falls back
// to polling.
func (s *FileSource) Connect(ctx context.Context) error {
	if s.f != nil {
		return nil
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.Path, err)
	}
	s.f = f

	if s.Follow {
		if w, err := fsnotify.NewWatcher(); err == nil {
			if err := w.Add(filepath.Dir(s.Path)); err == nil {
				s.watcher = w
			} else {
				w.Close()
			}
		}
	}
	return nil
}

// IsConnected reports whether the file is open.
func (s *FileSource) IsConnected() bool {
	return s.f != nil
}

// ReadChunk returns the next piece of the file.
func (s *FileSource) ReadChunk(ctx context.Context) ([]byte, error) {
	if s.f == nil {
		return nil, domain.ErrNotConnected
	}

	buf := make([]byte, chunkSize(s.ChunkSize))
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := s.f.Read(buf)
		if n > 0 {
			return buf[:n], nil
		}
		switch {
		case err == nil:
			continue
		case !errors.Is(err, io.EOF):
			return nil, fmt.Errorf("read %s: %w", s.Path, err)
		case !s.Follow:
			return nil, io.EOF
		}

		if err := s.waitForGrowth(ctx); err != nil {
			return nil, err
		}
	}
}

// waitForGrowth blocks until the file may have new data.
func (s *FileSource) waitForGrowth(ctx context.Context) error {
	interval := s.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	if s.watcher != nil {
		events, errs = s.watcher.Events, s.watcher.Errors
	}

	name := filepath.Clean(s.Path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				return nil
			}
		case _, ok := <-errs:
			if !ok {
				errs = nil
			}
		}
	}
}

// Disconnect closes the file and stops watching it.
func (s *FileSource) Disconnect() error {
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

func (s *FileSource) String() string {
	return "file:" + s.Path
}
