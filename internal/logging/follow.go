// pattern: Imperative Shell

package logging

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is how often a FileFollower rechecks the file when
// no filesystem events arrive.
const DefaultPollInterval = 2 * time.Second

// FileFollower tails a line-oriented log file and copies new lines to an
// io.Writer. It watches the parent directory with fsnotify, so the file may
// not exist yet, and polls as a safeguard for filesystems that drop events.
type FileFollower struct {
	filePath  string
	out       io.Writer
	fromStart bool
	interval  time.Duration
	watcher   *fsnotify.Watcher

	mu     sync.Mutex
	file   *os.File
	offset int64
	closed bool
}

// NewFileFollower creates a follower for filePath. With fromStart, content
// already in the file is copied before new lines.
func NewFileFollower(filePath string, out io.Writer, fromStart bool) (*FileFollower, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &FileFollower{
		filePath:  filePath,
		out:       out,
		fromStart: fromStart,
		interval:  DefaultPollInterval,
		watcher:   watcher,
	}, nil
}

// SetPollInterval overrides DefaultPollInterval. Call before Start.
func (f *FileFollower) SetPollInterval(d time.Duration) {
	if d > 0 {
		f.interval = d
	}
}

// Start follows the file until ctx is cancelled.
func (f *FileFollower) Start(ctx context.Context) error {
	dir := filepath.Dir(f.filePath)
	if err := f.watcher.Add(dir); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	f.mu.Lock()
	if err := f.openFile(!f.fromStart); err == nil {
		f.readNewLines()
	}
	f.mu.Unlock()

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = f.Close()
			return ctx.Err()

		case event, ok := <-f.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(f.filePath) {
				continue
			}

			f.mu.Lock()
			switch {
			case event.Has(fsnotify.Create):
				// A recreated file is read from its beginning.
				f.closeFile()
				_ = f.openFile(false)
				f.readNewLines()
			case event.Has(fsnotify.Write):
				f.readNewLines()
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				f.closeFile()
			}
			f.mu.Unlock()

		case <-ticker.C:
			f.mu.Lock()
			if f.file == nil {
				_ = f.openFile(false)
			}
			f.readNewLines()
			f.mu.Unlock()

		case _, ok := <-f.watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}

// openFile opens the file, optionally positioned at its end.
func (f *FileFollower) openFile(seekToEnd bool) error {
	if f.file != nil {
		return nil
	}

	file, err := os.Open(f.filePath)
	if err != nil {
		return err
	}

	var offset int64
	if seekToEnd {
		offset, err = file.Seek(0, io.SeekEnd)
		if err != nil {
			_ = file.Close()
			return err
		}
	}

	f.file = file
	f.offset = offset
	return nil
}

func (f *FileFollower) closeFile() {
	if f.file != nil {
		_ = f.file.Close()
		f.file = nil
		f.offset = 0
	}
}

// readNewLines copies complete lines appended since the last read.
// A trailing partial line is left for the next read.
func (f *FileFollower) readNewLines() {
	if f.file == nil {
		return
	}

	if info, err := f.file.Stat(); err == nil && info.Size() < f.offset {
		// Truncated in place.
		f.offset = 0
	}
	if _, err := f.file.Seek(f.offset, io.SeekStart); err != nil {
		return
	}

	reader := bufio.NewReader(f.file)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return
		}
		f.offset += int64(len(line))
		_, _ = f.out.Write(line)
	}
}

// Close stops following and releases resources.
func (f *FileFollower) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	f.closeFile()
	return f.watcher.Close()
}
