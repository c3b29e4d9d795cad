// pattern: Imperative Shell

// Package asyncstatus runs an expensive status computation in a detached
// worker process and hands its result to later prompt draws.
//
// Coordination goes through three files per target (see Paths). The lock
// marker is advisory: its existence means "a worker is believed active". It
// has no owner and no expiry, so a worker that dies before removing it leaves
// it in place until it is cleared by hand or, when configured, judged stale.
package asyncstatus

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/gofrs/flock"
	json "github.com/goccy/go-json"

	"promptstat/internal/logging"
	"promptstat/internal/timings"
)

// Role tells a coordinator which side of the protocol the process is on.
type Role int

const (
	RoleNormal Role = iota // Prompt draw: read the cache, maybe launch a worker
	RoleWorker             // Detached worker: hold the lock, store the result
)

func (r Role) String() string {
	switch r {
	case RoleWorker:
		return "worker"
	default:
		return "normal"
	}
}

// Launcher starts a detached worker for the repository at workDir and
// returns without waiting for it.
type Launcher interface {
	Launch(workDir string) error
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(workDir string) error

// Launch implements Launcher.
func (f LauncherFunc) Launch(workDir string) error {
	return f(workDir)
}

// Options configures a Coordinator.
type Options struct {
	Home           string        // Base for the cache directory
	AsyncPaths     []string      // Work dirs for which async handling is enabled
	StaleLockAfter time.Duration // Zero disables the stale-lock check
	Launcher       Launcher
	Logger         *logging.ScopedLogger
	Recorder       timings.Recorder
}

// Coordinator implements both roles for one target. T is the cached result
// type and must round-trip through JSON.
type Coordinator[T any] struct {
	target     string
	workDir    string
	role       Role
	enabled    bool
	paths      Paths
	events     *EventLog
	launcher   Launcher
	staleAfter time.Duration
	logger     *logging.ScopedLogger
	recorder   timings.Recorder
	now        func() time.Time

	held *flock.Flock
}

// New derives the target's paths and opens its event log. target is the
// repository path (its .git entry); its parent is the work dir matched
// against AsyncPaths and handed to the launcher.
//
// Failing to create the cache directory or open the event log is fatal.
func New[T any](target string, role Role, opts Options) (*Coordinator[T], error) {
	paths, err := DerivePaths(target, opts.Home)
	if err != nil {
		return nil, err
	}

	events, err := OpenEventLog(paths.LogPath)
	if err != nil {
		return nil, err
	}

	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}
	if opts.Recorder == nil {
		opts.Recorder = timings.Nop{}
	}

	workDir := filepath.Dir(target)
	return &Coordinator[T]{
		target:     target,
		workDir:    workDir,
		role:       role,
		enabled:    slices.Contains(opts.AsyncPaths, workDir),
		paths:      paths,
		events:     events,
		launcher:   opts.Launcher,
		staleAfter: opts.StaleLockAfter,
		logger:     opts.Logger.With("target", target, "role", role.String()),
		recorder:   opts.Recorder,
		now:        time.Now,
	}, nil
}

// Enabled reports whether the target is configured for async handling.
func (c *Coordinator[T]) Enabled() bool {
	return c.enabled
}

// Paths returns the target's cache files.
func (c *Coordinator[T]) Paths() Paths {
	return c.paths
}

// Status returns the last cached result, if any. It never waits for a worker.
//
// In the normal role it launches a worker when no lock marker exists. In the
// worker role it (re)creates the lock marker and returns nothing; the caller
// computes the result and hands it to StoreResult. A target that is not
// async-enabled gets no coordination at all.
func (c *Coordinator[T]) Status() (T, bool) {
	var zero T
	if !c.enabled {
		return zero, false
	}

	if c.role == RoleWorker {
		c.acquire()
		return zero, false
	}

	started := c.now()
	defer func() { c.recorder.Record("async_status", c.now().Sub(started)) }()

	if c.lockPresent() {
		c.logger.Debug("worker not launched, lock exists", "lock", c.paths.LockPath)
	} else {
		c.launch()
	}

	return c.readCached()
}

// StoreResult writes v as the cached result and releases the lock marker.
// Removal is attempted even when the write fails. Outside the worker role, or
// for a target that is not enabled, it does nothing.
func (c *Coordinator[T]) StoreResult(v T) error {
	if c.role != RoleWorker || !c.enabled {
		return nil
	}

	c.logger.Debug("storing result", "data", c.paths.DataPath)
	err := c.writeData(v)
	if err != nil {
		c.events.Logf("failed to write result: %v", err)
	}
	c.Release()
	return err
}

// Release removes the lock marker without writing a result. Workers call it
// when the computation fails. A missing marker is logged, not an error.
func (c *Coordinator[T]) Release() {
	if c.role != RoleWorker || !c.enabled {
		return
	}

	if c.held != nil {
		_ = c.held.Unlock()
		c.held = nil
	}

	c.events.Log("removing lock")
	err := os.Remove(c.paths.LockPath)
	switch {
	case err == nil:
		c.logger.Debug("lock removed")
		c.events.Log("lock removed")
	case errors.Is(err, fs.ErrNotExist):
		c.logger.Debug("lock did not exist", "lock", c.paths.LockPath)
		c.events.Logf("lock %s did not exist", c.paths.LockPath)
	default:
		c.logger.Warn("failed to remove lock", "lock", c.paths.LockPath, "error", err)
		c.events.Logf("failed to remove lock: %v", err)
	}
}

// ClearLock removes the lock marker regardless of role. It is the manual
// recovery for a marker left behind by a crashed worker.
func (c *Coordinator[T]) ClearLock() (bool, error) {
	err := os.Remove(c.paths.LockPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove lock: %w", err)
	}
	c.events.Log("lock cleared manually")
	return true, nil
}

// Close releases the event log and any flock still held.
func (c *Coordinator[T]) Close() error {
	if c.held != nil {
		_ = c.held.Unlock()
		c.held = nil
	}
	return c.events.Close()
}

// acquire (re)creates the lock marker. An existing marker is overwritten;
// double starts are not detected.
func (c *Coordinator[T]) acquire() {
	f, err := os.Create(c.paths.LockPath)
	if err != nil {
		c.logger.Warn("failed to create lock", "lock", c.paths.LockPath, "error", err)
		c.events.Logf("failed to create lock: %v", err)
		return
	}
	_ = f.Close()
	c.events.Log("worker created lock")

	if c.staleAfter > 0 {
		c.hold()
	}
}

func (c *Coordinator[T]) launch() {
	if c.launcher == nil {
		c.logger.Warn("no launcher configured, worker not started")
		return
	}
	c.logger.Debug("launching worker", "work_dir", c.workDir)
	if err := c.launcher.Launch(c.workDir); err != nil {
		c.logger.Warn("failed to launch worker", "error", err)
		c.events.Logf("failed to launch worker: %v", err)
	}
}

func (c *Coordinator[T]) readCached() (T, bool) {
	var zero T

	data, err := os.ReadFile(c.paths.DataPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Debug("cached result unreadable", "error", err)
		}
		return zero, false
	}

	c.logger.Debug("reading cached result", "data", c.paths.DataPath)
	v, err := decodeRecord[T](data)
	if err != nil {
		c.logger.Debug("cached result corrupt", "data", c.paths.DataPath, "error", err)
		return zero, false
	}
	return v, true
}

var errNullRecord = errors.New("null record")

// decodeRecord accepts exactly one JSON value, which must not be null.
// Trailing whitespace is allowed; any other trailing bytes are not.
func decodeRecord[T any](data []byte) (T, error) {
	var zero T

	dec := json.NewDecoder(bytes.NewReader(data))
	var p *T
	if err := dec.Decode(&p); err != nil {
		return zero, err
	}
	if p == nil {
		return zero, errNullRecord
	}

	var rest json.RawMessage
	if err := dec.Decode(&rest); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("trailing data after record")
		}
		return zero, err
	}
	return *p, nil
}

// writeData replaces the data file through a rename so readers see either the
// previous record or the new one, never a partial write.
func (c *Coordinator[T]) writeData(v T) error {
	tmp, err := os.CreateTemp(c.paths.Dir, filepath.Base(c.paths.DataPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp data file: %w", err)
	}
	tmpName := tmp.Name()

	if err := json.NewEncoder(tmp).Encode(v); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("encode result: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp data file: %w", err)
	}
	if err := os.Rename(tmpName, c.paths.DataPath); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}
