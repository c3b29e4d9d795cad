// pattern: Imperative Shell

package asyncstatus

import (
	"errors"
	"io/fs"
	"os"

	"github.com/gofrs/flock"
)

// lockPresent reports whether a worker should be presumed active. Without a
// stale-lock bound this is plain marker existence.
func (c *Coordinator[T]) lockPresent() bool {
	info, err := os.Stat(c.paths.LockPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	if err != nil {
		// Unknown state: behave as if a worker holds it.
		return true
	}
	if c.staleAfter <= 0 || !c.abandoned(info) {
		return true
	}

	c.logger.Info("removing abandoned lock", "lock", c.paths.LockPath, "age", c.now().Sub(info.ModTime()))
	c.events.Log("removed abandoned lock")
	if err := os.Remove(c.paths.LockPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.logger.Warn("failed to remove abandoned lock", "error", err)
		return true
	}
	return false
}

// abandoned is true when the marker is older than the bound and no worker
// holds its flock. A young marker is never abandoned: the worker creates the
// file before it takes the flock.
func (c *Coordinator[T]) abandoned(info fs.FileInfo) bool {
	if c.now().Sub(info.ModTime()) < c.staleAfter {
		return false
	}

	fl := flock.New(c.paths.LockPath)
	locked, err := fl.TryLock()
	if err != nil {
		c.logger.Debug("could not probe lock", "error", err)
		return false
	}
	if !locked {
		return false
	}
	_ = fl.Unlock()
	return true
}

// hold takes the marker's flock for the lifetime of the worker so readers can
// tell a live worker from a crashed one.
func (c *Coordinator[T]) hold() {
	fl := flock.New(c.paths.LockPath)
	locked, err := fl.TryLock()
	if err != nil || !locked {
		c.logger.Debug("could not hold lock", "locked", locked, "error", err)
		return
	}
	c.held = fl
}
