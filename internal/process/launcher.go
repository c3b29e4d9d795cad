// pattern: Imperative Shell

// Package process starts detached background workers.
package process

import (
	"errors"
	"fmt"
	"os/exec"

	"promptstat/internal/logging"
)

// ArgsFunc builds the worker's argument list for a work dir.
type ArgsFunc func(workDir string) []string

// Launcher starts a fresh copy of a binary in its own session with no
// connected standard streams and returns as soon as the child has started.
type Launcher struct {
	binary string
	args   ArgsFunc
	logger *logging.ScopedLogger
}

// NewLauncher creates a launcher for binary.
func NewLauncher(binary string, args ArgsFunc, logger *logging.ScopedLogger) *Launcher {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Launcher{
		binary: binary,
		args:   args,
		logger: logger,
	}
}

// Launch starts the worker for workDir. It never waits for the child.
func (l *Launcher) Launch(workDir string) error {
	if l.binary == "" {
		return errors.New("launcher: no binary configured")
	}

	var args []string
	if l.args != nil {
		args = l.args(workDir)
	}

	// Nil Stdin/Stdout/Stderr are connected to the null device.
	cmd := exec.Command(l.binary, args...)
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}

	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		l.logger.Debug("failed to release worker handle", "pid", pid, "error", err)
	}
	l.logger.Debug("launched worker", "binary", l.binary, "args", fmt.Sprintf("%v", args), "pid", pid)
	return nil
}
