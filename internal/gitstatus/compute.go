// pattern: Imperative Shell

package gitstatus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"promptstat/internal/logging"
	"promptstat/internal/timings"
)

// DefaultTimeout bounds one Compute call.
const DefaultTimeout = 5 * time.Second

// RunFunc runs git with args in dir and returns stdout.
type RunFunc func(ctx context.Context, dir string, args ...string) ([]byte, error)

// Computer computes RepoStatus values by running git.
type Computer struct {
	run      RunFunc
	timeout  time.Duration
	logger   *logging.ScopedLogger
	recorder timings.Recorder
}

// NewComputer creates a Computer that shells out to git. A zero timeout means DefaultTimeout.
func NewComputer(timeout time.Duration, logger *logging.ScopedLogger, recorder timings.Recorder) *Computer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	if recorder == nil {
		recorder = timings.Nop{}
	}
	return &Computer{
		run:      runGit,
		timeout:  timeout,
		logger:   logger,
		recorder: recorder,
	}
}

// WithRunner returns a copy that uses run instead of the git binary.
func (c *Computer) WithRunner(run RunFunc) *Computer {
	cp := *c
	cp.run = run
	return &cp
}

// Compute runs the status and stash queries concurrently. A failing stash
// query counts as zero stashes; a failing status query fails the call.
func (c *Computer) Compute(ctx context.Context, repo Repo) (RepoStatus, error) {
	started := time.Now()
	defer func() { c.recorder.Record("git_status", time.Since(started)) }()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var status RepoStatus
	var stashed int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := c.run(gctx, repo.WorkDir, "status", "--porcelain=v2", "--branch")
		if err != nil {
			return fmt.Errorf("git status: %w", err)
		}
		status, err = ParsePorcelain(out)
		return err
	})
	g.Go(func() error {
		out, err := c.run(gctx, repo.WorkDir, "stash", "list")
		if err != nil {
			c.logger.Debug("stash list failed", "work_dir", repo.WorkDir, "error", err)
			return nil
		}
		stashed = countLines(out)
		return nil
	})

	if err := g.Wait(); err != nil {
		return RepoStatus{}, err
	}

	status.Stashed = stashed
	c.logger.Debug("computed status", "work_dir", repo.WorkDir, "elapsed", time.Since(started))
	return status, nil
}

// runGit runs git without taking optional locks so a prompt never contends
// with the user's own git commands.
func runGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	full := append([]string{"--no-optional-locks", "-C", dir}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return nil, err
	}
	return out, nil
}
