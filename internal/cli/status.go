// pattern: Imperative Shell
package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"promptstat/internal/asyncstatus"
	"promptstat/internal/gitstatus"
	"promptstat/internal/segment"
)

func runGitStatusCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("git-status", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	path := fs.StringP("path", "p", ".", "directory inside the repository")
	isWorker := fs.Bool("is-async-worker", false, "compute and cache the status (internal)")
	sync := fs.Bool("sync", false, "always compute synchronously")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := env.logger("cli")

	repo, err := gitstatus.FindRepo(*path)
	if errors.Is(err, gitstatus.ErrNotRepo) {
		logger.Debug("not a repository", "path", *path)
		return nil
	}
	if err != nil {
		return err
	}

	cfg := env.Config.GitStatus
	computer := gitstatus.NewComputer(cfg.CommandTimeout, env.logger("gitstatus"), env.recorder())

	if *sync && !*isWorker {
		return printComputed(env, computer, repo)
	}

	role := asyncstatus.RoleNormal
	if *isWorker {
		role = asyncstatus.RoleWorker
	}

	coord, err := asyncstatus.New[gitstatus.RepoStatus](repo.GitDir, role, asyncstatus.Options{
		Home:           env.Home,
		AsyncPaths:     cfg.AsyncPaths,
		StaleLockAfter: cfg.StaleLockAfter,
		Launcher:       env.launcher(),
		Logger:         env.logger("asyncstatus"),
		Recorder:       env.recorder(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = coord.Close() }()

	if role == asyncstatus.RoleWorker {
		return runWorker(env, coord, computer, repo)
	}

	if !coord.Enabled() {
		return printComputed(env, computer, repo)
	}

	status, ok := coord.Status()
	if !ok {
		return nil
	}
	return printSegment(env, status)
}

// runWorker computes the status and hands it to the coordinator. A failed
// computation still releases the lock marker.
func runWorker(env *Env, coord *asyncstatus.Coordinator[gitstatus.RepoStatus], computer *gitstatus.Computer, repo gitstatus.Repo) error {
	logger := env.logger("cli")
	if !coord.Enabled() {
		logger.Debug("worker started for a target that is not async-enabled", "target", repo.GitDir)
		return nil
	}

	coord.Status()

	status, err := computer.Compute(context.Background(), repo)
	if err != nil {
		logger.Warn("status computation failed", "work_dir", repo.WorkDir, "error", err)
		coord.Release()
		return nil
	}

	if err := coord.StoreResult(status); err != nil {
		logger.Warn("failed to store result", "work_dir", repo.WorkDir, "error", err)
	}
	return nil
}

func printComputed(env *Env, computer *gitstatus.Computer, repo gitstatus.Repo) error {
	status, err := computer.Compute(context.Background(), repo)
	if err != nil {
		env.logger("cli").Warn("status computation failed", "work_dir", repo.WorkDir, "error", err)
		return nil
	}
	return printSegment(env, status)
}

func printSegment(env *Env, status gitstatus.RepoStatus) error {
	cfg := env.Config.GitStatus
	out := segment.Render(status, segment.Options{
		Symbols:    cfg.Symbols,
		ShowCounts: cfg.ShowCounts,
		Theme:      env.Config.Theme,
		Color:      segment.ParseColorMode(cfg.Color),
		Out:        env.Stdout,
	})
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(env.Stdout, out)
	return err
}
