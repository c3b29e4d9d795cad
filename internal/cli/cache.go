// pattern: Imperative Shell
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"promptstat/internal/asyncstatus"
	"promptstat/internal/gitstatus"
	"promptstat/internal/logging"
)

// RegisterCacheCommands registers the cache command group commands.
func RegisterCacheCommands(group *Group, env *Env) {
	group.AddCommand(&Command{
		Name:    "paths",
		Summary: "Print the lock, data and log files for a repository",
		Usage:   "Usage: promptstat cache paths [--path <dir>]",
		Run: func(args []string) error {
			return runCachePathsCommand(env, args)
		},
	})

	group.AddCommand(&Command{
		Name:    "cleanup",
		Summary: "Remove a lock marker left behind by a crashed worker",
		Usage:   "Usage: promptstat cache cleanup [--path <dir>]",
		Run: func(args []string) error {
			return runCacheCleanupCommand(env, args)
		},
	})

	group.AddCommand(&Command{
		Name:    "log",
		Summary: "Print a repository's async event log",
		Usage:   "Usage: promptstat cache log [--path <dir>] [--follow]",
		Run: func(args []string) error {
			return runCacheLogCommand(env, args)
		},
	})
}

// cacheTarget parses the shared --path flag and resolves the repository.
func cacheTarget(env *Env, name string, args []string, extra func(*flag.FlagSet)) (gitstatus.Repo, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	path := fs.StringP("path", "p", ".", "directory inside the repository")
	if extra != nil {
		extra(fs)
	}
	if err := fs.Parse(args); err != nil {
		return gitstatus.Repo{}, err
	}
	return gitstatus.FindRepo(*path)
}

func runCachePathsCommand(env *Env, args []string) error {
	repo, err := cacheTarget(env, "cache paths", args, nil)
	if err != nil {
		return err
	}

	paths, err := asyncstatus.DerivePaths(repo.GitDir, env.Home)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(env.Stdout, "lock: %s\ndata: %s\nlog:  %s\n", paths.LockPath, paths.DataPath, paths.LogPath)
	return err
}

func runCacheCleanupCommand(env *Env, args []string) error {
	repo, err := cacheTarget(env, "cache cleanup", args, nil)
	if err != nil {
		return err
	}

	coord, err := asyncstatus.New[gitstatus.RepoStatus](repo.GitDir, asyncstatus.RoleNormal, asyncstatus.Options{
		Home:   env.Home,
		Logger: env.logger("asyncstatus"),
	})
	if err != nil {
		return err
	}
	defer func() { _ = coord.Close() }()

	removed, err := coord.ClearLock()
	if err != nil {
		return err
	}
	if removed {
		_, err = fmt.Fprintf(env.Stdout, "Removed lock %s\n", coord.Paths().LockPath)
	} else {
		_, err = fmt.Fprintln(env.Stdout, "No lock present.")
	}
	return err
}

func runCacheLogCommand(env *Env, args []string) error {
	var follow *bool
	repo, err := cacheTarget(env, "cache log", args, func(fs *flag.FlagSet) {
		follow = fs.BoolP("follow", "f", false, "keep printing new events")
	})
	if err != nil {
		return err
	}

	paths, err := asyncstatus.DerivePaths(repo.GitDir, env.Home)
	if err != nil {
		return err
	}

	if *follow {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return followLog(ctx, paths.LogPath, env.Stdout)
	}

	f, err := os.Open(paths.LogPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(env.Stdout, f)
	return err
}

// followLog prints the whole log, then new events until ctx is done.
func followLog(ctx context.Context, path string, out io.Writer) error {
	follower, err := logging.NewFileFollower(path, out, true)
	if err != nil {
		return err
	}
	if err := follower.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
