// pattern: Imperative Shell
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"promptstat/internal/asyncstatus"
	"promptstat/internal/config"
	"promptstat/internal/logging"
	"promptstat/internal/process"
	"promptstat/internal/timings"
)

// ResolveDataDir returns the directory holding the diagnostic log.
// If configDir is specified, uses that; otherwise uses ~/.config/promptstat.
func ResolveDataDir(configDir string) string {
	if configDir != "" {
		return configDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "promptstat")
	}
	return filepath.Join(home, ".config", "promptstat")
}

// Env carries what commands need from the process.
type Env struct {
	ConfigDir  string
	Config     config.Config
	Logs       logging.LoggerProvider
	Timings    timings.Recorder
	Home       string // Base of the status cache directory
	Executable string // Binary launched as the async worker
	Stdout     io.Writer
	Stderr     io.Writer

	// Launcher overrides the detached worker spawn.
	Launcher asyncstatus.Launcher
}

func (e *Env) logger(scope string) *logging.ScopedLogger {
	if e.Logs == nil {
		return logging.NopLogger()
	}
	return e.Logs.For(scope)
}

func (e *Env) recorder() timings.Recorder {
	if e.Timings == nil {
		return timings.Nop{}
	}
	return e.Timings
}

// launcher returns the worker launcher: a fresh copy of this binary running
// git-status in the worker role, with the same config dir.
func (e *Env) launcher() asyncstatus.Launcher {
	if e.Launcher != nil {
		return e.Launcher
	}
	return process.NewLauncher(e.Executable, e.WorkerArgs, e.logger("process"))
}

// WorkerArgs builds the argument list of a worker for workDir.
func (e *Env) WorkerArgs(workDir string) []string {
	var args []string
	if e.ConfigDir != "" {
		args = append(args, "--config-dir", e.ConfigDir)
	}
	return append(args, "git-status", "--is-async-worker", "--path", workDir)
}

// BuildApp creates and configures the CLI application with all commands and groups.
func BuildApp(version string, env *Env) *App {
	app := NewApp(env.Stderr)

	app.AddCommand(&Command{
		Name:    "git-status",
		Summary: "Print the git status segment for a directory",
		Usage:   "Usage: promptstat git-status [--path <dir>] [--sync] [--is-async-worker]",
		Run: func(args []string) error {
			return runGitStatusCommand(env, args)
		},
	})

	app.AddCommand(&Command{
		Name:    "detect",
		Summary: "Report whether a directory matches module detection rules",
		Usage:   "Usage: promptstat detect [--path <dir>] [--extensions a,!b] [--files f] [--folders d]",
		Run: func(args []string) error {
			return runDetectCommand(env, args)
		},
	})

	app.AddCommand(&Command{
		Name:    "scan",
		Summary: "Output JSON describing a directory's immediate children",
		Usage:   "Usage: promptstat scan [--path <dir>] [--timeout <duration>]",
		Run: func(args []string) error {
			return runScanCommand(env, args)
		},
	})

	app.AddCommand(&Command{
		Name:    "version",
		Summary: "Print version and exit",
		Usage:   "Usage: promptstat version",
		Run: func(args []string) error {
			_, err := fmt.Fprintln(env.Stdout, version)
			return err
		},
	})

	cacheGroup := app.AddGroup("cache", "Inspect and repair the async status cache")
	RegisterCacheCommands(cacheGroup, env)

	return app
}
