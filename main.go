// pattern: Imperative Shell
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"promptstat/internal/cli"
	"promptstat/internal/config"
	"promptstat/internal/logging"
	"promptstat/internal/timings"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("promptstat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	// Stop parsing flags after the first non-flag arg (the subcommand),
	// so that --help after a subcommand is handled by the subcommand.
	fs.SetInterspersed(false)

	configDir := fs.StringP("config-dir", "c", "", "config directory (default: ~/.config/promptstat)")
	showTimings := fs.Bool("timings", false, "print per-operation timings to stderr on exit")

	env := &cli.Env{Stdout: stdout, Stderr: stderr}

	fs.Usage = func() {
		cli.BuildApp(version, env).PrintHelp(stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(*configDir)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: failed to load config: %v\n", err)
	}

	dataDir := cli.ResolveDataDir(*configDir)
	logManager, err := logging.NewManager(logging.Config{
		FilePath:   filepath.Join(dataDir, "promptstat.log"),
		MaxSizeMB:  5,
		MaxBackups: 2,
		MaxAgeDays: 7,
		Level:      cfg.LogLevel,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logging: %v\n", err)
		return 1
	}
	defer func() { _ = logManager.Close() }()

	recorder := timings.Recorder(timings.Nop{})
	var tm *timings.Timings
	if *showTimings {
		tm = timings.New()
		recorder = tm
	}

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	executable, err := os.Executable()
	if err != nil {
		logManager.For("app").Warn("cannot locate own executable, async workers disabled", "error", err)
	}

	env.ConfigDir = *configDir
	env.Config = cfg
	env.Logs = logManager
	env.Timings = recorder
	env.Home = home
	env.Executable = executable

	code := cli.BuildApp(version, env).Execute(fs.Args())

	if tm != nil {
		tm.Print(stderr)
	}
	return code
}

// loadConfig loads the configuration from the specified directory or default location.
func loadConfig(configDir string) (config.Config, error) {
	if configDir != "" {
		return config.LoadFromDir(configDir)
	}
	return config.Load()
}
