// pattern: Imperative Shell
package cli

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	flag "github.com/spf13/pflag"

	"promptstat/internal/dircontents"
)

func (e *Env) snapshot(path string, timeout time.Duration) (*dircontents.Snapshot, error) {
	return dircontents.FromPath(path, dircontents.Options{
		Timeout:  timeout,
		Stride:   e.Config.ScanStride,
		Recorder: e.recorder(),
		Logger:   e.logger("dircontents"),
	})
}

func runDetectCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	path := fs.StringP("path", "p", ".", "directory to characterize")
	extensions := fs.StringSlice("extensions", nil, "extensions to look for; prefix with ! to exclude")
	files := fs.StringSlice("files", nil, "file names to look for; prefix with ! to exclude")
	folders := fs.StringSlice("folders", nil, "folder names to look for; prefix with ! to exclude")
	if err := fs.Parse(args); err != nil {
		return err
	}

	snap, err := env.snapshot(*path, env.Config.ScanTimeout)
	if err != nil {
		// A directory that cannot be listed matches nothing.
		env.logger("cli").Debug("directory unreadable", "path", *path, "error", err)
		_, err = fmt.Fprintln(env.Stdout, false)
		return err
	}

	detector := dircontents.Detector{
		Extensions: *extensions,
		Files:      *files,
		Folders:    *folders,
	}
	_, err = fmt.Fprintln(env.Stdout, detector.Match(snap))
	return err
}

// scanReport is the JSON shape printed by scan.
type scanReport struct {
	Base      string   `json:"base"`
	Files     []string `json:"files"`
	Folders   []string `json:"folders"`
	Truncated bool     `json:"truncated"`
	ElapsedMs float64  `json:"elapsed_ms"`
}

func runScanCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	path := fs.StringP("path", "p", ".", "directory to characterize")
	timeout := fs.Duration("timeout", env.Config.ScanTimeout, "enumeration deadline")
	if err := fs.Parse(args); err != nil {
		return err
	}

	started := time.Now()
	snap, err := env.snapshot(*path, *timeout)
	if err != nil {
		return err
	}
	elapsed := time.Since(started)

	report := scanReport{
		Base:      snap.Base(),
		Files:     snap.Files(),
		Folders:   snap.Folders(),
		Truncated: snap.Truncated(),
		ElapsedMs: float64(elapsed.Microseconds()) / 1000,
	}

	enc := json.NewEncoder(env.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
