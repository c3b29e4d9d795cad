// pattern: Imperative Shell

// Package dircontents characterizes a single directory level under a deadline
// and answers membership queries against the result.
package dircontents

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"promptstat/internal/extindex"
	"promptstat/internal/logging"
	"promptstat/internal/timings"
)

// DefaultStride is how many entries are processed between deadline checks.
const DefaultStride = 256

const hiddenPrefix = "."

var errNotDir = errors.New("not a directory")

// maxConsecutiveReadErrors ends a pass whose reads keep failing.
const maxConsecutiveReadErrors = 16

// Options controls one characterization pass.
type Options struct {
	Timeout  time.Duration         // Deadline for the enumeration, measured from the call
	Stride   int                   // Entries between deadline checks (default DefaultStride)
	Recorder timings.Recorder      // Receives the "dir_contents" duration (optional)
	Logger   *logging.ScopedLogger // Diagnostic logger (optional)

	now  func() time.Time
	open func(name string) (dirReader, error)
}

// dirReader is the part of *os.File the enumeration uses.
type dirReader interface {
	ReadDir(n int) ([]os.DirEntry, error)
	Close() error
}

func openDir(name string) (dirReader, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if !info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", name, errNotDir)
	}
	return f, nil
}

// Snapshot is the immutable result of one bounded enumeration of a directory.
// All paths are relative to Base.
type Snapshot struct {
	base       string
	files      map[string]struct{}
	fileNames  map[string]struct{}
	folders    map[string]struct{}
	extensions *extindex.Index
	truncated  bool
}

// FromPathWithTimeout characterizes base with default options and the given deadline.
func FromPathWithTimeout(base string, timeout time.Duration) (*Snapshot, error) {
	return FromPath(base, Options{Timeout: timeout})
}

// FromPath enumerates the immediate children of base once.
//
// The deadline is checked after every Stride entries, so at least one full
// stride is always processed. When the deadline has passed the snapshot holds
// whatever was gathered so far and Truncated reports true. A failed read
// skips the entry it failed on and the pass continues. Only a failure to open
// base itself, or a directory none of whose entries can be read, is returned
// as an error.
func FromPath(base string, opts Options) (*Snapshot, error) {
	if opts.Stride <= 0 {
		opts.Stride = DefaultStride
	}
	if opts.now == nil {
		opts.now = time.Now
	}
	if opts.open == nil {
		opts.open = openDir
	}
	if opts.Recorder == nil {
		opts.Recorder = timings.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}

	start := opts.now()

	dir, err := opts.open(base)
	if err != nil {
		return nil, fmt.Errorf("open directory %s: %w", base, err)
	}
	defer dir.Close()

	s := &Snapshot{
		base:       base,
		files:      make(map[string]struct{}),
		fileNames:  make(map[string]struct{}),
		folders:    make(map[string]struct{}),
		extensions: extindex.New(),
	}

	failures := 0
	for {
		entries, err := dir.ReadDir(opts.Stride)
		for _, entry := range entries {
			s.add(base, entry)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// The failing entry is skipped; later entries are still read.
			failures++
			opts.Logger.Debug("skipping unreadable entry", "base", base, "error", err)
			if failures >= maxConsecutiveReadErrors {
				if len(s.files)+len(s.folders) == 0 {
					return nil, fmt.Errorf("list directory %s: %w", base, err)
				}
				break
			}
		} else {
			failures = 0
		}

		if opts.now().Sub(start) >= opts.Timeout {
			s.truncated = !atEnd(dir, s, base)
			break
		}
	}

	elapsed := opts.now().Sub(start)
	opts.Recorder.Record("dir_contents", elapsed)
	opts.Logger.Debug("characterized directory",
		"base", base,
		"files", len(s.files),
		"folders", len(s.folders),
		"truncated", s.truncated,
		"elapsed", elapsed,
	)

	return s, nil
}

// atEnd reports whether dir has nothing left. Checking costs at most one
// entry, which is kept.
func atEnd(dir dirReader, s *Snapshot, base string) bool {
	entries, err := dir.ReadDir(1)
	for _, entry := range entries {
		s.add(base, entry)
	}
	return len(entries) == 0 && errors.Is(err, io.EOF)
}

func (s *Snapshot) add(base string, entry os.DirEntry) {
	name := entry.Name()

	if isDir(base, entry) {
		s.folders[name] = struct{}{}
		return
	}

	s.files[name] = struct{}{}
	s.fileNames[name] = struct{}{}
	if strings.HasPrefix(name, hiddenPrefix) {
		return
	}
	for _, ext := range extensionsOf(name) {
		s.extensions.Insert(ext)
	}
}

// isDir follows symlinks, so a link to a directory is a folder. A dangling
// link is a file.
func isDir(base string, entry os.DirEntry) bool {
	if entry.Type()&os.ModeSymlink == 0 {
		return entry.IsDir()
	}
	info, err := os.Stat(filepath.Join(base, entry.Name()))
	if err != nil {
		return false
	}
	return info.IsDir()
}

// extensionsOf returns the minimal and the full extension of a file name, so
// "foo.tar.gz" yields "gz" and "tar.gz". Empty tokens are dropped.
func extensionsOf(name string) []string {
	first := strings.IndexByte(name, '.')
	if first < 0 {
		return nil
	}
	last := strings.LastIndexByte(name, '.')

	var exts []string
	if minimal := name[last+1:]; minimal != "" {
		exts = append(exts, minimal)
	}
	if full := name[first+1:]; full != "" && first != last {
		exts = append(exts, full)
	}
	return exts
}

// Base returns the directory the snapshot was taken of.
func (s *Snapshot) Base() string {
	return s.base
}

// Truncated reports whether the deadline cut the enumeration short, i.e.
// entries were left unread. A pass that reached the end exactly at the
// deadline is not truncated.
func (s *Snapshot) Truncated() bool {
	return s.truncated
}

// Files returns the relative file paths, sorted.
func (s *Snapshot) Files() []string {
	return sortedKeys(s.files)
}

// Folders returns the relative folder paths, sorted.
func (s *Snapshot) Folders() []string {
	return sortedKeys(s.folders)
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
