// pattern: Functional Core

package asyncstatus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/zeebo/xxh3"
)

const (
	cacheDirName = "git_status_async"
	// maxSanitizedBytes keeps stem + hash + suffix under the usual 255-byte name limit.
	maxSanitizedBytes = 180
)

var sanitizer = strings.NewReplacer("/", "_", `\`, "_", ":", "_")

// Paths are the three per-target files shared by every invocation.
type Paths struct {
	Dir      string // Per-user cache directory
	LockPath string // Existence-only marker: a worker is believed active
	DataPath string // Last cached result, JSON
	LogPath  string // Append-only event log
}

// CacheDir returns the per-user directory holding all targets' files.
func CacheDir(home string) string {
	return filepath.Join(home, ".config", "promptstat", cacheDirName)
}

// Stem maps a target path to a file name stem. The mapping is deterministic.
// Separators and drive colons become "_"; the xxh3 hash of the original path
// keeps targets that sanitize identically (e.g. "/a_b" and "/a/b") apart.
func Stem(target string) string {
	sanitized := sanitizer.Replace(target)
	if len(sanitized) > maxSanitizedBytes {
		cut := len(sanitized) - maxSanitizedBytes
		for cut < len(sanitized) && !utf8.RuneStart(sanitized[cut]) {
			cut++
		}
		sanitized = sanitized[cut:]
	}
	return fmt.Sprintf("%s-%016x", sanitized, xxh3.HashString(target))
}

// DerivePaths returns the lock, data and log paths for target under home,
// creating the cache directory if it does not exist yet.
func DerivePaths(target, home string) (Paths, error) {
	if home == "" {
		return Paths{}, errors.New("home directory is required")
	}

	dir := CacheDir(home)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Paths{}, fmt.Errorf("create cache directory: %w", err)
	}

	stem := Stem(target)
	return Paths{
		Dir:      dir,
		LockPath: filepath.Join(dir, stem+".lock"),
		DataPath: filepath.Join(dir, stem+".json"),
		LogPath:  filepath.Join(dir, stem+".log"),
	}, nil
}
