// pattern: Imperative Shell

// Package gitstatus locates repositories and computes their prompt status.
package gitstatus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotRepo is returned when no enclosing repository exists.
var ErrNotRepo = errors.New("not inside a git repository")

// FindRepo walks up from start to the nearest directory containing .git,
// either a directory or a gitdir file (worktrees, submodules).
func FindRepo(start string) (Repo, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return Repo{}, fmt.Errorf("resolve %s: %w", start, err)
	}

	for {
		gitDir := filepath.Join(dir, ".git")
		if _, err := os.Stat(gitDir); err == nil {
			return Repo{GitDir: gitDir, WorkDir: dir}, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Repo{}, ErrNotRepo
		}
		dir = parent
	}
}
