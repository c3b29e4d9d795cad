// pattern: Imperative Shell
package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"promptstat/internal/asyncstatus"
)

func TestCachePaths(t *testing.T) {
	env := newTestEnv(t)
	dir := fakeRepo(t)

	if code := env.run(t, "cache", "paths", "--path", dir); code != 0 {
		t.Fatalf("cache paths exited %d: %s", code, env.stderr.String())
	}

	paths, err := asyncstatus.DerivePaths(filepath.Join(dir, ".git"), env.Home)
	if err != nil {
		t.Fatal(err)
	}
	out := env.stdout.String()
	for _, p := range []string{paths.LockPath, paths.DataPath, paths.LogPath} {
		if !strings.Contains(out, p) {
			t.Errorf("output missing %s:\n%s", p, out)
		}
	}
}

func TestCachePaths_NotARepository(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), ".git")); err == nil {
		t.Skip("temp dir is inside a repository")
	}

	if code := env.run(t, "cache", "paths", "--path", dir); code != 1 {
		t.Errorf("cache paths outside a repository exited %d, want 1", code)
	}
}

func TestCacheCleanup(t *testing.T) {
	env := newTestEnv(t)
	dir := fakeRepo(t)

	paths, err := asyncstatus.DerivePaths(filepath.Join(dir, ".git"), env.Home)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.LockPath, nil, 0644); err != nil {
		t.Fatal(err)
	}

	if code := env.run(t, "cache", "cleanup", "--path", dir); code != 0 {
		t.Fatalf("cache cleanup exited %d: %s", code, env.stderr.String())
	}
	if !strings.HasPrefix(env.stdout.String(), "Removed lock") {
		t.Errorf("output = %q", env.stdout.String())
	}
	if _, err := os.Stat(paths.LockPath); !os.IsNotExist(err) {
		t.Error("lock marker still present")
	}

	if code := env.run(t, "cache", "cleanup", "--path", dir); code != 0 {
		t.Fatalf("second cleanup exited %d", code)
	}
	if env.stdout.String() != "No lock present.\n" {
		t.Errorf("output = %q", env.stdout.String())
	}
}

func TestCacheLog(t *testing.T) {
	env := newTestEnv(t)
	dir := fakeRepo(t)

	// No event log yet.
	if code := env.run(t, "cache", "log", "--path", dir); code != 0 {
		t.Fatalf("cache log exited %d: %s", code, env.stderr.String())
	}
	if env.stdout.Len() != 0 {
		t.Errorf("output = %q, want empty", env.stdout.String())
	}

	paths, err := asyncstatus.DerivePaths(filepath.Join(dir, ".git"), env.Home)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.LockPath, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if code := env.run(t, "cache", "cleanup", "--path", dir); code != 0 {
		t.Fatalf("cache cleanup exited %d", code)
	}

	if code := env.run(t, "cache", "log", "--path", dir); code != 0 {
		t.Fatalf("cache log exited %d: %s", code, env.stderr.String())
	}
	if !strings.Contains(env.stdout.String(), "] lock cleared manually\n") {
		t.Errorf("output = %q", env.stdout.String())
	}
}

func TestFollowLog_StopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	if err := os.WriteFile(path, []byte("[10:00:00.000] worker created lock\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var out strings.Builder
	if err := followLog(ctx, path, &out); err != nil {
		t.Fatalf("followLog() error: %v", err)
	}
	if out.String() != "[10:00:00.000] worker created lock\n" {
		t.Errorf("output = %q", out.String())
	}
}
