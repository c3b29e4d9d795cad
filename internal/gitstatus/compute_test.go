package gitstatus

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"promptstat/internal/timings"
)

func fakeRunner(outputs map[string]string, errs map[string]error) RunFunc {
	return func(_ context.Context, _ string, args ...string) ([]byte, error) {
		key := args[0]
		if err, ok := errs[key]; ok {
			return nil, err
		}
		return []byte(outputs[key]), nil
	}
}

func TestComputer_Compute(t *testing.T) {
	tm := timings.New()
	c := NewComputer(time.Second, nil, tm).WithRunner(fakeRunner(map[string]string{
		"status": "# branch.head dev\n# branch.ab +0 -3\n? new.txt\n",
		"stash":  "stash@{0}: WIP on dev\nstash@{1}: WIP on dev\n",
	}, nil))

	got, err := c.Compute(context.Background(), Repo{WorkDir: "/repo", GitDir: "/repo/.git"})
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	want := RepoStatus{Branch: "dev", Behind: 3, Untracked: 1, Stashed: 2}
	if got != want {
		t.Errorf("Compute() = %+v, want %+v", got, want)
	}
	if tm.Count("git_status") != 1 {
		t.Error("git_status duration not recorded")
	}
}

func TestComputer_StashFailureIsZero(t *testing.T) {
	c := NewComputer(0, nil, nil).WithRunner(fakeRunner(
		map[string]string{"status": "# branch.head main\n"},
		map[string]error{"stash": errors.New("no stash ref")},
	))

	got, err := c.Compute(context.Background(), Repo{WorkDir: "/repo"})
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if got.Stashed != 0 || got.Branch != "main" {
		t.Errorf("Compute() = %+v", got)
	}
}

func TestComputer_StatusFailure(t *testing.T) {
	c := NewComputer(0, nil, nil).WithRunner(fakeRunner(nil, map[string]error{
		"status": errors.New("fatal: not a git repository"),
	}))

	if _, err := c.Compute(context.Background(), Repo{WorkDir: "/repo"}); err == nil {
		t.Fatal("Compute() should fail when git status fails")
	}
}

func TestComputer_Timeout(t *testing.T) {
	c := NewComputer(20*time.Millisecond, nil, nil).WithRunner(func(ctx context.Context, _ string, _ ...string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	start := time.Now()
	if _, err := c.Compute(context.Background(), Repo{WorkDir: "/repo"}); err == nil {
		t.Fatal("Compute() should fail after the timeout")
	}
	if time.Since(start) > 2*time.Second {
		t.Error("Compute() ignored its timeout")
	}
}

func TestComputer_RealGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	git := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=t", "GIT_AUTHOR_EMAIL=t@example.com",
			"GIT_COMMITTER_NAME=t", "GIT_COMMITTER_EMAIL=t@example.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
		}
	}
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	git("init", "-q", "-b", "main")
	write("tracked.txt", "one\n")
	git("add", "tracked.txt")
	git("commit", "-q", "-m", "init")
	write("tracked.txt", "two\n")
	write("untracked.txt", "x\n")

	repo, err := FindRepo(dir)
	if err != nil {
		t.Fatalf("FindRepo() error: %v", err)
	}
	got, err := NewComputer(10*time.Second, nil, nil).Compute(context.Background(), repo)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	if got.Branch != "main" {
		t.Errorf("Branch = %q, want main", got.Branch)
	}
	if got.Modified != 1 || got.Untracked != 1 || got.Staged != 0 {
		t.Errorf("Compute() = %+v, want 1 modified and 1 untracked", got)
	}
}
