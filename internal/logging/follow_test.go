// pattern: Imperative Shell

package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the follower goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitForOutput(t *testing.T, buf *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(buf.String(), want) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q, got %q", want, buf.String())
}

func appendLine(t *testing.T, path, line string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		t.Fatalf("WriteString failed: %v", err)
	}
}

func startFollower(t *testing.T, path string, fromStart bool) *syncBuffer {
	t.Helper()
	buf := &syncBuffer{}
	follower, err := NewFileFollower(path, buf, fromStart)
	if err != nil {
		t.Fatalf("NewFileFollower failed: %v", err)
	}
	follower.SetPollInterval(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = follower.Start(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return buf
}

func TestFileFollower_FromStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	appendLine(t, path, "[10:00:00.000] first\n")

	buf := startFollower(t, path, true)
	waitForOutput(t, buf, "first")

	appendLine(t, path, "[10:00:01.000] second\n")
	waitForOutput(t, buf, "second")
}

func TestFileFollower_SkipsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	appendLine(t, path, "old line\n")

	buf := startFollower(t, path, false)
	// Give the follower time to seek before appending.
	time.Sleep(100 * time.Millisecond)
	appendLine(t, path, "new line\n")
	waitForOutput(t, buf, "new line")

	if strings.Contains(buf.String(), "old line") {
		t.Errorf("existing content was copied: %q", buf.String())
	}
}

func TestFileFollower_FileCreatedLater(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")

	buf := startFollower(t, path, false)
	time.Sleep(100 * time.Millisecond)
	appendLine(t, path, "created\n")
	waitForOutput(t, buf, "created")
}

func TestFileFollower_HoldsPartialLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	buf := startFollower(t, path, true)
	time.Sleep(100 * time.Millisecond)

	appendLine(t, path, "half")
	time.Sleep(200 * time.Millisecond)
	if got := buf.String(); got != "" {
		t.Fatalf("partial line copied early: %q", got)
	}

	appendLine(t, path, " done\n")
	waitForOutput(t, buf, "half done\n")
}

func TestFileFollower_MissingDirectory(t *testing.T) {
	follower, err := NewFileFollower(filepath.Join(t.TempDir(), "nope", "events.log"), &bytes.Buffer{}, true)
	if err != nil {
		t.Fatalf("NewFileFollower failed: %v", err)
	}
	if err := follower.Start(context.Background()); err == nil {
		t.Fatal("Start should fail when the directory does not exist")
	}
}
