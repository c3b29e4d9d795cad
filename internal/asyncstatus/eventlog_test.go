package asyncstatus

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var eventLine = regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\.\d{3}\] (.*)$`)

// readEvents returns the messages in an event log, asserting the line format.
func readEvents(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read event log: %v", err)
	}
	var msgs []string
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if line == "" {
			continue
		}
		m := eventLine.FindStringSubmatch(line)
		if m == nil {
			t.Fatalf("malformed event line %q", line)
		}
		msgs = append(msgs, m[1])
	}
	return msgs
}

func TestEventLog_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target.log")

	l, err := OpenEventLog(path)
	if err != nil {
		t.Fatalf("OpenEventLog() error: %v", err)
	}
	l.Log("worker created lock")
	l.Logf("lock %s did not exist", "/x.lock")
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	got := readEvents(t, path)
	want := []string{"worker created lock", "lock /x.lock did not exist"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("events = %q, want %q", got, want)
	}
}

func TestEventLog_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target.log")

	for _, msg := range []string{"first", "second"} {
		l, err := OpenEventLog(path)
		if err != nil {
			t.Fatalf("OpenEventLog() error: %v", err)
		}
		l.Log(msg)
		_ = l.Close()
	}

	if got := readEvents(t, path); len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("events = %q, want [first second]", got)
	}
}

func TestOpenEventLog_Unwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "target.log")
	if _, err := OpenEventLog(path); err == nil {
		t.Fatal("OpenEventLog() should fail when the directory does not exist")
	}
}
