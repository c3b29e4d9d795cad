package segment

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"promptstat/internal/gitstatus"
)

func TestBody(t *testing.T) {
	tests := []struct {
		name   string
		status gitstatus.RepoStatus
		counts bool
		want   string
	}{
		{"clean", gitstatus.RepoStatus{Branch: "main"}, false, ""},
		{"modified", gitstatus.RepoStatus{Modified: 3}, false, "!"},
		{"modified with counts", gitstatus.RepoStatus{Modified: 3}, true, "!3"},
		{"ahead", gitstatus.RepoStatus{Ahead: 2}, false, "⇡2"},
		{"behind", gitstatus.RepoStatus{Behind: 1}, false, "⇣1"},
		{"diverged", gitstatus.RepoStatus{Ahead: 2, Behind: 5}, false, "⇕⇡2⇣5"},
		{
			"everything",
			gitstatus.RepoStatus{
				Conflicted: 1, Stashed: 1, Renamed: 1, Deleted: 1,
				Modified: 1, Staged: 1, Untracked: 1, Ahead: 1, Behind: 1,
			},
			false,
			"=$»✘!+?⇕⇡1⇣1",
		},
		{"typechange hidden by default", gitstatus.RepoStatus{Typechanged: 2}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Body(tt.status, DefaultSymbols(), tt.counts); got != tt.want {
				t.Errorf("Body() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBody_ZeroSymbolsUseDefaults(t *testing.T) {
	if got := Body(gitstatus.RepoStatus{Untracked: 1}, Symbols{}, false); got != "?" {
		t.Errorf("Body() = %q, want ?", got)
	}
}

func TestRender(t *testing.T) {
	if got := Render(gitstatus.RepoStatus{}, Options{}); got != "" {
		t.Errorf("Render(clean) = %q, want empty", got)
	}
	if got := Render(gitstatus.RepoStatus{Staged: 1, Ahead: 1}, Options{}); got != "[+⇡1]" {
		t.Errorf("Render() = %q, want [+⇡1]", got)
	}
}

func TestRender_Colors(t *testing.T) {
	status := gitstatus.RepoStatus{Modified: 1}

	colored := Render(status, Options{Color: ColorAlways, Theme: "latte"})
	if !strings.Contains(colored, "\x1b[") {
		t.Errorf("ColorAlways output has no escape sequences: %q", colored)
	}
	if got := ansi.Strip(colored); got != "[!]" {
		t.Errorf("stripped output = %q, want [!]", got)
	}

	// A buffer is never a terminal.
	auto := Render(status, Options{Color: ColorAuto, Out: &bytes.Buffer{}})
	if auto != "[!]" {
		t.Errorf("ColorAuto to a non-terminal = %q, want plain", auto)
	}

	never := Render(status, Options{Color: ColorNever})
	if never != "[!]" {
		t.Errorf("ColorNever = %q, want plain", never)
	}
}

func TestWithOverrides(t *testing.T) {
	s := DefaultSymbols().WithOverrides(Symbols{Modified: "*", Typechanged: "T"})
	if s.Modified != "*" || s.Typechanged != "T" {
		t.Errorf("overrides not applied: %+v", s)
	}
	if s.Staged != "+" {
		t.Errorf("Staged = %q, want default +", s.Staged)
	}
}

func TestParseColorMode(t *testing.T) {
	for in, want := range map[string]ColorMode{
		"always": ColorAlways,
		"never":  ColorNever,
		"auto":   ColorAuto,
		"":       ColorAuto,
		"bogus":  ColorAuto,
	} {
		if got := ParseColorMode(in); got != want {
			t.Errorf("ParseColorMode(%q) = %q, want %q", in, got, want)
		}
	}
}
