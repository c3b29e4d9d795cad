// pattern: Functional Core

// Package segment renders a repository status as a prompt segment.
package segment

import (
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"promptstat/internal/gitstatus"
)

// Options configure Render. The zero value renders default symbols without color.
type Options struct {
	Symbols    Symbols
	ShowCounts bool      // Print the count after every symbol, not just ahead/behind
	Theme      string    // Catppuccin flavor name
	Color      ColorMode // Empty means never
	Out        io.Writer // Where the segment is printed; consulted by ColorAuto
}

// Render returns the bracketed segment for status, e.g. "[!+?⇡1]".
// A clean status renders as the empty string.
func Render(status gitstatus.RepoStatus, opts Options) string {
	body := Body(status, opts.Symbols, opts.ShowCounts)
	if body == "" {
		return ""
	}

	mode := opts.Color
	if mode == "" {
		mode = ColorNever
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	profile := profileFor(mode, out)
	if profile == termenv.Ascii {
		return "[" + body + "]"
	}
	return newStyle(opts.Theme, profile, out).Render("[" + body + "]")
}

// Body returns the unstyled symbols without brackets.
func Body(status gitstatus.RepoStatus, symbols Symbols, showCounts bool) string {
	if symbols == (Symbols{}) {
		symbols = DefaultSymbols()
	}

	var b strings.Builder
	add := func(symbol string, n int) {
		if n == 0 || symbol == "" {
			return
		}
		b.WriteString(symbol)
		if showCounts {
			b.WriteString(strconv.Itoa(n))
		}
	}

	add(symbols.Conflicted, status.Conflicted)
	add(symbols.Stashed, status.Stashed)
	add(symbols.Renamed, status.Renamed)
	add(symbols.Deleted, status.Deleted)
	add(symbols.Modified, status.Modified)
	add(symbols.Typechanged, status.Typechanged)
	add(symbols.Staged, status.Staged)
	add(symbols.Untracked, status.Untracked)

	switch {
	case status.Ahead > 0 && status.Behind > 0:
		b.WriteString(symbols.Diverged)
		b.WriteString(symbols.Ahead + strconv.Itoa(status.Ahead))
		b.WriteString(symbols.Behind + strconv.Itoa(status.Behind))
	case status.Ahead > 0:
		b.WriteString(symbols.Ahead + strconv.Itoa(status.Ahead))
	case status.Behind > 0:
		b.WriteString(symbols.Behind + strconv.Itoa(status.Behind))
	}

	return b.String()
}
