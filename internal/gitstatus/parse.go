// pattern: Functional Core

package gitstatus

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// ParsePorcelain parses `git status --porcelain=v2 --branch` output.
// Stashes are not part of that output and stay zero.
//
// Entry formats:
//
//	# branch.head <name>
//	# branch.ab +<ahead> -<behind>
//	1 <XY> <sub> <mH> <mI> <mW> <hH> <hI> <path>
//	2 <XY> <sub> <mH> <mI> <mW> <hH> <hI> <X><score> <path><tab><origPath>
//	u <XY> <sub> <m1> <m2> <m3> <mW> <h1> <h2> <h3> <path>
//	? <path>
func ParsePorcelain(out []byte) (RepoStatus, error) {
	var s RepoStatus

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		switch line[0] {
		case '#':
			if err := parseHeader(line, &s); err != nil {
				return RepoStatus{}, err
			}
		case '1':
			countChange(xy(line), &s)
		case '2':
			s.Renamed++
			countChange(xy(line), &s)
		case 'u':
			s.Conflicted++
		case '?':
			s.Untracked++
		}
	}
	if err := scanner.Err(); err != nil {
		return RepoStatus{}, fmt.Errorf("read status output: %w", err)
	}

	return s, nil
}

func parseHeader(line string, s *RepoStatus) error {
	if head, ok := strings.CutPrefix(line, "# branch.head "); ok {
		s.Branch = head
		return nil
	}
	ab, ok := strings.CutPrefix(line, "# branch.ab ")
	if !ok {
		return nil
	}

	fields := strings.Fields(ab)
	if len(fields) != 2 {
		return fmt.Errorf("malformed branch.ab line %q", line)
	}
	ahead, err := strconv.Atoi(strings.TrimPrefix(fields[0], "+"))
	if err != nil {
		return fmt.Errorf("malformed ahead count in %q: %w", line, err)
	}
	behind, err := strconv.Atoi(strings.TrimPrefix(fields[1], "-"))
	if err != nil {
		return fmt.Errorf("malformed behind count in %q: %w", line, err)
	}
	s.Ahead, s.Behind = ahead, behind
	return nil
}

// xy returns the two-letter index/worktree state of a changed entry.
func xy(line string) string {
	if len(line) < 4 {
		return ".."
	}
	return line[2:4]
}

func countChange(code string, s *RepoStatus) {
	index, worktree := code[0], code[1]

	if index != '.' {
		s.Staged++
	}
	if worktree == 'M' {
		s.Modified++
	}
	if index == 'D' || worktree == 'D' {
		s.Deleted++
	}
	if index == 'T' || worktree == 'T' {
		s.Typechanged++
	}
}

// countLines counts non-empty lines, e.g. in `git stash list` output.
func countLines(out []byte) int {
	n := 0
	for _, line := range bytes.Split(out, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	return n
}
