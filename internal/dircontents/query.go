// pattern: Functional Core

package dircontents

import (
	"path/filepath"
	"strings"
)

// negationPrefix marks a candidate that should be reported when absent.
const negationPrefix = "!"

// HasFile reports whether path names a file in the snapshot.
func (s *Snapshot) HasFile(path string) bool {
	_, ok := s.files[filepath.Clean(path)]
	return ok
}

// HasFileName reports whether any file has the given base name.
func (s *Snapshot) HasFileName(name string) bool {
	_, ok := s.fileNames[name]
	return ok
}

// HasFolder reports whether path names a folder in the snapshot.
func (s *Snapshot) HasFolder(path string) bool {
	_, ok := s.folders[filepath.Clean(path)]
	return ok
}

// HasExtension reports whether any non-hidden file carries ext, without the dot.
func (s *Snapshot) HasExtension(ext string) bool {
	return s.extensions.Contains(ext)
}

// HasAnyPositiveFileName reports whether a non-negated candidate is present.
func (s *Snapshot) HasAnyPositiveFileName(names []string) bool {
	return anyPositive(names, s.HasFileName)
}

// HasAnyPositiveFolder reports whether a non-negated candidate is present.
func (s *Snapshot) HasAnyPositiveFolder(paths []string) bool {
	return anyPositive(paths, s.HasFolder)
}

// HasAnyPositiveExtension reports whether a non-negated candidate is present.
func (s *Snapshot) HasAnyPositiveExtension(exts []string) bool {
	return anyPositive(exts, s.HasExtension)
}

// HasAnyNegativeFileName reports whether a "!"-prefixed candidate is present,
// i.e. whether an exclusion applies.
func (s *Snapshot) HasAnyNegativeFileName(names []string) bool {
	return anyNegative(names, s.HasFileName)
}

// HasAnyNegativeFolder reports whether a "!"-prefixed candidate is present.
func (s *Snapshot) HasAnyNegativeFolder(paths []string) bool {
	return anyNegative(paths, s.HasFolder)
}

// HasAnyNegativeExtension reports whether a "!"-prefixed candidate is present.
func (s *Snapshot) HasAnyNegativeExtension(exts []string) bool {
	return anyNegative(exts, s.HasExtension)
}

func anyPositive(candidates []string, has func(string) bool) bool {
	for _, c := range candidates {
		if !strings.HasPrefix(c, negationPrefix) && has(c) {
			return true
		}
	}
	return false
}

func anyNegative(candidates []string, has func(string) bool) bool {
	for _, c := range candidates {
		if rest, ok := strings.CutPrefix(c, negationPrefix); ok && has(rest) {
			return true
		}
	}
	return false
}

// Detector is the set of candidates a prompt module uses to decide whether
// it applies to a directory.
type Detector struct {
	Extensions []string
	Files      []string
	Folders    []string
}

// Match is false when any negated candidate is present, otherwise true when
// any positive candidate is present.
func (d Detector) Match(s *Snapshot) bool {
	if s.HasAnyNegativeExtension(d.Extensions) ||
		s.HasAnyNegativeFileName(d.Files) ||
		s.HasAnyNegativeFolder(d.Folders) {
		return false
	}
	return s.HasAnyPositiveExtension(d.Extensions) ||
		s.HasAnyPositiveFileName(d.Files) ||
		s.HasAnyPositiveFolder(d.Folders)
}
