// pattern: Functional Core

package gitstatus

// Repo locates a git repository.
type Repo struct {
	GitDir  string // The .git directory or gitdir file; identifies the target
	WorkDir string // The working tree root, parent of GitDir
}

// RepoStatus is the summary rendered in the prompt. It is what the async
// worker caches, so field names are part of the on-disk format.
type RepoStatus struct {
	Branch      string `json:"branch,omitempty"`
	Ahead       int    `json:"ahead"`
	Behind      int    `json:"behind"`
	Conflicted  int    `json:"conflicted"`
	Staged      int    `json:"staged"`
	Modified    int    `json:"modified"`
	Renamed     int    `json:"renamed"`
	Deleted     int    `json:"deleted"`
	Typechanged int    `json:"typechanged"`
	Untracked   int    `json:"untracked"`
	Stashed     int    `json:"stashed"`
}

// Clean reports whether there is nothing to show besides the branch.
func (s RepoStatus) Clean() bool {
	return s.Ahead == 0 && s.Behind == 0 &&
		s.Conflicted == 0 && s.Staged == 0 && s.Modified == 0 &&
		s.Renamed == 0 && s.Deleted == 0 && s.Typechanged == 0 &&
		s.Untracked == 0 && s.Stashed == 0
}
