// pattern: Functional Core

package segment

// Symbols are the glyphs printed for each kind of change. An empty symbol
// hides that kind entirely.
type Symbols struct {
	Conflicted  string `yaml:"conflicted" toml:"conflicted"`
	Stashed     string `yaml:"stashed" toml:"stashed"`
	Renamed     string `yaml:"renamed" toml:"renamed"`
	Deleted     string `yaml:"deleted" toml:"deleted"`
	Modified    string `yaml:"modified" toml:"modified"`
	Typechanged string `yaml:"typechanged" toml:"typechanged"`
	Staged      string `yaml:"staged" toml:"staged"`
	Untracked   string `yaml:"untracked" toml:"untracked"`
	Ahead       string `yaml:"ahead" toml:"ahead"`
	Behind      string `yaml:"behind" toml:"behind"`
	Diverged    string `yaml:"diverged" toml:"diverged"`
}

// DefaultSymbols matches starship's git_status defaults.
func DefaultSymbols() Symbols {
	return Symbols{
		Conflicted: "=",
		Stashed:    "$",
		Renamed:    "»",
		Deleted:    "✘",
		Modified:   "!",
		Staged:     "+",
		Untracked:  "?",
		Ahead:      "⇡",
		Behind:     "⇣",
		Diverged:   "⇕",
	}
}

// WithOverrides returns s with every non-empty field of o applied.
func (s Symbols) WithOverrides(o Symbols) Symbols {
	pick := func(base, override string) string {
		if override != "" {
			return override
		}
		return base
	}
	return Symbols{
		Conflicted:  pick(s.Conflicted, o.Conflicted),
		Stashed:     pick(s.Stashed, o.Stashed),
		Renamed:     pick(s.Renamed, o.Renamed),
		Deleted:     pick(s.Deleted, o.Deleted),
		Modified:    pick(s.Modified, o.Modified),
		Typechanged: pick(s.Typechanged, o.Typechanged),
		Staged:      pick(s.Staged, o.Staged),
		Untracked:   pick(s.Untracked, o.Untracked),
		Ahead:       pick(s.Ahead, o.Ahead),
		Behind:      pick(s.Behind, o.Behind),
		Diverged:    pick(s.Diverged, o.Diverged),
	}
}
