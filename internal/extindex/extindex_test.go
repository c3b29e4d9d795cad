package extindex

import (
	"testing"

	"pgregory.net/rapid"
)

func TestIndex_InsertContains(t *testing.T) {
	x := New()
	x.Insert("gz")
	x.Insert("tar.gz")
	x.Insert("js")

	tests := []struct {
		token string
		want  bool
	}{
		{"gz", true},
		{"tar.gz", true},
		{"js", true},
		{"tar", false},
		{"g", false},
		{"gzz", false},
		{"json", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := x.Contains(tt.token); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestIndex_EmptyToken(t *testing.T) {
	x := New()
	if x.Contains("") {
		t.Fatal("empty index should not contain the empty token")
	}
	x.Insert("")
	if !x.Contains("") {
		t.Fatal("expected empty token after Insert(\"\")")
	}
}

func TestIndex_InsertTwice(t *testing.T) {
	x := New()
	x.Insert("rs")
	nodes := x.Len()
	x.Insert("rs")

	if !x.Contains("rs") {
		t.Fatal("Contains(rs) = false after duplicate insert")
	}
	if x.Len() != nodes {
		t.Errorf("duplicate insert grew the tree: %d -> %d nodes", nodes, x.Len())
	}
}

func TestIndex_NonASCII(t *testing.T) {
	x := New()
	x.Insert("tést")
	x.Insert("\xff\x00")

	if !x.Contains("tést") {
		t.Error("Contains(tést) = false")
	}
	if !x.Contains("\xff\x00") {
		t.Error("Contains(\\xff\\x00) = false")
	}
	if x.Contains("tés") {
		t.Error("prefix of multi-byte token reported as present")
	}
}

func TestIndex_MatchesSetSemantics(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		inserted := rapid.SliceOf(rapid.StringN(0, 6, -1)).Draw(t, "inserted")
		probes := rapid.SliceOf(rapid.StringN(0, 6, -1)).Draw(t, "probes")

		x := New()
		want := make(map[string]bool)
		for _, s := range inserted {
			x.Insert(s)
			want[s] = true
		}

		for _, s := range append(inserted, probes...) {
			if got := x.Contains(s); got != want[s] {
				t.Fatalf("Contains(%q) = %v, want %v", s, got, want[s])
			}
		}
	})
}
