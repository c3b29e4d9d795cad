// pattern: Functional Core

// Package extindex holds the set of file-extension tokens seen in a directory.
package extindex

import "fmt"

// noChild marks an empty slot in a node's child table. Node 0 is the root and
// can never be a child, so zero doubles as the sentinel.
const noChild = 0

type node struct {
	terminal bool
	children [256]uint32
}

// Index is a write-once, read-many prefix tree over byte strings.
// Insert and Contains are O(len(token)). The zero value is not usable; call New.
type Index struct {
	nodes []node
}

// New creates an empty index.
func New() *Index {
	return &Index{nodes: make([]node, 1, 16)}
}

// Insert records token as present. Inserting a token twice is a no-op.
func (x *Index) Insert(token string) {
	cur := uint32(0)
	for i := 0; i < len(token); i++ {
		b := token[i]
		next := x.nodes[cur].children[b]
		if next == noChild {
			x.nodes = append(x.nodes, node{})
			next = uint32(len(x.nodes) - 1)
			x.nodes[cur].children[b] = next
		}
		cur = next
	}
	x.nodes[cur].terminal = true
}

// Contains reports whether token was inserted exactly.
func (x *Index) Contains(token string) bool {
	cur := uint32(0)
	for i := 0; i < len(token); i++ {
		next := x.nodes[cur].children[token[i]]
		if next == noChild {
			return false
		}
		cur = next
	}
	return x.nodes[cur].terminal
}

// Len returns the number of tree nodes, root included.
func (x *Index) Len() int {
	return len(x.nodes)
}

func (x *Index) String() string {
	return fmt.Sprintf("extindex(nodes: %d)", len(x.nodes))
}
