// Package menu compiles the flat command list into a hierarchical menu and
// materializes it into a platform menu through a Builder.
//
// Compilation works on an arena: nodes live in a growable slice and
// parent-to-child edges are slice indices. Index 0 is a synthetic root with
// an empty name. Children are matched by name with a linear scan in insertion
// order, so the first node seen for a segment at a given depth is the one
// later commands descend into.
package menu

import (
	"strings"

	"github.com/atomicstack/declui/internal/command"
	"github.com/atomicstack/declui/internal/logging/events"
)

// RootIndex is the arena index of the synthetic root node.
const RootIndex = 0

// Node is one entry of the compiled menu tree. Leaves carry the full command
// they invoke; internal nodes carry a zero placeholder.
type Node struct {
	Name     string
	Children []int
	Command  command.Info
}

// Leaf reports whether the node denotes an invocable command.
func (n Node) Leaf() bool {
	return len(n.Children) == 0
}

// Tree is the compiled, read-only menu hierarchy.
type Tree struct {
	nodes []Node
}

// Compile builds the menu tree for cmds in order. Paths are not validated:
// an empty segment becomes a node with an empty name.
func Compile(cmds []command.Info) *Tree {
	t := &Tree{nodes: []Node{{}}}
	for _, cmd := range cmds {
		idx := RootIndex
		for _, segment := range strings.Split(cmd.Path, command.Separator) {
			child, ok := t.Child(idx, segment)
			if !ok {
				child = len(t.nodes)
				t.nodes = append(t.nodes, Node{Name: segment})
				t.nodes[idx].Children = append(t.nodes[idx].Children, child)
			}
			idx = child
		}
		t.nodes[idx].Command = cmd
	}
	events.Menu.Compile(len(cmds), len(t.nodes))
	return t
}

// Child returns the first child of parent named name.
func (t *Tree) Child(parent int, name string) (int, bool) {
	for _, c := range t.nodes[parent].Children {
		if t.nodes[c].Name == name {
			return c, true
		}
	}
	return 0, false
}

// Len returns the number of nodes including the root.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node stored at idx.
func (t *Tree) Node(idx int) Node {
	return t.nodes[idx]
}

// Lookup walks path from the root and returns the node index it names.
func (t *Tree) Lookup(path string) (int, bool) {
	idx := RootIndex
	for _, segment := range strings.Split(path, command.Separator) {
		child, ok := t.Child(idx, segment)
		if !ok {
			return 0, false
		}
		idx = child
	}
	return idx, true
}

// Leaves returns the commands of every leaf in depth-first order.
func (t *Tree) Leaves() []command.Info {
	var out []command.Info
	var walk func(int)
	walk = func(idx int) {
		for _, c := range t.nodes[idx].Children {
			if t.nodes[c].Leaf() {
				out = append(out, t.nodes[c].Command)
				continue
			}
			walk(c)
		}
	}
	walk(RootIndex)
	return out
}
