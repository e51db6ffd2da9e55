// Package command holds the flat, ordered list of command descriptors an
// application exposes. Each descriptor names a colon-delimited menu path
// ("File:New") and an optional accelerator key; the menu package compiles the
// list into a hierarchical menu.
package command

import (
	"strings"
	"unicode"
)

// Separator delimits the segments of a command path.
const Separator = ":"

// Key is an accelerator keycode. Accelerators are always combined with the
// platform's primary modifier, so only the key itself is recorded.
type Key rune

// NoKey marks a command without an accelerator.
const NoKey Key = 0

// String renders the key the way menus display it.
func (k Key) String() string {
	if k == NoKey {
		return ""
	}
	return string(unicode.ToUpper(rune(k)))
}

// Info describes one invocable command. Values are immutable once built.
type Info struct {
	Path string
	Key  Key
}

// New builds a descriptor without an accelerator.
func New(path string) Info {
	return Info{Path: path}
}

// WithKey builds a descriptor bound to key.
func WithKey(path string, key Key) Info {
	return Info{Path: path, Key: key}
}

// Segments splits the path on Separator. Empty paths yield a single empty
// segment, matching how the menu compiler walks them.
func (i Info) Segments() []string {
	return strings.Split(i.Path, Separator)
}

// Name returns the final path segment.
func (i Info) Name() string {
	idx := strings.LastIndex(i.Path, Separator)
	if idx < 0 {
		return i.Path
	}
	return i.Path[idx+1:]
}

// Equal reports whether two command lists are identical in order and content.
func Equal(a, b []Info) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
