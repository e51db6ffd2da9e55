package command

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Registry is the ordered command list owned by the application. The menu
// compiler and the event loop borrow snapshots of it.
type Registry struct {
	cmds []Info
}

// NewRegistry constructs a registry seeded with cmds in order.
func NewRegistry(cmds ...Info) *Registry {
	r := &Registry{}
	r.cmds = append(r.cmds, cmds...)
	return r
}

// Add appends a command.
func (r *Registry) Add(path string, key Key) {
	r.cmds = append(r.cmds, Info{Path: path, Key: key})
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	return len(r.cmds)
}

// Commands returns a copy of the list.
func (r *Registry) Commands() []Info {
	return append([]Info(nil), r.cmds...)
}

// Replace swaps the list and reports whether the contents changed.
func (r *Registry) Replace(cmds []Info) bool {
	if Equal(r.cmds, cmds) {
		return false
	}
	r.cmds = append(r.cmds[:0:0], cmds...)
	return true
}

// Find returns the command registered under path.
func (r *Registry) Find(path string) (Info, bool) {
	for _, c := range r.cmds {
		if c.Path == path {
			return c, true
		}
	}
	return Info{}, false
}

// Search returns commands whose paths fuzzily match query, best match first.
// Ties keep registration order. An empty query returns every command.
func (r *Registry) Search(query string) []Info {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return r.Commands()
	}
	paths := make([]string, len(r.cmds))
	for i, c := range r.cmds {
		paths[i] = c.Path
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, paths)
	if len(ranks) == 0 {
		return nil
	}
	// insertion sort keeps equal distances in registration order
	for i := 1; i < len(ranks); i++ {
		for j := i; j > 0 && less(ranks[j], ranks[j-1]); j-- {
			ranks[j], ranks[j-1] = ranks[j-1], ranks[j]
		}
	}
	out := make([]Info, 0, len(ranks))
	for _, rank := range ranks {
		if rank.OriginalIndex < 0 || rank.OriginalIndex >= len(r.cmds) {
			continue
		}
		out = append(out, r.cmds[rank.OriginalIndex])
	}
	return out
}

func less(a, b fuzzy.Rank) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.OriginalIndex < b.OriginalIndex
}
