package menu

import (
	"strings"
)

// Native is an in-memory menu: the structure a platform menu would hold.
// The terminal platform renders it; tests inspect it.
type Native struct {
	Title   string
	Entries []*Entry

	ids *IDs
}

// Entry is one row of a Native menu: either an item or a submenu.
type Entry struct {
	Title   string
	ID      ItemID
	Accel   Accelerator
	Submenu *Native
}

// NewNative returns an empty root menu.
func NewNative() *Native {
	return &Native{ids: &IDs{}}
}

// Submenu implements Builder.
func (n *Native) Submenu(name string) Builder {
	sub := &Native{Title: name, ids: n.ids}
	n.Entries = append(n.Entries, &Entry{Title: name, Submenu: sub})
	return sub
}

// Item implements Builder.
func (n *Native) Item(name string, accel Accelerator) ItemID {
	id := n.ids.Next()
	n.Entries = append(n.Entries, &Entry{Title: name, ID: id, Accel: accel})
	return id
}

// Items counts the invocable items below n, recursively.
func (n *Native) Items() int {
	total := 0
	for _, e := range n.Entries {
		if e.Submenu != nil {
			total += e.Submenu.Items()
			continue
		}
		total++
	}
	return total
}

// Find returns the submenu titled title.
func (n *Native) Find(title string) (*Native, bool) {
	for _, e := range n.Entries {
		if e.Submenu != nil && e.Title == title {
			return e.Submenu, true
		}
	}
	return nil, false
}

// Resolve walks titles through nested submenus and returns the id of the
// item named by the last title.
func (n *Native) Resolve(titles ...string) (ItemID, bool) {
	if n == nil {
		return 0, false
	}
	cur := n
	for i, title := range titles {
		var next *Entry
		for _, e := range cur.Entries {
			if e.Title == title {
				next = e
				break
			}
		}
		if next == nil {
			return 0, false
		}
		if i == len(titles)-1 {
			return next.ID, next.Submenu == nil
		}
		if next.Submenu == nil {
			return 0, false
		}
		cur = next.Submenu
	}
	return 0, false
}

// Outline renders the menu as an indented listing, one entry per line.
func (n *Native) Outline() string {
	var b strings.Builder
	n.outline(&b, 0)
	return b.String()
}

func (n *Native) outline(b *strings.Builder, depth int) {
	for _, e := range n.Entries {
		b.WriteString(strings.Repeat("  ", depth))
		if e.Submenu != nil {
			b.WriteString(e.Title)
			b.WriteString("/\n")
			e.Submenu.outline(b, depth+1)
			continue
		}
		b.WriteString(e.Title)
		if !e.Accel.IsZero() {
			b.WriteString("\t")
			b.WriteString(e.Accel.String())
		}
		b.WriteString("\n")
	}
}
