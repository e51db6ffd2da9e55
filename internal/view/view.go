// Package view defines the protocol between the event loop and the
// application's view tree.
//
// The loop calls three things and nothing else:
//   - Process, synchronously, for every logical event.
//   - Update, once all pending platform events are handled. Update lays the
//     tree out, refreshes the command list (rebuilding the menu when it
//     changed) and refreshes the accessibility nodes.
//   - Render, when a frame is due, with the canvas sized to the current
//     surface configuration.
//
// Views never run concurrently with each other or with work items.
package view

import (
	"github.com/atomicstack/declui/internal/command"
	"github.com/atomicstack/declui/internal/event"
	"github.com/atomicstack/declui/internal/menu"
	"github.com/atomicstack/declui/internal/render"
)

// View is a node of the view tree.
type View interface {
	Layout(width, height float64, cx *Context)
	Draw(c *render.Canvas, cx *Context)
	Process(ev event.Event, cx *Context)
}

// Commander is implemented by views that contribute menu commands.
type Commander interface {
	Commands() []command.Info
}

// Accessible is implemented by views that expose accessibility nodes.
type Accessible interface {
	Access() []AccessNode
}

// AccessNode describes one element to assistive technology.
type AccessNode struct {
	ID     string
	Role   string
	Label  string
	Bounds render.Rect
}

// Rebuilder compiles a command list into the window menu and returns the
// new identity table.
type Rebuilder func(cmds []command.Info) menu.CommandMap

// Process dispatches one logical event to the tree.
func Process(root View, ev event.Event, cx *Context) {
	if root == nil || ev == nil {
		return
	}
	root.Process(ev, cx)
}

// Update lays out root within the canvas viewport and refreshes commands
// and accessibility nodes. When the command list differs from *cmds it is
// replaced, *cmap is rebuilt through rebuild, and Update returns true.
func Update(root View, c *render.Canvas, cmds *[]command.Info, cmap *menu.CommandMap, access *[]AccessNode, cx *Context, rebuild Rebuilder) bool {
	if root == nil {
		return false
	}
	root.Layout(c.Width, c.Height, cx)

	changed := false
	if commander, ok := root.(Commander); ok {
		next := commander.Commands()
		if !command.Equal(*cmds, next) {
			*cmds = append((*cmds)[:0:0], next...)
			if rebuild != nil {
				*cmap = rebuild(*cmds)
			}
			changed = true
		}
	}
	if acc, ok := root.(Accessible); ok {
		*access = acc.Access()
	}
	return changed
}

// Render draws root into c and marks the context clean.
func Render(root View, c *render.Canvas, cx *Context) {
	c.Reset(c.Width, c.Height, c.Scale)
	if root != nil {
		root.Draw(c, cx)
	}
	cx.markClean()
}
