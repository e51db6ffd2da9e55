package view

import (
	"github.com/atomicstack/declui/internal/event"
	"github.com/atomicstack/declui/internal/state"
)

// Context is the application context handed to views and work items.
type Context struct {
	Modifiers event.Modifiers
	State     state.Store
	// Err is the outcome of the most recent routed command.
	Err error

	dirty   bool
	quit    bool
	drawnAt uint64
}

// NewContext returns a context backed by store, or a fresh store when nil.
// A new context starts dirty so the first tick produces a frame.
func NewContext(store state.Store) *Context {
	if store == nil {
		store = state.NewStore()
	}
	return &Context{State: store, dirty: true}
}

// Invalidate requests a redraw after the current tick.
func (cx *Context) Invalidate() {
	cx.dirty = true
}

// Dirty reports whether a redraw is needed: explicitly invalidated, or
// state changed since the last frame.
func (cx *Context) Dirty() bool {
	return cx.dirty || cx.State.Version() != cx.drawnAt
}

// Quit asks the loop to terminate after the current event.
func (cx *Context) Quit() {
	cx.quit = true
}

// QuitRequested reports whether Quit was called.
func (cx *Context) QuitRequested() bool {
	return cx.quit
}

func (cx *Context) markClean() {
	cx.dirty = false
	cx.drawnAt = cx.State.Version()
}
