package view

import (
	"github.com/atomicstack/declui/internal/command"
	"github.com/atomicstack/declui/internal/event"
	"github.com/atomicstack/declui/internal/logging/events"
)

// Handler runs a command against the application context.
type Handler func(cx *Context) error

// Router wraps a view and executes Command events through registered
// handlers. Unhandled commands and all other events reach the wrapped view.
type Router struct {
	View
	handlers map[string]Handler
}

// Route wraps v.
func Route(v View) *Router {
	return &Router{View: v, handlers: make(map[string]Handler)}
}

// Handle registers h for path and returns the router for chaining.
func (r *Router) Handle(path string, h Handler) *Router {
	r.handlers[path] = h
	return r
}

// Process implements View.
func (r *Router) Process(ev event.Event, cx *Context) {
	cmd, ok := ev.(event.Command)
	if !ok {
		r.View.Process(ev, cx)
		return
	}
	events.Command.Queue(cmd.Path)
	h := r.handlers[cmd.Path]
	if h == nil {
		events.Command.Skip(cmd.Path)
		r.View.Process(ev, cx)
		return
	}
	err := h(cx)
	cx.Err = err
	events.Command.Result(cmd.Path, err)
	cx.Invalidate()
}

// Commands forwards the wrapped view's commands.
func (r *Router) Commands() []command.Info {
	if c, ok := r.View.(Commander); ok {
		return c.Commands()
	}
	return nil
}

// Access forwards the wrapped view's accessibility nodes.
func (r *Router) Access() []AccessNode {
	if a, ok := r.View.(Accessible); ok {
		return a.Access()
	}
	return nil
}
