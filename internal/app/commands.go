package app

import (
	"errors"

	"github.com/atomicstack/declui/internal/command"
	"github.com/atomicstack/declui/internal/view"
)

const (
	CmdNew       = "File:New"
	CmdIncrement = "Edit:Increment"
	CmdDecrement = "Edit:Decrement"
	CmdReset     = "Edit:Reset"
	CmdZoomIn    = "View:Zoom:In"
	CmdZoomOut   = "View:Zoom:Out"
	CmdZoomReset = "View:Zoom:Reset"
	CmdPalette   = "Help:Command Palette"
)

var errZoomLimit = errors.New("zoom limit reached")

// DefaultCommands is the demo's built-in command set, in menu order.
func DefaultCommands() []command.Info {
	return []command.Info{
		command.WithKey(CmdNew, 'n'),
		command.WithKey(CmdIncrement, '='),
		command.WithKey(CmdDecrement, '-'),
		command.New(CmdReset),
		command.WithKey(CmdZoomIn, 'i'),
		command.WithKey(CmdZoomOut, 'o'),
		command.WithKey(CmdPalette, 'p'),
	}
}

// Route wraps demo with the handlers for the built-in commands. Commands
// without a handler, such as ones loaded from a file, fall through to the
// demo's status line.
func Route(demo *Demo) *view.Router {
	r := view.Route(demo)
	demo.dispatch = r.Process
	return r.
		Handle(CmdNew, func(cx *view.Context) error {
			for _, key := range []string{keyCount, keyLastKey, keyStatus} {
				cx.State.Del(key)
			}
			return nil
		}).
		Handle(CmdIncrement, addCount(1)).
		Handle(CmdDecrement, addCount(-1)).
		Handle(CmdReset, func(cx *view.Context) error {
			cx.State.Set(keyCount, 0)
			return nil
		}).
		Handle(CmdZoomIn, addZoom(1)).
		Handle(CmdZoomOut, addZoom(-1)).
		Handle(CmdZoomReset, func(cx *view.Context) error {
			cx.State.Del(keyZoom)
			return nil
		}).
		Handle(CmdPalette, func(cx *view.Context) error {
			demo.OpenPalette(cx)
			return nil
		})
}

func addCount(delta int) view.Handler {
	return func(cx *view.Context) error {
		cx.State.Set(keyCount, cx.State.Int(keyCount)+delta)
		return nil
	}
}

func addZoom(delta int) view.Handler {
	return func(cx *view.Context) error {
		next := zoom(cx) + delta
		if next < 1 || next > maxZoom {
			return errZoomLimit
		}
		cx.State.Set(keyZoom, next)
		return nil
	}
}
