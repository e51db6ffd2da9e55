package view

import (
	"errors"
	"testing"

	"github.com/atomicstack/declui/internal/command"
	"github.com/atomicstack/declui/internal/event"
	"github.com/atomicstack/declui/internal/menu"
	"github.com/atomicstack/declui/internal/render"
)

type recorder struct {
	layouts  int
	draws    int
	events   []event.Event
	commands []command.Info
	access   []AccessNode
	width    float64
}

func (r *recorder) Layout(width, height float64, cx *Context) {
	r.layouts++
	r.width = width
}

func (r *recorder) Draw(c *render.Canvas, cx *Context) {
	r.draws++
	c.Text(0, 0, "frame", render.Style{})
}

func (r *recorder) Process(ev event.Event, cx *Context) {
	r.events = append(r.events, ev)
}

func (r *recorder) Commands() []command.Info { return r.commands }
func (r *recorder) Access() []AccessNode     { return r.access }

func TestUpdateRebuildsOnlyWhenCommandsChange(t *testing.T) {
	root := &recorder{commands: []command.Info{command.New("File:New")}}
	canvas := &render.Canvas{Width: 40, Height: 10, Scale: 1}
	cx := NewContext(nil)
	var cmds []command.Info
	var cmap menu.CommandMap
	var access []AccessNode
	rebuilds := 0
	rebuild := func(c []command.Info) menu.CommandMap {
		rebuilds++
		return menu.Build(c, menu.NewNative(), "App")
	}

	if !Update(root, canvas, &cmds, &cmap, &access, cx, rebuild) {
		t.Fatalf("first update should report changed commands")
	}
	if cmap.Len() != 1 || len(cmds) != 1 {
		t.Fatalf("expected compiled command map, got %d entries", cmap.Len())
	}
	if Update(root, canvas, &cmds, &cmap, &access, cx, rebuild) {
		t.Fatalf("unchanged commands should not report change")
	}
	root.commands = append(root.commands, command.New("File:Open"))
	if !Update(root, canvas, &cmds, &cmap, &access, cx, rebuild) {
		t.Fatalf("added command should report change")
	}
	if rebuilds != 2 || cmap.Len() != 2 {
		t.Fatalf("expected 2 rebuilds and 2 entries, got %d and %d", rebuilds, cmap.Len())
	}
	if root.layouts != 3 || root.width != 40 {
		t.Fatalf("expected layout each update at canvas width, got %d at %v", root.layouts, root.width)
	}
}

func TestUpdateRefreshesAccessNodes(t *testing.T) {
	root := &recorder{access: []AccessNode{{ID: "count", Role: "label", Label: "0"}}}
	var cmds []command.Info
	var cmap menu.CommandMap
	var access []AccessNode
	Update(root, &render.Canvas{}, &cmds, &cmap, &access, NewContext(nil), nil)
	if len(access) != 1 || access[0].ID != "count" {
		t.Fatalf("expected access nodes copied, got %#v", access)
	}
}

func TestRenderMarksClean(t *testing.T) {
	root := &recorder{}
	cx := NewContext(nil)
	if !cx.Dirty() {
		t.Fatalf("new context should start dirty")
	}
	canvas := &render.Canvas{Width: 10, Height: 5, Scale: 1}
	canvas.Text(0, 0, "stale", render.Style{})
	Render(root, canvas, cx)
	if cx.Dirty() {
		t.Fatalf("render should clear dirty state")
	}
	if ops := canvas.Ops(); len(ops) != 1 || ops[0].Text != "frame" {
		t.Fatalf("expected only the fresh frame ops, got %#v", ops)
	}
	cx.State.Set("count", 1)
	if !cx.Dirty() {
		t.Fatalf("state mutation should dirty the context")
	}
}

func TestRouterRunsHandlers(t *testing.T) {
	inner := &recorder{}
	calls := 0
	r := Route(inner).
		Handle("Edit:Increment", func(cx *Context) error {
			calls++
			cx.State.Set("count", cx.State.Int("count")+1)
			return nil
		}).
		Handle("Edit:Fail", func(*Context) error { return errors.New("nope") })

	cx := NewContext(nil)
	r.Process(event.Command{Path: "Edit:Increment"}, cx)
	r.Process(event.Command{Path: "Edit:Unknown"}, cx)
	r.Process(event.PointerMove{}, cx)

	if calls != 1 || cx.State.Int("count") != 1 {
		t.Fatalf("expected one increment, got calls=%d count=%d", calls, cx.State.Int("count"))
	}
	if cx.Err != nil {
		t.Fatalf("unknown commands must not touch the last error, got %v", cx.Err)
	}
	r.Process(event.Command{Path: "Edit:Fail"}, cx)
	if cx.Err == nil || cx.Err.Error() != "nope" {
		t.Fatalf("expected handler error recorded, got %v", cx.Err)
	}
	if len(inner.events) != 2 {
		t.Fatalf("expected unknown command and pointer move forwarded, got %#v", inner.events)
	}
	if cmd, ok := inner.events[0].(event.Command); !ok || cmd.Path != "Edit:Unknown" {
		t.Fatalf("expected unhandled command forwarded, got %#v", inner.events[0])
	}
}

func TestRouterForwardsCapabilities(t *testing.T) {
	inner := &recorder{commands: []command.Info{command.New("A")}, access: []AccessNode{{ID: "x"}}}
	r := Route(inner)
	if len(r.Commands()) != 1 || len(r.Access()) != 1 {
		t.Fatalf("router should forward commands and access nodes")
	}
	bare := Route(nopView{})
	if bare.Commands() != nil || bare.Access() != nil {
		t.Fatalf("router over a bare view should report nothing")
	}
}

type nopView struct{}

func (nopView) Layout(float64, float64, *Context) {}
func (nopView) Draw(*render.Canvas, *Context)     {}
func (nopView) Process(event.Event, *Context)     {}

func TestContextQuit(t *testing.T) {
	cx := NewContext(nil)
	if cx.QuitRequested() {
		t.Fatalf("fresh context must not request quit")
	}
	cx.Quit()
	if !cx.QuitRequested() {
		t.Fatalf("expected quit requested")
	}
}
