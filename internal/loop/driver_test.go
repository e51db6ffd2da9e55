package loop

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/declui/internal/command"
	"github.com/atomicstack/declui/internal/event"
	"github.com/atomicstack/declui/internal/platform"
	"github.com/atomicstack/declui/internal/platform/headless"
	"github.com/atomicstack/declui/internal/render"
	"github.com/atomicstack/declui/internal/view"
)

type counter struct {
	cmds    []command.Info
	events  []event.Event
	layouts int
}

func (c *counter) Layout(width, height float64, cx *view.Context) { c.layouts++ }

func (c *counter) Draw(canvas *render.Canvas, cx *view.Context) {
	canvas.Text(0, 0, fmt.Sprintf("count=%d", cx.State.Int("count")), render.Style{})
}

func (c *counter) Process(ev event.Event, cx *view.Context) {
	c.events = append(c.events, ev)
	if cmd, ok := ev.(event.Command); ok && cmd.Path == "Edit:Increment" {
		cx.State.Set("count", cx.State.Int("count")+1)
	}
}

func (c *counter) Commands() []command.Info { return c.cmds }

func (c *counter) last() event.Event {
	if len(c.events) == 0 {
		return nil
	}
	return c.events[len(c.events)-1]
}

func newDriver(t *testing.T, root view.View) (*Driver, *headless.Window, *headless.Surface) {
	t.Helper()
	win := headless.NewWindow(800, 600, 2)
	surf := headless.NewSurface()
	d := New(Options{Title: "Demo", AppName: "Demo", Root: root, Window: win, Surface: surf})
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	return d, win, surf
}

func lastText(t *testing.T, surf *headless.Surface) string {
	t.Helper()
	frames := surf.Frames()
	if len(frames) == 0 {
		t.Fatalf("expected at least one presented frame")
	}
	ops := frames[len(frames)-1].Ops
	if len(ops) == 0 {
		return ""
	}
	return ops[0].Text
}

func TestStartAttachesAppMenuAndConfiguresSurface(t *testing.T) {
	d, win, surf := newDriver(t, &counter{})

	if win.Title() != "Demo" {
		t.Fatalf("expected title Demo, got %q", win.Title())
	}
	if got := win.Menu().Outline(); !strings.HasPrefix(got, "Demo/\n") {
		t.Fatalf("expected application submenu first, got:\n%s", got)
	}
	if d.CommandMap().Len() != 0 {
		t.Fatalf("expected empty command map before the first update")
	}
	configs := surf.Configs()
	if len(configs) != 1 || configs[0].Width != 800 || configs[0].Height != 600 {
		t.Fatalf("expected surface configured at 800x600, got %#v", configs)
	}
	if d.State() != Idle {
		t.Fatalf("expected idle after start, got %s", d.State())
	}
	if win.Redraws() == 0 {
		t.Fatalf("expected start to request the first frame")
	}
}

func TestStartRequiresWindow(t *testing.T) {
	d := New(Options{Root: &counter{}})
	if err := d.Start(context.Background()); err == nil {
		t.Fatalf("expected start without a window to fail")
	}
}

func TestTickRebuildsMenuWhenCommandsChange(t *testing.T) {
	root := &counter{cmds: []command.Info{
		command.New("File:New"),
		command.WithKey("Edit:Increment", '='),
	}}
	d, win, surf := newDriver(t, root)

	if !d.Tick() {
		t.Fatalf("tick terminated the loop")
	}
	if win.MenuBuilds() != 2 {
		t.Fatalf("expected menu rebuilt once after start, got %d builds", win.MenuBuilds())
	}
	if d.CommandMap().Len() != 2 {
		t.Fatalf("expected two commands mapped, got %d", d.CommandMap().Len())
	}
	if got := lastText(t, surf); got != "count=0" {
		t.Fatalf("expected first frame count=0, got %q", got)
	}

	id, ok := win.Menu().Resolve("Edit", "Increment")
	if !ok {
		t.Fatalf("expected Edit/Increment in the window menu")
	}
	if !d.Pump(platform.MenuActivated{ID: id}) {
		t.Fatalf("menu activation terminated the loop")
	}
	if got, want := root.last(), (event.Command{Path: "Edit:Increment"}); got != want {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
	if got := lastText(t, surf); got != "count=1" {
		t.Fatalf("expected state change to be rendered, got %q", got)
	}
	if win.MenuBuilds() != 2 {
		t.Fatalf("unchanged commands must not rebuild the menu")
	}

	root.cmds = append(root.cmds, command.New("View:Zoom:In"))
	d.Tick()
	if win.MenuBuilds() != 3 {
		t.Fatalf("expected a rebuild after commands changed, got %d builds", win.MenuBuilds())
	}
	if _, ok := win.Menu().Resolve("View", "Zoom", "In"); !ok {
		t.Fatalf("expected the rebuilt menu to carry View/Zoom/In")
	}
}

func TestIdleTickDoesNotRender(t *testing.T) {
	d, _, surf := newDriver(t, &counter{})
	d.Tick()
	n := len(surf.Frames())
	d.Tick()
	if got := len(surf.Frames()); got != n {
		t.Fatalf("expected a clean tick to skip rendering, frames %d -> %d", n, got)
	}
}

func TestCursorIsFlippedIntoLogicalUnits(t *testing.T) {
	root := &counter{}
	d, _, _ := newDriver(t, root)

	d.Step(platform.CursorMoved{X: 100, Y: 100})
	want := event.Point{X: 50, Y: 250}
	if got := root.last(); got != (event.PointerMove{ID: 0, Position: want}) {
		t.Fatalf("expected pointer move at %v, got %#v", want, got)
	}
	d.Step(platform.MouseInput{State: platform.Pressed, Button: platform.ButtonLeft})
	d.Step(platform.MouseInput{State: platform.Released, Button: platform.ButtonLeft})
	n := len(root.events)
	down, up := root.events[n-2], root.events[n-1]
	if down != (event.PointerDown{ID: 0, Position: want}) || up != (event.PointerUp{ID: 0, Position: want}) {
		t.Fatalf("expected press/release at the cursor, got %#v %#v", down, up)
	}
}

func TestModifiersReachKeyPresses(t *testing.T) {
	root := &counter{}
	d, _, _ := newDriver(t, root)

	d.Step(platform.ModifiersChanged{Control: true})
	if !d.Context().Modifiers.Control {
		t.Fatalf("expected context modifiers to be overwritten")
	}
	d.Step(platform.KeyboardInput{State: platform.Pressed, Key: platform.KeyCharacter, Rune: 'a'})
	got, ok := root.last().(event.KeyPress)
	if !ok || got.Key != event.Char('a') || !got.Modifiers.Control {
		t.Fatalf("expected ctrl+a key press, got %#v", root.last())
	}
}

func TestResizeClampsAndReconfigures(t *testing.T) {
	root := &counter{}
	d, win, surf := newDriver(t, root)
	d.Tick()

	if !d.Pump(win.Resize(0, 0)) {
		t.Fatalf("resize terminated the loop")
	}
	if cfg := d.Config(); cfg.Width != 1 || cfg.Height != 1 {
		t.Fatalf("expected clamped 1x1 config, got %dx%d", cfg.Width, cfg.Height)
	}
	configs := surf.Configs()
	if last := configs[len(configs)-1]; last.Width != 1 || last.Height != 1 {
		t.Fatalf("expected surface reconfigured at 1x1, got %#v", last)
	}
	frames := surf.Frames()
	if last := frames[len(frames)-1]; last.Width != 0.5 || last.Height != 0.5 {
		t.Fatalf("expected a frame at the new logical size, got %vx%v", last.Width, last.Height)
	}
	if got, ok := root.last().(event.WindowResize); !ok || got.Width != 0.5 {
		t.Fatalf("expected the view to see the new viewport, got %#v", root.last())
	}
}

func TestScaleFactorChangeUpdatesScale(t *testing.T) {
	d, _, _ := newDriver(t, &counter{})
	d.Pump(platform.ScaleFactorChanged{Scale: 1, Width: 400, Height: 300})
	if d.Scale() != 1 {
		t.Fatalf("expected scale 1, got %v", d.Scale())
	}
	if cfg := d.Config(); cfg.Width != 400 || cfg.Height != 300 {
		t.Fatalf("expected 400x300, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestCloseTerminatesWithoutDraining(t *testing.T) {
	d, _, _ := newDriver(t, &counter{})
	ran := false
	d.Handle().Enqueue(func(cx *view.Context) { ran = true })

	if d.Step(platform.CloseRequested{}) {
		t.Fatalf("expected close to terminate")
	}
	if d.State() != Terminated {
		t.Fatalf("expected terminated, got %s", d.State())
	}
	if d.Step(platform.Wake{}) || d.Tick() {
		t.Fatalf("a terminated driver must stay terminated")
	}
	if ran {
		t.Fatalf("work must not run after close")
	}
}

func TestQuitMenuItemTerminates(t *testing.T) {
	d, win, _ := newDriver(t, &counter{})
	id, ok := win.Menu().Resolve("Demo", "Quit")
	if !ok {
		t.Fatalf("expected Demo/Quit in the menu")
	}
	if d.Step(platform.MenuActivated{ID: id}) {
		t.Fatalf("expected quit to terminate")
	}
}

func TestUnknownMenuIDIsDropped(t *testing.T) {
	root := &counter{}
	d, _, _ := newDriver(t, root)
	if !d.Step(platform.MenuActivated{ID: 999}) {
		t.Fatalf("unknown id terminated the loop")
	}
	if len(root.events) != 0 {
		t.Fatalf("expected no event for an unknown id, got %#v", root.events)
	}
}

func TestWorkItemsRunInOrderAndMayQuit(t *testing.T) {
	d, _, _ := newDriver(t, &counter{})
	var order []int
	h := d.Handle()
	h.Enqueue(func(cx *view.Context) { order = append(order, 1) })
	h.Enqueue(func(cx *view.Context) {
		order = append(order, 2)
		h.Enqueue(func(cx *view.Context) { cx.Quit() })
	})

	if !d.Step(platform.Wake{}) {
		t.Fatalf("first drain must not quit")
	}
	if fmt.Sprint(order) != "[1 2]" {
		t.Fatalf("expected FIFO order, got %v", order)
	}
	if d.Step(platform.Wake{}) {
		t.Fatalf("expected the nested quit item to terminate on the next drain")
	}
}

func TestFrameErrorReconfiguresSurface(t *testing.T) {
	d, _, surf := newDriver(t, &counter{})
	before := len(surf.Configs())
	surf.FailNextFrame(errors.New("surface lost"))

	if !d.Step(platform.RedrawRequested{}) {
		t.Fatalf("a lost frame must not terminate the loop")
	}
	if got := len(surf.Configs()); got != before+1 {
		t.Fatalf("expected a reconfigure after a lost frame, configs %d -> %d", before, got)
	}
	if len(surf.Frames()) != 0 {
		t.Fatalf("expected no frame presented")
	}
	d.Step(platform.RedrawRequested{})
	if len(surf.Frames()) != 1 {
		t.Fatalf("expected the next redraw to present")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRunAppliesBackgroundWork(t *testing.T) {
	win := headless.NewWindow(200, 100, 1)
	surf := headless.NewSurface()
	d := New(Options{Title: "Demo", AppName: "Demo", Root: &counter{}, Window: win, Surface: surf})
	src := headless.NewSource(4)
	d.Proxy().Set(src)
	h := d.Handle()

	done := make(chan error, 1)
	go func() { done <- d.Run(context.Background(), src) }()

	go h.Enqueue(func(cx *view.Context) { cx.State.Set("count", 5) })
	waitFor(t, func() bool {
		frames := surf.Frames()
		return len(frames) > 0 && frames[len(frames)-1].Ops[0].Text == "count=5"
	})

	src.Send(platform.CloseRequested{})
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean exit, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not stop after close")
	}
}

func TestRunStopsOnCancelAndClosedSource(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := New(Options{Root: &counter{}, Window: headless.NewWindow(10, 10, 1)})
	src := headless.NewSource(1)
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx, src) }()
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run ignored cancellation")
	}

	d = New(Options{Root: &counter{}, Window: headless.NewWindow(10, 10, 1)})
	src = headless.NewSource(1)
	src.Close()
	if err := d.Run(context.Background(), src); err != nil {
		t.Fatalf("expected nil on closed source, got %v", err)
	}
	if d.State() != Terminated {
		t.Fatalf("expected terminated after the source closed")
	}
}

func TestStateString(t *testing.T) {
	for state, want := range map[State]string{
		Idle:        "idle",
		Dispatching: "dispatching",
		Updating:    "updating",
		Rendering:   "rendering",
		Terminated:  "terminated",
		State(42):   "state(42)",
	} {
		if got := state.String(); got != want {
			t.Fatalf("%d: expected %q, got %q", int(state), want, got)
		}
	}
}
