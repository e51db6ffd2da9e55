// Package loop runs the event loop: it translates raw platform events,
// dispatches logical events to the view tree, drains cross-thread work,
// and sequences update and render passes.
package loop

import (
	"context"
	"fmt"

	"github.com/atomicstack/declui/internal/command"
	"github.com/atomicstack/declui/internal/event"
	"github.com/atomicstack/declui/internal/input"
	"github.com/atomicstack/declui/internal/logging"
	"github.com/atomicstack/declui/internal/logging/events"
	"github.com/atomicstack/declui/internal/menu"
	"github.com/atomicstack/declui/internal/platform"
	"github.com/atomicstack/declui/internal/render"
	"github.com/atomicstack/declui/internal/view"
	"github.com/atomicstack/declui/internal/workqueue"
)

// State is the driver's position in an iteration.
type State int

const (
	Idle State = iota
	Dispatching
	Updating
	Rendering
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dispatching:
		return "dispatching"
	case Updating:
		return "updating"
	case Rendering:
		return "rendering"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Options wire a driver to its collaborators.
type Options struct {
	Title   string
	AppName string
	Root    view.View
	// Context defaults to a fresh context when nil.
	Context *view.Context
	Window  platform.Window
	Surface render.Surface
	Config  render.SurfaceConfig
	// Queue defaults to a queue with an unbound proxy when nil.
	Queue *workqueue.Queue[*view.Context]
}

// Driver owns everything the loop thread touches. None of its methods may
// be called from another goroutine; producers go through Handle.
type Driver struct {
	state   State
	title   string
	appName string

	root       view.View
	cx         *view.Context
	window     platform.Window
	surface    render.Surface
	config     render.SurfaceConfig
	env        input.Env
	translator *input.Translator
	queue      *workqueue.Queue[*view.Context]

	commands []command.Info
	cmap     menu.CommandMap
	access   []view.AccessNode
	canvas   render.Canvas
	viewport event.WindowResize

	redraw  bool
	started bool
}

// New builds a driver in the Idle state. Start must run before events.
func New(opts Options) *Driver {
	cx := opts.Context
	if cx == nil {
		cx = view.NewContext(nil)
	}
	queue := opts.Queue
	if queue == nil {
		queue = workqueue.New[*view.Context](nil)
	}
	d := &Driver{
		title:      opts.Title,
		appName:    opts.AppName,
		root:       opts.Root,
		cx:         cx,
		window:     opts.Window,
		surface:    opts.Surface,
		config:     opts.Config.Clamped(),
		translator: input.New(menu.CommandMap{}),
		queue:      queue,
	}
	d.env = input.Env{Modifiers: &cx.Modifiers, Config: &d.config, Scale: 1}
	return d
}

// Start attaches the menu, titles the window and configures the surface
// from the window's current metrics.
func (d *Driver) Start(ctx context.Context) error {
	if d.started {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.window == nil {
		return fmt.Errorf("loop: no window")
	}
	d.started = true

	d.window.SetTitle(d.title)
	if scale := d.window.ScaleFactor(); scale > 0 {
		d.env.Scale = scale
	}
	size := d.window.InnerSize()
	d.config.Resize(size.Width, size.Height)
	if err := d.configure(); err != nil {
		return err
	}

	d.cmap = d.rebuildMenu(d.commands)
	d.requestRedraw()
	return nil
}

// Context returns the context handed to views and work items.
func (d *Driver) Context() *view.Context { return d.cx }

// Handle returns a producer handle safe to use from any goroutine.
func (d *Driver) Handle() workqueue.Handle[*view.Context] { return d.queue.Handle() }

// Proxy returns the queue's wake proxy for the platform to bind.
func (d *Driver) Proxy() *workqueue.Proxy { return d.queue.Proxy() }

func (d *Driver) State() State                  { return d.state }
func (d *Driver) Config() render.SurfaceConfig  { return d.config }
func (d *Driver) Scale() float64                { return d.env.Scale }
func (d *Driver) CommandMap() menu.CommandMap   { return d.cmap }
func (d *Driver) Access() []view.AccessNode     { return d.access }
func (d *Driver) Translator() *input.Translator { return d.translator }
func (d *Driver) Commands() []command.Info {
	return append([]command.Info(nil), d.commands...)
}

// Step handles one raw event and reports whether the loop is still alive.
func (d *Driver) Step(raw platform.Event) bool {
	if d.state == Terminated {
		return false
	}
	switch raw.(type) {
	case platform.Wake:
		d.queue.Drain(d.cx)
		d.checkQuit()
	case platform.MainEventsCleared:
		d.update()
	case platform.RedrawRequested:
		d.render()
	default:
		d.dispatch(raw)
	}
	return d.state != Terminated
}

// Tick ends an iteration: it runs the update pass and, if a frame was
// requested since the last one, the render pass.
func (d *Driver) Tick() bool {
	if !d.Step(platform.MainEventsCleared{}) {
		return false
	}
	if d.redraw {
		return d.Step(platform.RedrawRequested{})
	}
	return true
}

// Pump steps each event in order and then ticks. Platforms owning the main
// thread call it once per batch of native events.
func (d *Driver) Pump(evs ...platform.Event) bool {
	for _, ev := range evs {
		if !d.Step(ev) {
			return false
		}
	}
	return d.Tick()
}

// Run drives the loop from src until the driver terminates, src closes or
// ctx is cancelled. Cancellation is observed between iterations.
func (d *Driver) Run(ctx context.Context, src platform.Source) error {
	if err := d.Start(ctx); err != nil {
		return err
	}
	// The first frame does not wait for an event.
	if !d.Tick() {
		return nil
	}
	for {
		if err := ctx.Err(); err != nil {
			d.terminate("context cancelled")
			return err
		}
		select {
		case <-ctx.Done():
			d.terminate("context cancelled")
			return ctx.Err()
		case <-src.Wakes():
			if !d.Step(platform.Wake{}) {
				return nil
			}
		case ev, ok := <-src.Events():
			if !ok {
				d.terminate("source closed")
				return nil
			}
			if !d.Step(ev) || !d.stepPending(src) {
				return nil
			}
		}
		if !d.Tick() {
			return nil
		}
	}
}

// stepPending handles raw events already buffered so that one tick covers
// the whole batch.
func (d *Driver) stepPending(src platform.Source) bool {
	for {
		select {
		case ev, ok := <-src.Events():
			if !ok {
				d.terminate("source closed")
				return false
			}
			if !d.Step(ev) {
				return false
			}
		default:
			return true
		}
	}
}

func (d *Driver) dispatch(raw platform.Event) {
	d.transition(Dispatching)
	ev, effect := d.translator.Translate(raw, &d.env)
	if effect.Has(input.EffectClose) {
		d.terminate("close requested")
		return
	}
	if effect.Has(input.EffectReconfigure) {
		if err := d.configure(); err != nil {
			logging.Error(err)
		}
	}
	if effect.Has(input.EffectRedraw) {
		d.requestRedraw()
	}
	if ev != nil {
		view.Process(d.root, ev, d.cx)
	}
	if d.checkQuit() {
		return
	}
	d.transition(Idle)
}

func (d *Driver) update() {
	d.transition(Updating)
	d.sizeCanvas()
	if vp := d.currentViewport(); vp != d.viewport {
		d.viewport = vp
		view.Process(d.root, vp, d.cx)
	}
	if view.Update(d.root, &d.canvas, &d.commands, &d.cmap, &d.access, d.cx, d.rebuildMenu) {
		events.Loop.CommandsChanged(len(d.commands))
	}
	if d.checkQuit() {
		return
	}
	if d.cx.Dirty() {
		d.requestRedraw()
	}
	d.transition(Idle)
}

func (d *Driver) render() {
	d.transition(Rendering)
	d.redraw = false
	if d.surface == nil {
		d.transition(Idle)
		return
	}
	frame, err := d.surface.NextFrame()
	if err != nil {
		// Lost or outdated surfaces recover by reconfiguring; the next
		// redraw acquires a fresh frame.
		events.Surface.Frame(err)
		if cerr := d.configure(); cerr != nil {
			logging.Error(cerr)
		}
		d.transition(Idle)
		return
	}
	d.sizeCanvas()
	view.Render(d.root, &d.canvas, d.cx)
	if err := frame.Present(&d.canvas); err != nil {
		events.Surface.Frame(err)
		logging.Error(fmt.Errorf("present frame: %w", err))
	}
	d.transition(Idle)
}

func (d *Driver) rebuildMenu(cmds []command.Info) menu.CommandMap {
	root := d.window.NewMenu()
	cmap := menu.Build(cmds, root, d.appName)
	d.window.SetMenu(root)
	d.translator.SetCommandMap(cmap)
	return cmap
}

func (d *Driver) configure() error {
	if d.surface == nil {
		return nil
	}
	d.config = d.config.Clamped()
	if err := d.surface.Configure(d.config); err != nil {
		return fmt.Errorf("configure surface %dx%d: %w", d.config.Width, d.config.Height, err)
	}
	events.Surface.Configure(d.config.Width, d.config.Height)
	return nil
}

func (d *Driver) sizeCanvas() {
	s := d.env.Scale
	if s <= 0 {
		s = 1
	}
	d.canvas.Width = float64(d.config.Width) / s
	d.canvas.Height = float64(d.config.Height) / s
	d.canvas.Scale = s
}

func (d *Driver) currentViewport() event.WindowResize {
	return event.WindowResize{Width: d.canvas.Width, Height: d.canvas.Height}
}

func (d *Driver) requestRedraw() {
	d.redraw = true
	if d.window != nil {
		d.window.RequestRedraw()
	}
}

func (d *Driver) checkQuit() bool {
	if d.cx.QuitRequested() {
		d.terminate("quit requested")
		return true
	}
	return false
}

func (d *Driver) terminate(reason string) {
	if d.state == Terminated {
		return
	}
	d.transition(Terminated)
	events.Loop.Terminate(reason)
}

func (d *Driver) transition(to State) {
	if d.state == to {
		return
	}
	if logging.TraceEnabled() {
		events.Loop.Transition(d.state.String(), to.String())
	}
	d.state = to
}
