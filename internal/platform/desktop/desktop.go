// Package desktop runs the toolkit in a native window through Fyne. The
// application menu becomes the window's main menu, accelerators are canvas
// shortcuts on the primary modifier, and frames are drawn as Fyne canvas
// objects.
package desktop

import (
	"context"
	"errors"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	fynedesktop "fyne.io/fyne/v2/driver/desktop"

	"github.com/atomicstack/declui/internal/loop"
	"github.com/atomicstack/declui/internal/menu"
	"github.com/atomicstack/declui/internal/platform"
	"github.com/atomicstack/declui/internal/render"
	"github.com/atomicstack/declui/internal/workqueue"
)

// AdapterName identifies the Fyne backend in logs and traces.
const AdapterName = "fyne"

// Platform owns one Fyne window and routes its callbacks into the driver.
// All callbacks run on the Fyne main goroutine, so the driver is only ever
// touched from there.
type Platform struct {
	app     fyne.App
	fw      fyne.Window
	win     *Window
	surface *Surface
	input   *inputLayer
	keys    *keyboard
	driver  *loop.Driver
	done    bool
	wake    atomic.Bool
}

// New creates the window with an initial size in logical units.
func New(a fyne.App, width, height float32) *Platform {
	p := &Platform{app: a, surface: NewSurface()}
	p.fw = a.NewWindow("")
	p.win = &Window{fw: p.fw, activate: func(id menu.ItemID) {
		p.emit(platform.MenuActivated{ID: id})
	}}
	p.input = newInputLayer(p.emit, p.fw.Canvas().Scale)
	p.keys = &keyboard{emit: p.emit}
	p.fw.SetContent(container.NewStack(p.surface.Layer(), p.input))
	p.fw.Resize(fyne.NewSize(width, height))
	return p
}

func (p *Platform) Window() platform.Window { return p.win }
func (p *Platform) Backend() render.Backend { return &Backend{app: p.app, surface: p.surface} }

// Run shows the window and blocks in the Fyne event loop until the driver
// terminates, the window closes or ctx is cancelled.
func (p *Platform) Run(ctx context.Context, d *loop.Driver) error {
	p.driver = d
	d.Proxy().Set(workqueue.WakerFunc(p.signal))
	if err := d.Start(ctx); err != nil {
		return err
	}

	c := p.fw.Canvas()
	c.SetOnTypedKey(p.keys.typedKey)
	c.SetOnTypedRune(p.keys.typedRune)
	if dc, ok := c.(fynedesktop.Canvas); ok {
		dc.SetOnKeyDown(p.keys.keyDown)
		dc.SetOnKeyUp(p.keys.keyUp)
	}
	p.fw.SetCloseIntercept(func() {
		p.emit(platform.CloseRequested{})
	})

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			fyne.Do(func() { p.emit(platform.CloseRequested{}) })
		case <-stop:
		}
	}()

	p.emit()
	p.fw.ShowAndRun()
	return ctx.Err()
}

// signal wakes the main goroutine. fyne.Do is called from a new goroutine
// because Wake may run on the main goroutine inside a drain.
func (p *Platform) signal() {
	if !p.wake.CompareAndSwap(false, true) {
		return
	}
	go fyne.Do(func() {
		p.wake.Store(false)
		p.emit(platform.Wake{})
	})
}

// emit pumps evs through the driver and closes the window once it stops.
func (p *Platform) emit(evs ...platform.Event) {
	if p.done || p.driver == nil {
		return
	}
	if !p.driver.Pump(evs...) {
		p.done = true
		p.fw.Close()
		p.app.Quit()
	}
}

// Window adapts a Fyne window to platform.Window.
type Window struct {
	fw        fyne.Window
	activate  func(menu.ItemID)
	shortcuts []fyne.Shortcut
	redraws   int
}

func (w *Window) SetTitle(title string) {
	w.fw.SetTitle(title)
}

func (w *Window) NewMenu() menu.Builder {
	return NewMenuBuilder(w.activate)
}

// SetMenu replaces the main menu and its canvas shortcuts.
func (w *Window) SetMenu(root menu.Builder) {
	b, ok := root.(*MenuBuilder)
	if !ok {
		return
	}
	c := w.fw.Canvas()
	for _, sc := range w.shortcuts {
		c.RemoveShortcut(sc)
	}
	w.shortcuts = w.shortcuts[:0]
	for _, sc := range b.root.shortcuts {
		id := sc.id
		c.AddShortcut(sc.key, func(fyne.Shortcut) { w.activate(id) })
		w.shortcuts = append(w.shortcuts, sc.key)
	}
	w.fw.SetMainMenu(b.MainMenu())
}

func (w *Window) ScaleFactor() float64 {
	return float64(w.fw.Canvas().Scale())
}

func (w *Window) InnerSize() platform.Size {
	size := w.fw.Canvas().Size()
	s := w.fw.Canvas().Scale()
	return platform.Size{Width: int(size.Width * s), Height: int(size.Height * s)}
}

// Presenting a frame refreshes the drawing layer, so a request only counts.
func (w *Window) RequestRedraw() {
	w.redraws++
}

// Backend offers Fyne as the only adapter once an app with a driver exists.
type Backend struct {
	app     fyne.App
	surface *Surface
}

var errNoDriver = errors.New("no fyne driver")

func (b *Backend) RequestAdapter(ctx context.Context, opts render.SetupOptions) (render.Adapter, error) {
	if b.app == nil || b.app.Driver() == nil {
		return nil, errNoDriver
	}
	return adapter{b: b}, nil
}

type adapter struct {
	b *Backend
}

func (adapter) Name() string { return AdapterName }

func (a adapter) RequestDevice(ctx context.Context, opts render.SetupOptions) (render.Surface, error) {
	return a.b.surface, nil
}
