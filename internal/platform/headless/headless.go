// Package headless is an in-memory platform: a window that records what
// the runtime asks of it, a surface that keeps presented frames, and a
// channel event source. It backs tests and the -platform=headless mode.
package headless

import (
	"context"
	"sync"

	"github.com/atomicstack/declui/internal/menu"
	"github.com/atomicstack/declui/internal/platform"
	"github.com/atomicstack/declui/internal/render"
)

// Window records title, menu and redraw requests.
type Window struct {
	mu      sync.Mutex
	title   string
	menu    *menu.Native
	menus   int
	size    platform.Size
	scale   float64
	redraws int
}

// NewWindow returns a window of the given device size and scale factor.
func NewWindow(width, height int, scale float64) *Window {
	return &Window{size: platform.Size{Width: width, Height: height}, scale: scale}
}

func (w *Window) SetTitle(title string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.title = title
}

func (w *Window) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

func (w *Window) NewMenu() menu.Builder {
	return menu.NewNative()
}

func (w *Window) SetMenu(root menu.Builder) {
	n, ok := root.(*menu.Native)
	if !ok {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.menu = n
	w.menus++
}

// Menu returns the attached menu, nil before the first SetMenu.
func (w *Window) Menu() *menu.Native {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.menu
}

// MenuBuilds counts SetMenu calls.
func (w *Window) MenuBuilds() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.menus
}

func (w *Window) ScaleFactor() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scale
}

func (w *Window) InnerSize() platform.Size {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

// Resize changes the size reported by InnerSize and returns the matching
// raw event for the caller to deliver.
func (w *Window) Resize(width, height int) platform.Resized {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.size = platform.Size{Width: width, Height: height}
	return platform.Resized{Width: width, Height: height}
}

func (w *Window) RequestRedraw() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.redraws++
}

// Redraws counts RequestRedraw calls.
func (w *Window) Redraws() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.redraws
}

// Snapshot is a presented frame.
type Snapshot struct {
	Width  float64
	Height float64
	Ops    []render.Op
}

// Surface keeps configurations and presented frames.
type Surface struct {
	mu      sync.Mutex
	configs []render.SurfaceConfig
	frames  []Snapshot
	failing error
}

func NewSurface() *Surface {
	return &Surface{}
}

func (s *Surface) Configure(cfg render.SurfaceConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs = append(s.configs, cfg)
	return nil
}

func (s *Surface) PreferredFormat() render.Format {
	return render.FormatRGBA8Unorm
}

// FailNextFrame makes the next NextFrame call return err.
func (s *Surface) FailNextFrame(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = err
}

func (s *Surface) NextFrame() (render.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failing; err != nil {
		s.failing = nil
		return nil, err
	}
	return frame{s: s}, nil
}

// Configs returns every configuration applied so far.
func (s *Surface) Configs() []render.SurfaceConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]render.SurfaceConfig(nil), s.configs...)
}

// Frames returns every presented frame.
func (s *Surface) Frames() []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Snapshot(nil), s.frames...)
}

type frame struct {
	s *Surface
}

func (f frame) Present(c *render.Canvas) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.frames = append(f.s.frames, Snapshot{
		Width:  c.Width,
		Height: c.Height,
		Ops:    append([]render.Op(nil), c.Ops()...),
	})
	return nil
}

// Backend hands out a single adapter wrapping Surface. Setting NoAdapter or
// NoDevice simulates the matching negotiation failure.
type Backend struct {
	Surface   *Surface
	NoAdapter bool
	NoDevice  bool
}

const AdapterName = "headless"

func (b *Backend) RequestAdapter(ctx context.Context, opts render.SetupOptions) (render.Adapter, error) {
	if b.NoAdapter {
		return nil, render.ErrNoAdapter
	}
	return adapter{b: b}, nil
}

type adapter struct {
	b *Backend
}

func (adapter) Name() string { return AdapterName }

func (a adapter) RequestDevice(ctx context.Context, opts render.SetupOptions) (render.Surface, error) {
	if a.b.NoDevice {
		return nil, render.ErrNoDevice
	}
	if a.b.Surface == nil {
		a.b.Surface = NewSurface()
	}
	return a.b.Surface, nil
}

// Source is a channel event source. Wake coalesces: at most one wake
// signal is pending at a time.
type Source struct {
	events    chan platform.Event
	wakes     chan struct{}
	closeOnce sync.Once
}

// NewSource returns a source buffering up to buffer raw events.
func NewSource(buffer int) *Source {
	return &Source{
		events: make(chan platform.Event, buffer),
		wakes:  make(chan struct{}, 1),
	}
}

func (s *Source) Events() <-chan platform.Event { return s.events }
func (s *Source) Wakes() <-chan struct{}        { return s.wakes }

// Send delivers raw events, blocking while the buffer is full.
func (s *Source) Send(evs ...platform.Event) {
	for _, ev := range evs {
		s.events <- ev
	}
}

// Wake signals pending work without blocking.
func (s *Source) Wake() {
	select {
	case s.wakes <- struct{}{}:
	default:
	}
}

// Close ends the event stream.
func (s *Source) Close() {
	s.closeOnce.Do(func() { close(s.events) })
}
