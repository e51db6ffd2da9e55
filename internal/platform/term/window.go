package term

import (
	"github.com/atomicstack/declui/internal/menu"
	"github.com/atomicstack/declui/internal/platform"
)

// menuRows is the height of the menu bar above the content area.
const menuRows = 1

// Window is the terminal as a platform window: one cell is one device
// pixel, the scale factor is always 1, and the top row holds the menu bar.
// It is only touched from the program goroutine once the program runs.
type Window struct {
	title      string
	titleDirty bool
	bar        *MenuBar
	width      int
	height     int
	redraws    int
}

// NewWindow returns a window for a terminal of the given size in cells.
func NewWindow(width, height int) *Window {
	w := &Window{bar: NewMenuBar()}
	w.resize(width, height)
	return w
}

func (w *Window) SetTitle(title string) {
	if title == w.title {
		return
	}
	w.title = title
	w.titleDirty = true
}

// takeTitle returns a title set since the last call.
func (w *Window) takeTitle() (string, bool) {
	if !w.titleDirty {
		return "", false
	}
	w.titleDirty = false
	return w.title, true
}

func (w *Window) NewMenu() menu.Builder {
	return NewMenuBar()
}

func (w *Window) SetMenu(root menu.Builder) {
	if bar, ok := root.(*MenuBar); ok {
		w.bar = bar
	}
}

// MenuBar returns the attached menu bar.
func (w *Window) MenuBar() *MenuBar {
	return w.bar
}

func (w *Window) ScaleFactor() float64 {
	return 1
}

// InnerSize is the content area below the menu bar.
func (w *Window) InnerSize() platform.Size {
	return platform.Size{Width: w.width, Height: max(w.height-menuRows, 0)}
}

// The program re-renders after every update, so a request only counts.
func (w *Window) RequestRedraw() {
	w.redraws++
}

func (w *Window) resize(width, height int) platform.Resized {
	w.width, w.height = width, height
	size := w.InnerSize()
	return platform.Resized{Width: size.Width, Height: size.Height}
}
