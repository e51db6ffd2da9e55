package app

import (
	"fmt"

	"github.com/atomicstack/declui/internal/command"
	"github.com/atomicstack/declui/internal/event"
	"github.com/atomicstack/declui/internal/render"
	"github.com/atomicstack/declui/internal/view"
)

// State keys shared between the demo view, its command handlers and the
// background clock.
const (
	keyCount   = "count"
	keyZoom    = "zoom"
	keyClock   = "clock"
	keyLastKey = "lastKey"
	keyStatus  = "status"
	keyPalette = "palette"
	keyQuery   = "query"
)

const (
	maxZoom         = 4
	paletteMatches  = 3
	incrementButton = "[ + ]"
)

// Demo is a counter: a label, a clickable increment button, a status line
// and a command palette searching the registry.
type Demo struct {
	registry   *command.Registry
	lineHeight float64
	dispatch   func(ev event.Event, cx *view.Context)

	width  float64
	height float64
	label  render.Rect
	button render.Rect
	// zoom and count as of the last layout.
	zoom  int
	count int
}

// NewDemo returns the demo view. lineHeight is one text line in logical
// units of the target platform.
func NewDemo(registry *command.Registry, lineHeight float64) *Demo {
	if lineHeight <= 0 {
		lineHeight = 1
	}
	return &Demo{registry: registry, lineHeight: lineHeight}
}

func zoom(cx *view.Context) int {
	return max(cx.State.Int(keyZoom), 1)
}

func (d *Demo) line(cx *view.Context) float64 {
	return d.lineHeight * float64(zoom(cx))
}

// row returns the baseline of text row i counted from the top.
func (d *Demo) row(i int, cx *view.Context) float64 {
	return d.height - d.line(cx)*float64(i+1)
}

func (d *Demo) Layout(width, height float64, cx *view.Context) {
	d.width, d.height = width, height
	d.zoom, d.count = zoom(cx), cx.State.Int(keyCount)
	lh := d.line(cx)
	d.label = render.Rect{X: 1, Y: d.row(1, cx), W: width - 2, H: lh}
	d.button = render.Rect{X: 1, Y: d.row(3, cx), W: float64(len(incrementButton)) * d.lineHeight, H: lh}
}

func (d *Demo) Draw(c *render.Canvas, cx *view.Context) {
	c.Text(1, d.row(0, cx), "declui demo", render.Style{Bold: true})
	c.Text(d.label.X, d.label.Y, fmt.Sprintf("count: %d", cx.State.Int(keyCount)), render.Style{})
	c.Fill(d.button, render.Style{Accent: true})
	c.Text(d.button.X, d.button.Y, incrementButton, render.Style{Bold: true})

	if clock := cx.State.Text(keyClock); clock != "" {
		c.Text(1, d.row(5, cx), "clock: "+clock, render.Style{})
	}
	if last := cx.State.Text(keyLastKey); last != "" {
		c.Text(1, d.row(6, cx), "key: "+last, render.Style{})
	}
	if status := cx.State.Text(keyStatus); status != "" {
		c.Text(1, d.row(7, cx), status, render.Style{Accent: true})
	}
	if cx.Err != nil {
		c.Text(1, d.row(8, cx), "error: "+cx.Err.Error(), render.Style{Accent: true})
	}
	if d.paletteOpen(cx) {
		d.drawPalette(c, cx)
	}
}

func (d *Demo) drawPalette(c *render.Canvas, cx *view.Context) {
	query := cx.State.Text(keyQuery)
	c.Text(1, d.row(10, cx), "> "+query, render.Style{Bold: true})
	for i, info := range d.matches(query) {
		style := render.Style{}
		if i == 0 {
			style.Accent = true
		}
		c.Text(3, d.row(11+i, cx), info.Path, style)
	}
}

func (d *Demo) matches(query string) []command.Info {
	if d.registry == nil {
		return nil
	}
	found := d.registry.Search(query)
	if len(found) > paletteMatches {
		found = found[:paletteMatches]
	}
	return found
}

func (d *Demo) paletteOpen(cx *view.Context) bool {
	open, _ := cx.State.Get(keyPalette)
	b, _ := open.(bool)
	return b
}

// OpenPalette shows the command palette with an empty query.
func (d *Demo) OpenPalette(cx *view.Context) {
	cx.State.Set(keyPalette, true)
	cx.State.Set(keyQuery, "")
}

func (d *Demo) closePalette(cx *view.Context) {
	cx.State.Del(keyPalette)
	cx.State.Del(keyQuery)
}

func (d *Demo) Process(ev event.Event, cx *view.Context) {
	switch ev := ev.(type) {
	case event.PointerDown:
		if d.button.Contains(ev.Position.X, ev.Position.Y) {
			cx.State.Set(keyCount, cx.State.Int(keyCount)+1)
		}
	case event.KeyPress:
		cx.State.Set(keyLastKey, ev.Key.String())
		if d.paletteOpen(cx) {
			d.paletteKey(ev, cx)
		}
	case event.Command:
		cx.State.Set(keyStatus, "no handler for "+ev.Path)
	case event.WindowResize:
		cx.Invalidate()
	}
}

func (d *Demo) paletteKey(ev event.KeyPress, cx *view.Context) {
	query := cx.State.Text(keyQuery)
	switch ev.Key.Code {
	case event.KeyEscape:
		d.closePalette(cx)
	case event.KeyBackspace:
		if query != "" {
			r := []rune(query)
			cx.State.Set(keyQuery, string(r[:len(r)-1]))
		}
	case event.KeyEnter:
		found := d.matches(query)
		d.closePalette(cx)
		if len(found) > 0 && d.dispatch != nil {
			d.dispatch(event.Command{Path: found[0].Path}, cx)
		}
	case event.KeySpace:
		cx.State.Set(keyQuery, query+" ")
	case event.KeyCharacter:
		cx.State.Set(keyQuery, query+string(ev.Key.Rune))
	}
}

// Commands returns the registry plus commands that only exist in some
// states, so the menu is rebuilt as the state changes.
func (d *Demo) Commands() []command.Info {
	var cmds []command.Info
	if d.registry != nil {
		cmds = d.registry.Commands()
	}
	if d.zoom > 1 {
		cmds = append(cmds, command.New(CmdZoomReset))
	}
	return cmds
}

func (d *Demo) Access() []view.AccessNode {
	return []view.AccessNode{
		{ID: "count", Role: "label", Label: fmt.Sprintf("count %d", d.count), Bounds: d.label},
		{ID: "increment", Role: "button", Label: "Increment", Bounds: d.button},
	}
}
