package desktop

import (
	"fmt"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"

	"github.com/atomicstack/declui/internal/render"
)

// textSize is the height of one text line in logical units.
const textSize = 14

var (
	textColor   = color.NRGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
	accentColor = color.NRGBA{R: 0x00, G: 0x87, B: 0xff, A: 0xff}
	fillColor   = color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff}
)

// Surface presents canvases as Fyne canvas objects in a container without
// layout. Frames must be presented on the Fyne main goroutine.
type Surface struct {
	mu     sync.Mutex
	layer  *fyne.Container
	config render.SurfaceConfig
	frames int
}

func NewSurface() *Surface {
	return &Surface{layer: container.NewWithoutLayout()}
}

// Layer returns the container frames are drawn into.
func (s *Surface) Layer() *fyne.Container {
	return s.layer
}

func (s *Surface) Configure(cfg render.SurfaceConfig) error {
	if cfg.Format == render.FormatCell {
		return fmt.Errorf("fyne surface: unsupported format %s", cfg.Format)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg.Clamped()
	return nil
}

func (s *Surface) PreferredFormat() render.Format {
	return render.FormatBGRA8UnormSrgb
}

func (s *Surface) NextFrame() (render.Frame, error) {
	return fyneFrame{s: s}, nil
}

// Frames counts presented frames.
func (s *Surface) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

type fyneFrame struct {
	s *Surface
}

func (f fyneFrame) Present(c *render.Canvas) error {
	f.s.layer.Objects = objectsFor(c)
	f.s.layer.Refresh()
	f.s.mu.Lock()
	f.s.frames++
	f.s.mu.Unlock()
	return nil
}

// objectsFor converts recorded operations into positioned canvas objects,
// flipping y so the canvas origin sits at the bottom-left.
func objectsFor(c *render.Canvas) []fyne.CanvasObject {
	height := float32(c.Height)
	ops := c.Ops()
	objs := make([]fyne.CanvasObject, 0, len(ops))
	for _, op := range ops {
		switch op.Kind {
		case render.OpFill:
			fill := fillColor
			if op.Style.Accent {
				fill = accentColor
			}
			rect := canvas.NewRectangle(fill)
			rect.Move(fyne.NewPos(float32(op.Rect.X), height-float32(op.Rect.Y+op.Rect.H)))
			rect.Resize(fyne.NewSize(float32(op.Rect.W), float32(op.Rect.H)))
			objs = append(objs, rect)
		case render.OpText:
			fg := textColor
			if op.Style.Accent {
				fg = accentColor
			}
			text := canvas.NewText(op.Text, fg)
			text.TextSize = textSize
			text.TextStyle = fyne.TextStyle{Bold: op.Style.Bold || op.Style.Accent}
			text.Move(fyne.NewPos(float32(op.Rect.X), height-float32(op.Rect.Y)-textSize))
			text.Resize(text.MinSize())
			objs = append(objs, text)
		}
	}
	return objs
}
