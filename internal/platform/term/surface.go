package term

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/atomicstack/declui/internal/logging"
	"github.com/atomicstack/declui/internal/render"
	"github.com/charmbracelet/x/ansi"
)

var writeFile = os.WriteFile

// Surface rasterizes canvases into a character-cell grid, one cell per
// logical unit. With a trace directory set, every presented frame is also
// written there as plain text.
type Surface struct {
	mu       sync.Mutex
	config   render.SurfaceConfig
	frame    string
	presents int
	traceDir string
}

// NewSurface returns an unconfigured surface.
func NewSurface() *Surface {
	return &Surface{config: render.SurfaceConfig{Format: render.FormatCell}.Clamped()}
}

// SetTraceDir enables frame dumps into dir; empty disables them.
func (s *Surface) SetTraceDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.traceDir = dir
}

func (s *Surface) Configure(cfg render.SurfaceConfig) error {
	if cfg.Format != render.FormatCell {
		return fmt.Errorf("terminal surface: unsupported format %s", cfg.Format)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg.Clamped()
	return nil
}

func (s *Surface) PreferredFormat() render.Format {
	return render.FormatCell
}

func (s *Surface) NextFrame() (render.Frame, error) {
	return cellFrame{s: s}, nil
}

// Frame returns the last presented frame.
func (s *Surface) Frame() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Presents counts presented frames.
func (s *Surface) Presents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presents
}

type cellFrame struct {
	s *Surface
}

func (f cellFrame) Present(c *render.Canvas) error {
	s := f.s
	s.mu.Lock()
	cfg := s.config
	s.mu.Unlock()

	out := rasterize(c, cfg.Width, cfg.Height)

	s.mu.Lock()
	s.frame = out
	s.presents++
	n, dir := s.presents, s.traceDir
	s.mu.Unlock()

	if dir != "" {
		path := filepath.Join(dir, fmt.Sprintf("frame-%06d.txt", n))
		if err := writeFile(path, []byte(ansi.Strip(out)+"\n"), 0o644); err != nil {
			logging.Error(fmt.Errorf("trace frame: %w", err))
		}
	}
	return nil
}

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellFill
	cellText
	// cellWide is the trailing half of a double-width rune.
	cellWide
)

type cell struct {
	r     rune
	kind  cellKind
	style render.Style
}

// rasterize maps logical y-up coordinates onto rows top to bottom: row i
// covers y in [height-1-i, height-i).
func rasterize(c *render.Canvas, width, height int) string {
	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}
	for _, op := range c.Ops() {
		switch op.Kind {
		case render.OpFill:
			fillRect(grid, width, height, op)
		case render.OpText:
			drawText(grid, width, height, op)
		}
	}
	lines := make([]string, height)
	for i, cells := range grid {
		lines[i] = renderRow(cells)
	}
	return strings.Join(lines, "\n")
}

func fillRect(grid [][]cell, width, height int, op render.Op) {
	r := op.Rect
	for i := 0; i < height; i++ {
		y := float64(height - 1 - i)
		if y < math.Floor(r.Y) || y >= r.Y+r.H {
			continue
		}
		for x := 0; x < width; x++ {
			fx := float64(x)
			if fx < math.Floor(r.X) || fx >= r.X+r.W {
				continue
			}
			grid[i][x] = cell{r: ' ', kind: cellFill, style: op.Style}
		}
	}
}

func drawText(grid [][]cell, width, height int, op render.Op) {
	row := height - 1 - int(math.Floor(op.Rect.Y))
	if row < 0 || row >= height {
		return
	}
	x := int(math.Floor(op.Rect.X))
	for _, r := range op.Text {
		w := ansi.StringWidth(string(r))
		if w == 0 {
			continue
		}
		if x >= 0 && x+w <= width {
			grid[row][x] = cell{r: r, kind: cellText, style: op.Style}
			if w == 2 {
				grid[row][x+1] = cell{kind: cellWide, style: op.Style}
			}
		}
		x += w
		if x >= width {
			return
		}
	}
}

func renderRow(cells []cell) string {
	var b strings.Builder
	i := 0
	for i < len(cells) {
		j := i
		var run strings.Builder
		for j < len(cells) && sameRun(cells[i], cells[j]) {
			switch cells[j].kind {
			case cellEmpty, cellFill:
				run.WriteByte(' ')
			case cellText:
				run.WriteRune(cells[j].r)
			}
			j++
		}
		switch cells[i].kind {
		case cellFill:
			b.WriteString(styles.ForFill(cells[i].style).Render(run.String()))
		case cellText, cellWide:
			b.WriteString(styles.ForText(cells[i].style).Render(run.String()))
		default:
			b.WriteString(run.String())
		}
		i = j
	}
	return b.String()
}

func sameRun(a, b cell) bool {
	ka, kb := a.kind, b.kind
	if ka == cellWide {
		ka = cellText
	}
	if kb == cellWide {
		kb = cellText
	}
	if ka != kb {
		return false
	}
	return ka == cellEmpty || a.style == b.style
}
