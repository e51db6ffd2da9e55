// Package term runs the toolkit inside a terminal through Bubble Tea. The
// terminal is a single window whose top row is the application menu bar
// (F10 opens it, accelerators work as ctrl or alt chords) and whose
// remaining cells are the render surface.
package term

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/atomicstack/declui/internal/loop"
	"github.com/atomicstack/declui/internal/platform"
	"github.com/atomicstack/declui/internal/render"
	tea "github.com/charmbracelet/bubbletea"
)

// Options configure the terminal platform. Zero values use the process's
// stdin and stdout.
type Options struct {
	Input  *os.File
	Output io.Writer
	// Width and Height override the detected terminal size when positive.
	Width  int
	Height int
	// Inline disables the alternate screen.
	Inline bool
}

// Platform owns the terminal window and surface.
type Platform struct {
	opts    Options
	win     *Window
	surface *Surface
	backend *Backend
}

// New probes the terminal size and prepares window and surface.
func New(opts Options) *Platform {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	fd := int(opts.Input.Fd())
	w, h := terminalSize(fd)
	if opts.Width > 0 {
		w = opts.Width
	}
	if opts.Height > 0 {
		h = opts.Height
	}
	surface := NewSurface()
	return &Platform{
		opts:    opts,
		win:     NewWindow(w, h),
		surface: surface,
		backend: &Backend{fd: fd, surface: surface},
	}
}

func (p *Platform) Window() platform.Window { return p.win }
func (p *Platform) Backend() render.Backend { return p.backend }

// Run starts the driver and hands the terminal to Bubble Tea until the
// driver terminates or ctx is cancelled.
func (p *Platform) Run(ctx context.Context, d *loop.Driver) error {
	m := newModel(d, p.win, p.surface)
	progOpts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithInput(p.opts.Input),
		tea.WithOutput(p.opts.Output),
		tea.WithMouseCellMotion(),
	}
	if !p.opts.Inline {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(m, progOpts...)
	m.waker.send = program.Send
	d.Proxy().Set(m.waker)

	if err := d.Start(ctx); err != nil {
		return err
	}
	// The first frame is ready before the program draws.
	if !d.Tick() {
		return nil
	}

	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
