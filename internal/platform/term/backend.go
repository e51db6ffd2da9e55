package term

import (
	"context"
	"fmt"

	"github.com/atomicstack/declui/internal/render"
	"golang.org/x/term"
)

// AdapterName identifies the terminal backend in logs and traces.
const AdapterName = "terminal"

var (
	isTerminal = term.IsTerminal
	getSize    = term.GetSize
)

// Backend offers the terminal as the only adapter when fd is a TTY.
type Backend struct {
	fd      int
	surface *Surface
}

func (b *Backend) RequestAdapter(ctx context.Context, opts render.SetupOptions) (render.Adapter, error) {
	if !isTerminal(b.fd) {
		return nil, fmt.Errorf("fd %d is not a terminal", b.fd)
	}
	return adapter{b: b}, nil
}

type adapter struct {
	b *Backend
}

func (adapter) Name() string { return AdapterName }

func (a adapter) RequestDevice(ctx context.Context, opts render.SetupOptions) (render.Surface, error) {
	a.b.surface.SetTraceDir(opts.TraceDir)
	return a.b.surface, nil
}

// terminalSize returns the size of fd in cells, falling back to 80x24.
func terminalSize(fd int) (int, int) {
	w, h, err := getSize(fd)
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}
