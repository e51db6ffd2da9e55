package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/atomicstack/declui/internal/logging/events"
)

// TraceDirEnv names the environment variable enabling backend tracing.
const TraceDirEnv = "DECLUI_TRACE_DIR"

var (
	// ErrNoAdapter means no compatible backend adapter was found.
	ErrNoAdapter = errors.New("render: no compatible adapter")
	// ErrNoDevice means the adapter could not provide a device.
	ErrNoDevice = errors.New("render: no compatible device")
)

// SetupOptions configure backend negotiation.
type SetupOptions struct {
	// TraceDir enables backend tracing when non-empty.
	TraceDir string
	Width    int
	Height   int
}

// Adapter is a candidate rendering backend.
type Adapter interface {
	Name() string
	RequestDevice(ctx context.Context, opts SetupOptions) (Surface, error)
}

// Backend hands out adapters.
type Backend interface {
	RequestAdapter(ctx context.Context, opts SetupOptions) (Adapter, error)
}

// Device is the negotiated result: a configured surface ready for frames.
type Device struct {
	Adapter  string
	Surface  Surface
	Config   SurfaceConfig
	TraceDir string
}

var mkdirAll = os.MkdirAll

// Setup negotiates adapter and device and configures the surface. It blocks
// until negotiation finishes or ctx is done; it runs once, before the event
// loop starts, while the window is not yet interactive.
func Setup(ctx context.Context, b Backend, opts SetupOptions) (*Device, error) {
	opts.TraceDir = prepareTraceDir(opts.TraceDir)

	type result struct {
		dev *Device
		err error
	}
	done := make(chan result, 1)
	go func() {
		dev, err := negotiate(ctx, b, opts)
		done <- result{dev: dev, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("render setup: %w", ctx.Err())
	case res := <-done:
		return res.dev, res.err
	}
}

func negotiate(ctx context.Context, b Backend, opts SetupOptions) (*Device, error) {
	if b == nil {
		return nil, ErrNoAdapter
	}
	adapter, err := b.RequestAdapter(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAdapter, err)
	}
	if adapter == nil {
		return nil, ErrNoAdapter
	}
	surface, err := adapter.RequestDevice(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoDevice, adapter.Name(), err)
	}
	if surface == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoDevice, adapter.Name())
	}
	cfg := SurfaceConfig{
		Usage:       UsageRenderAttachment,
		Format:      surface.PreferredFormat(),
		Width:       opts.Width,
		Height:      opts.Height,
		PresentMode: PresentFifo,
	}.Clamped()
	if err := surface.Configure(cfg); err != nil {
		return nil, fmt.Errorf("configure surface: %w", err)
	}
	events.Surface.Setup(adapter.Name(), opts.TraceDir)
	return &Device{Adapter: adapter.Name(), Surface: surface, Config: cfg, TraceDir: opts.TraceDir}, nil
}

// prepareTraceDir returns dir when it is usable and "" otherwise. A missing
// or unusable directory disables tracing without an error.
func prepareTraceDir(dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return ""
	}
	if err := mkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return dir
}
