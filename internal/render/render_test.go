package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type fakeSurface struct {
	configured []SurfaceConfig
	failConfig bool
}

func (s *fakeSurface) Configure(cfg SurfaceConfig) error {
	if s.failConfig {
		return errors.New("boom")
	}
	s.configured = append(s.configured, cfg)
	return nil
}

func (s *fakeSurface) NextFrame() (Frame, error) { return nil, errors.New("unused") }
func (s *fakeSurface) PreferredFormat() Format   { return FormatRGBA8Unorm }

type fakeAdapter struct {
	surface Surface
	err     error
}

func (a fakeAdapter) Name() string { return "fake" }
func (a fakeAdapter) RequestDevice(context.Context, SetupOptions) (Surface, error) {
	return a.surface, a.err
}

type fakeBackend struct {
	adapter Adapter
	err     error
	block   chan struct{}
}

func (b fakeBackend) RequestAdapter(ctx context.Context, _ SetupOptions) (Adapter, error) {
	if b.block != nil {
		<-b.block
	}
	return b.adapter, b.err
}

func TestSetupClampsInitialConfig(t *testing.T) {
	surface := &fakeSurface{}
	dev, err := Setup(context.Background(), fakeBackend{adapter: fakeAdapter{surface: surface}}, SetupOptions{Width: 0, Height: -5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dev.Config.Width != 1 || dev.Config.Height != 1 {
		t.Fatalf("expected 1x1, got %dx%d", dev.Config.Width, dev.Config.Height)
	}
	if len(surface.configured) != 1 || surface.configured[0].Format != FormatRGBA8Unorm {
		t.Fatalf("expected one configure with preferred format, got %#v", surface.configured)
	}
	if dev.Adapter != "fake" {
		t.Fatalf("expected adapter name, got %q", dev.Adapter)
	}
}

func TestSetupFatalErrors(t *testing.T) {
	cases := []struct {
		name    string
		backend Backend
		want    error
	}{
		{"nil backend", nil, ErrNoAdapter},
		{"adapter error", fakeBackend{err: errors.New("none")}, ErrNoAdapter},
		{"nil adapter", fakeBackend{}, ErrNoAdapter},
		{"device error", fakeBackend{adapter: fakeAdapter{err: errors.New("lost")}}, ErrNoDevice},
		{"nil surface", fakeBackend{adapter: fakeAdapter{}}, ErrNoDevice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Setup(context.Background(), tc.backend, SetupOptions{})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSetupConfigureFailure(t *testing.T) {
	b := fakeBackend{adapter: fakeAdapter{surface: &fakeSurface{failConfig: true}}}
	if _, err := Setup(context.Background(), b, SetupOptions{}); err == nil {
		t.Fatalf("expected configure error")
	}
}

func TestSetupHonoursContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := Setup(ctx, fakeBackend{block: block}, SetupOptions{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestTraceDirPreparation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "trace")
	if got := prepareTraceDir(dir); got != dir {
		t.Fatalf("expected %q, got %q", dir, got)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("expected trace dir created: %v", err)
	}
	if got := prepareTraceDir("   "); got != "" {
		t.Fatalf("blank dir should disable tracing, got %q", got)
	}

	restore := mkdirAll
	t.Cleanup(func() { mkdirAll = restore })
	mkdirAll = func(string, os.FileMode) error { return errors.New("read-only") }
	if got := prepareTraceDir(dir); got != "" {
		t.Fatalf("unusable dir should disable tracing, got %q", got)
	}
}

func TestResizeClamps(t *testing.T) {
	cfg := SurfaceConfig{Width: 10, Height: 10}
	cfg.Resize(0, -3)
	if cfg.Width != 1 || cfg.Height != 1 {
		t.Fatalf("expected 1x1, got %dx%d", cfg.Width, cfg.Height)
	}
	cfg.Resize(640, 480)
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Fatalf("expected 640x480, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestCanvasRecordsAndResets(t *testing.T) {
	var c Canvas
	c.Reset(80, 24, 0)
	if c.Scale != 1 {
		t.Fatalf("non-positive scale should default to 1, got %v", c.Scale)
	}
	c.Fill(Rect{W: 2, H: 2}, Style{})
	c.Text(1, 1, "hi", Style{Bold: true})
	if len(c.Ops()) != 2 || c.Ops()[1].Text != "hi" {
		t.Fatalf("unexpected ops %#v", c.Ops())
	}
	c.Reset(80, 24, 2)
	if len(c.Ops()) != 0 {
		t.Fatalf("expected ops cleared")
	}
	if !(Rect{X: 0, Y: 0, W: 2, H: 2}).Contains(1, 1) || (Rect{W: 2, H: 2}).Contains(2, 0) {
		t.Fatalf("unexpected Contains result")
	}
}
