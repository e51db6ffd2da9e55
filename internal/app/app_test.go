package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/declui/internal/platform"
	"github.com/atomicstack/declui/internal/platform/headless"
	"github.com/atomicstack/declui/internal/render"
)

func stubHeadless(t *testing.T) *headlessPlatform {
	t.Helper()
	p := newHeadless(80, 24)
	p.backend.Surface = headless.NewSurface()
	orig := newPlatform
	newPlatform = func(Config) (Platform, float64, error) { return p, 1, nil }
	t.Cleanup(func() { newPlatform = orig })
	return p
}

func startRun(t *testing.T, cfg Config) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg) }()
	return cancel, done
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(3 * time.Second):
		t.Fatalf("run did not return")
		return nil
	}
}

func frameShows(s *headless.Surface, text string) bool {
	frames := s.Frames()
	if len(frames) == 0 {
		return false
	}
	for _, op := range frames[len(frames)-1].Ops {
		if strings.Contains(op.Text, text) {
			return true
		}
	}
	return false
}

func TestRunHeadlessClickAndCancel(t *testing.T) {
	p := stubHeadless(t)
	cancel, done := startRun(t, Config{Platform: PlatformHeadless, ClockInterval: 10 * time.Millisecond})
	surf := p.backend.Surface

	waitFor(t, "first frame", func() bool { return frameShows(surf, "count: 0") })
	if p.win.Title() != defaultTitle {
		t.Fatalf("expected default title, got %q", p.win.Title())
	}

	// The button's row is 20 units up from the bottom of a 24-row window.
	p.src.Send(
		platform.CursorMoved{X: 1.5, Y: 3.5},
		platform.MouseInput{State: platform.Pressed, Button: platform.ButtonLeft},
	)
	waitFor(t, "click to land", func() bool { return frameShows(surf, "count: 1") })
	waitFor(t, "clock to tick", func() bool { return frameShows(surf, "clock: ") })

	cancel()
	if err := waitDone(t, done); err != nil {
		t.Fatalf("expected cancellation to end cleanly, got %v", err)
	}
}

func TestRunHeadlessQuitsOnClose(t *testing.T) {
	p := stubHeadless(t)
	_, done := startRun(t, Config{Platform: PlatformHeadless, Title: "Closer"})

	waitFor(t, "first frame", func() bool { return len(p.backend.Surface.Frames()) > 0 })
	p.src.Send(platform.CloseRequested{})
	if err := waitDone(t, done); err != nil {
		t.Fatalf("expected a clean exit, got %v", err)
	}
	if p.win.Title() != "Closer" {
		t.Fatalf("expected title Closer, got %q", p.win.Title())
	}
}

func TestRunLoadsCommandsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commands.toml")
	data := "[[command]]\npath = \"Tools:Lint\"\nkey = \"l\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write commands: %v", err)
	}
	p := stubHeadless(t)
	cancel, done := startRun(t, Config{Platform: PlatformHeadless, CommandsFile: path})

	waitFor(t, "menu with Tools", func() bool {
		_, ok := p.win.Menu().Resolve("Tools", "Lint")
		return ok
	})
	id, _ := p.win.Menu().Resolve("Tools", "Lint")
	p.src.Send(platform.MenuActivated{ID: id})
	waitFor(t, "status line", func() bool { return frameShows(p.backend.Surface, "no handler for Tools:Lint") })

	cancel()
	if err := waitDone(t, done); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRunRejectsBadCommandsFile(t *testing.T) {
	stubHeadless(t)
	err := Run(context.Background(), Config{CommandsFile: filepath.Join(t.TempDir(), "missing.toml")})
	if err == nil || !strings.Contains(err.Error(), "load commands") {
		t.Fatalf("expected a load error, got %v", err)
	}
}

func TestRunFailsWithoutAdapter(t *testing.T) {
	p := stubHeadless(t)
	p.backend.NoAdapter = true
	err := Run(context.Background(), Config{Platform: PlatformHeadless})
	if !errors.Is(err, render.ErrNoAdapter) {
		t.Fatalf("expected ErrNoAdapter, got %v", err)
	}
	if !strings.Contains(err.Error(), "compatible render backend") {
		t.Fatalf("expected a fatal setup message, got %q", err)
	}
}

func TestRunRejectsUnknownPlatform(t *testing.T) {
	err := Run(context.Background(), Config{Platform: "wayland"})
	if err == nil || !strings.Contains(err.Error(), `unknown platform "wayland"`) {
		t.Fatalf("expected unknown platform error, got %v", err)
	}
}

func TestDefaultCommandsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range DefaultCommands() {
		if seen[c.Path] {
			t.Fatalf("duplicate command %s", c.Path)
		}
		seen[c.Path] = true
	}
	if !seen[CmdPalette] || seen[CmdZoomReset] {
		t.Fatalf("unexpected default set %v", seen)
	}
}
