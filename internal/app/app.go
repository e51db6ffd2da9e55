package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	fyneapp "fyne.io/fyne/v2/app"

	"github.com/atomicstack/declui/internal/backend"
	"github.com/atomicstack/declui/internal/command"
	"github.com/atomicstack/declui/internal/logging/events"
	"github.com/atomicstack/declui/internal/loop"
	"github.com/atomicstack/declui/internal/platform"
	"github.com/atomicstack/declui/internal/platform/desktop"
	"github.com/atomicstack/declui/internal/platform/headless"
	"github.com/atomicstack/declui/internal/platform/term"
	"github.com/atomicstack/declui/internal/render"
	"github.com/atomicstack/declui/internal/view"
)

// Platform names accepted by Config.Platform.
const (
	PlatformTerm     = "term"
	PlatformDesktop  = "desktop"
	PlatformHeadless = "headless"
)

const (
	appID         = "io.github.atomicstack.declui"
	defaultTitle  = "declui"
	defaultWidth  = 800
	defaultHeight = 600
)

// Config describes user-provided application options.
type Config struct {
	Platform string
	Title    string
	// Width and Height size the window: cells for the terminal, logical
	// units elsewhere. Zero picks a platform default.
	Width  int
	Height int
	// CommandsFile adds commands from a TOML file after the built-in ones.
	CommandsFile string
	TraceDir     string
	Inline       bool
	// ClockInterval drives the background clock; zero disables it.
	ClockInterval time.Duration
}

// Platform is a windowing system the driver can run on.
type Platform interface {
	Window() platform.Window
	Backend() render.Backend
	Run(ctx context.Context, d *loop.Driver) error
}

var newPlatform = func(cfg Config) (Platform, float64, error) {
	switch cfg.Platform {
	case PlatformTerm, "":
		return term.New(term.Options{Width: cfg.Width, Height: cfg.Height, Inline: cfg.Inline}), 1, nil
	case PlatformDesktop:
		w, h := orDefault(cfg.Width, defaultWidth), orDefault(cfg.Height, defaultHeight)
		return desktop.New(fyneapp.NewWithID(appID), float32(w), float32(h)), 18, nil
	case PlatformHeadless:
		return newHeadless(orDefault(cfg.Width, defaultWidth), orDefault(cfg.Height, defaultHeight)), 1, nil
	default:
		return nil, 0, fmt.Errorf("unknown platform %q", cfg.Platform)
	}
}

func orDefault(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

// Run builds the demo on the configured platform and blocks until the
// window closes or ctx is cancelled. A backend that cannot be negotiated is
// fatal.
func Run(ctx context.Context, cfg Config) error {
	registry := command.NewRegistry(DefaultCommands()...)
	if cfg.CommandsFile != "" {
		extra, err := command.LoadFile(cfg.CommandsFile)
		if err != nil {
			return fmt.Errorf("load commands: %w", err)
		}
		for _, info := range extra {
			registry.Add(info.Path, info.Key)
		}
	}

	plat, lineHeight, err := newPlatform(cfg)
	if err != nil {
		return err
	}
	size := plat.Window().InnerSize()
	dev, err := render.Setup(ctx, plat.Backend(), render.SetupOptions{
		TraceDir: cfg.TraceDir,
		Width:    size.Width,
		Height:   size.Height,
	})
	if err != nil {
		events.App.Stop("render setup failed")
		return fmt.Errorf("failed to find a compatible render backend: %w", err)
	}

	title := cfg.Title
	if title == "" {
		title = defaultTitle
	}
	demo := NewDemo(registry, lineHeight)
	d := loop.New(loop.Options{
		Title:   title,
		AppName: title,
		Root:    Route(demo),
		Window:  plat.Window(),
		Surface: dev.Surface,
		Config:  dev.Config,
	})

	if cfg.ClockInterval > 0 {
		watcher := backend.NewWatcher(d.Handle(), cfg.ClockInterval)
		watcher.Watch("clock", readClock, applyClock)
		defer func() {
			watcher.Stop()
			watcher.Wait()
		}()
	}

	err = plat.Run(ctx, d)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	reason := "closed"
	if err != nil {
		reason = err.Error()
	}
	events.App.Stop(reason)
	return err
}

func readClock(context.Context) (any, error) {
	return time.Now().Format(time.TimeOnly), nil
}

func applyClock(cx *view.Context, ev backend.Event) {
	if ev.Err != nil {
		cx.Err = ev.Err
		return
	}
	if s, ok := ev.Data.(string); ok && s != cx.State.Text(keyClock) {
		cx.State.Set(keyClock, s)
		cx.Invalidate()
	}
}

// headlessPlatform runs the driver off a channel source with no display.
type headlessPlatform struct {
	win     *headless.Window
	backend *headless.Backend
	src     *headless.Source
}

func newHeadless(width, height int) *headlessPlatform {
	return &headlessPlatform{
		win:     headless.NewWindow(width, height, 1),
		backend: &headless.Backend{},
		src:     headless.NewSource(64),
	}
}

func (p *headlessPlatform) Window() platform.Window { return p.win }
func (p *headlessPlatform) Backend() render.Backend { return p.backend }

func (p *headlessPlatform) Run(ctx context.Context, d *loop.Driver) error {
	d.Proxy().Set(p.src)
	return d.Run(ctx, p.src)
}
