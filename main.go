package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/atomicstack/declui/internal/app"
	"github.com/atomicstack/declui/internal/config"
	"github.com/atomicstack/declui/internal/logging"
	"github.com/atomicstack/declui/internal/logging/events"
	"golang.org/x/term"
)

func main() {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	if logging.TraceEnabled() {
		events.App.Start(startupTracePayload(runtimeCfg, os.LookupEnv))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, runtimeCfg.App); err != nil {
		stop()
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// displayEnv lists the variables that decide which desktop backend fyne
// picks and whether a terminal supports colour.
var displayEnv = []string{"DISPLAY", "WAYLAND_DISPLAY", "TERM", "COLORTERM"}

// startupTracePayload bundles the resolved configuration with what the
// chosen platform depends on: descriptors for the terminal, display
// variables for the desktop.
func startupTracePayload(cfg config.Config, lookup func(string) (string, bool)) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath

	display := make(map[string]string, len(displayEnv))
	for _, name := range displayEnv {
		if v, ok := lookup(name); ok {
			display[name] = v
		}
	}

	payload := map[string]interface{}{
		"argv":     cfg.Args,
		"flags":    flags,
		"config":   cfg,
		"platform": cfg.App.Platform,
		"display":  display,
		"tty":      collectTTYDetails(),
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	return payload
}

type ttyDetails struct {
	Detected *ttyProbe  `json:"detected,omitempty"`
	Probes   []ttyProbe `json:"probes"`
}

type ttyProbe struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails probes the standard descriptors; the first terminal
// with a readable size is what the terminal platform will size itself to.
func collectTTYDetails() ttyDetails {
	var details ttyDetails
	for _, f := range []*os.File{os.Stdin, os.Stdout, os.Stderr} {
		probe := ttyProbe{Name: stdName(f)}
		fd := int(f.Fd())
		if term.IsTerminal(fd) {
			probe.IsTerminal = true
			w, h, err := term.GetSize(fd)
			if err != nil {
				probe.Error = err.Error()
			} else {
				probe.Width, probe.Height = w, h
				if details.Detected == nil {
					found := probe
					details.Detected = &found
				}
			}
		}
		details.Probes = append(details.Probes, probe)
	}
	return details
}

func stdName(f *os.File) string {
	switch f {
	case os.Stdin:
		return "stdin"
	case os.Stdout:
		return "stdout"
	default:
		return "stderr"
	}
}
