package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/declui/internal/app"
	"github.com/atomicstack/declui/internal/render"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envPlatform = "DECLUI_PLATFORM"
	envTitle    = "DECLUI_TITLE"
	envWidth    = "DECLUI_WIDTH"
	envHeight   = "DECLUI_HEIGHT"
	envCommands = "DECLUI_COMMANDS"
	envInline   = "DECLUI_INLINE"
	envClock    = "DECLUI_CLOCK"
	envTrace    = "DECLUI_TRACE"
	envLogFile  = "DECLUI_LOG_FILE"
)

const defaultClock = time.Second

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("declui", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	platform := fs.String("platform", envOrDefault(env, envPlatform, app.PlatformTerm), "windowing platform: term, desktop or headless")
	title := fs.String("title", envOrDefault(env, envTitle, ""), "window title and application menu name")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "window width (cells for term, logical units otherwise; 0 picks a default)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "window height (rows for term, logical units otherwise; 0 picks a default)")
	commands := fs.String("commands", envOrDefault(env, envCommands, ""), "TOML file with extra menu commands")
	traceDir := fs.String("trace-dir", envOrDefault(env, render.TraceDirEnv, ""), "directory for render backend traces")
	inline := fs.Bool("inline", envOrBool(env, envInline, false), "render the terminal platform without the alternate screen")
	clock := fs.Duration("clock", envOrDuration(env, envClock, defaultClock), "background clock interval (0 disables it)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			Platform:      *platform,
			Title:         *title,
			Width:         *width,
			Height:        *height,
			CommandsFile:  *commands,
			TraceDir:      *traceDir,
			Inline:        *inline,
			ClockInterval: *clock,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"platform": *platform,
			"title":    *title,
			"width":    strconv.Itoa(*width),
			"height":   strconv.Itoa(*height),
			"commands": *commands,
			"traceDir": *traceDir,
			"inline":   strconv.FormatBool(*inline),
			"clock":    clock.String(),
			"trace":    strconv.FormatBool(*trace),
			"logFile":  *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects configurations the application cannot start with.
func Validate(cfg Config) error {
	switch cfg.App.Platform {
	case app.PlatformTerm, app.PlatformDesktop, app.PlatformHeadless:
	default:
		return fmt.Errorf("platform must be one of term, desktop or headless (got %q)", cfg.App.Platform)
	}
	if cfg.App.Width < 0 {
		return fmt.Errorf("width must be >= 0 (got %d)", cfg.App.Width)
	}
	if cfg.App.Height < 0 {
		return fmt.Errorf("height must be >= 0 (got %d)", cfg.App.Height)
	}
	if cfg.App.ClockInterval < 0 {
		return fmt.Errorf("clock must be >= 0 (got %s)", cfg.App.ClockInterval)
	}
	return nil
}
