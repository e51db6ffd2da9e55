// Package render is the runtime's side of the rendering contract: surface
// configuration, the one-shot backend negotiation at startup, and the
// mutable canvas views draw into. Backends rasterize the canvas; the
// primitive set is deliberately small.
package render

import "fmt"

// Usage says what the surface's textures are used for.
type Usage int

const (
	UsageRenderAttachment Usage = iota
	UsageCopySource
)

// Format is the surface pixel format.
type Format int

const (
	FormatBGRA8UnormSrgb Format = iota
	FormatRGBA8Unorm
	// FormatCell is a character-cell grid.
	FormatCell
)

func (f Format) String() string {
	switch f {
	case FormatBGRA8UnormSrgb:
		return "bgra8unorm-srgb"
	case FormatRGBA8Unorm:
		return "rgba8unorm"
	case FormatCell:
		return "cell"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// PresentMode controls frame pacing.
type PresentMode int

const (
	PresentFifo PresentMode = iota
	PresentMailbox
	PresentImmediate
)

// SurfaceConfig is what a surface is (re)configured with.
type SurfaceConfig struct {
	Usage       Usage
	Format      Format
	Width       int
	Height      int
	PresentMode PresentMode
}

// Clamped returns c with width and height raised to at least 1.
func (c SurfaceConfig) Clamped() SurfaceConfig {
	if c.Width < 1 {
		c.Width = 1
	}
	if c.Height < 1 {
		c.Height = 1
	}
	return c
}

// Resize sets new dimensions, clamped to at least 1x1.
func (c *SurfaceConfig) Resize(width, height int) {
	c.Width = width
	c.Height = height
	*c = c.Clamped()
}

// Frame is one acquired frame.
type Frame interface {
	Present(c *Canvas) error
}

// Surface is the presentation target owned by a backend.
type Surface interface {
	Configure(cfg SurfaceConfig) error
	NextFrame() (Frame, error)
	PreferredFormat() Format
}
