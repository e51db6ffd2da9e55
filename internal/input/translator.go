// Package input maps raw platform events onto the logical event vocabulary.
// Translation is synchronous and produces at most one logical event; state
// the platform does not resend (cursor position, pressed button, modifiers,
// surface size) is updated in place.
package input

import (
	"unicode"

	"github.com/atomicstack/declui/internal/event"
	"github.com/atomicstack/declui/internal/logging/events"
	"github.com/atomicstack/declui/internal/menu"
	"github.com/atomicstack/declui/internal/platform"
	"github.com/atomicstack/declui/internal/render"
)

// PointerID is the identifier of the single modelled pointer stream.
const PointerID = 0

// Effect is a side effect the driver must carry out after translation.
type Effect uint8

const (
	EffectNone Effect = 0
	// EffectClose terminates the loop.
	EffectClose Effect = 1 << iota
	// EffectReconfigure means the surface configuration changed.
	EffectReconfigure
	// EffectRedraw requests a frame.
	EffectRedraw
)

// Has reports whether e includes f.
func (e Effect) Has(f Effect) bool {
	return e&f != 0
}

// Env is the state translation reads and writes besides its own.
type Env struct {
	Modifiers *event.Modifiers
	Config    *render.SurfaceConfig
	Scale     float64
}

func (e *Env) scale() float64 {
	if e.Scale <= 0 {
		return 1
	}
	return e.Scale
}

// Translator holds pointer state between events and the table used to
// resolve menu activations.
type Translator struct {
	cursor   event.Point
	button   platform.MouseButton
	pressed  bool
	commands menu.CommandMap
}

// New returns a translator resolving menu activations through cmap.
func New(cmap menu.CommandMap) *Translator {
	return &Translator{commands: cmap}
}

// SetCommandMap swaps the activation table after the menu is rebuilt.
func (t *Translator) SetCommandMap(cmap menu.CommandMap) {
	t.commands = cmap
}

// Cursor returns the last known cursor position in logical units.
func (t *Translator) Cursor() event.Point {
	return t.cursor
}

// Button returns the tracked button and whether one is held.
func (t *Translator) Button() (platform.MouseButton, bool) {
	return t.button, t.pressed
}

// Translate maps raw to at most one logical event plus the effects the
// driver must apply. A nil event means nothing is forwarded to the view.
func (t *Translator) Translate(raw platform.Event, env *Env) (event.Event, Effect) {
	switch ev := raw.(type) {
	case platform.CloseRequested:
		return nil, EffectClose

	case platform.Resized:
		env.Config.Resize(ev.Width, ev.Height)
		return nil, EffectReconfigure | EffectRedraw

	case platform.ScaleFactorChanged:
		if ev.Scale > 0 {
			env.Scale = ev.Scale
		}
		env.Config.Resize(ev.Width, ev.Height)
		return nil, EffectReconfigure | EffectRedraw

	case platform.MouseInput:
		return t.mouseInput(ev)

	case platform.CursorMoved:
		s := env.scale()
		t.cursor = event.Point{
			X: ev.X / s,
			Y: float64(env.Config.Height)/s - ev.Y/s,
		}
		return event.PointerMove{ID: PointerID, Position: t.cursor}, EffectNone

	case platform.KeyboardInput:
		if ev.State != platform.Pressed {
			return nil, EffectNone
		}
		key, ok := logicalKey(ev)
		if !ok {
			events.Input.DropKey(string(ev.Rune))
			return nil, EffectNone
		}
		var mods event.Modifiers
		if env.Modifiers != nil {
			mods = *env.Modifiers
		}
		return event.KeyPress{Key: key, Modifiers: mods}, EffectNone

	case platform.ModifiersChanged:
		if env.Modifiers != nil {
			*env.Modifiers = event.Modifiers{
				Shift:   ev.Shift,
				Control: ev.Control,
				Alt:     ev.Alt,
				Command: ev.Super,
			}
		}
		return nil, EffectNone

	case platform.MenuActivated:
		if t.commands.IsQuit(ev.ID) {
			return nil, EffectClose
		}
		path, ok := t.commands.Lookup(ev.ID)
		if !ok {
			events.Menu.Miss(int(ev.ID))
			return nil, EffectNone
		}
		events.Menu.Activate(int(ev.ID), path)
		return event.Command{Path: path}, EffectNone
	}
	return nil, EffectNone
}

func (t *Translator) mouseInput(ev platform.MouseInput) (event.Event, Effect) {
	switch ev.Button {
	case platform.ButtonLeft, platform.ButtonRight, platform.ButtonMiddle:
	default:
		events.Input.DropButton(int(ev.Button))
		return nil, EffectNone
	}
	if ev.State == platform.Pressed {
		t.button = ev.Button
		t.pressed = true
		return event.PointerDown{ID: PointerID, Position: t.cursor}, EffectNone
	}
	t.pressed = false
	return event.PointerUp{ID: PointerID, Position: t.cursor}, EffectNone
}

var namedKeys = map[platform.VirtualKey]event.KeyCode{
	platform.KeyReturn:    event.KeyEnter,
	platform.KeyTab:       event.KeyTab,
	platform.KeySpace:     event.KeySpace,
	platform.KeyUp:        event.KeyUp,
	platform.KeyDown:      event.KeyDown,
	platform.KeyLeft:      event.KeyLeft,
	platform.KeyRight:     event.KeyRight,
	platform.KeyHome:      event.KeyHome,
	platform.KeyEnd:       event.KeyEnd,
	platform.KeyPageUp:    event.KeyPageUp,
	platform.KeyPageDown:  event.KeyPageDown,
	platform.KeyBackspace: event.KeyBackspace,
	platform.KeyDelete:    event.KeyDelete,
	platform.KeyEscape:    event.KeyEscape,
}

func logicalKey(ev platform.KeyboardInput) (event.Key, bool) {
	if ev.Key == platform.KeyCharacter {
		if ev.Rune == ' ' {
			return event.Named(event.KeySpace), true
		}
		if ev.Rune == 0 || !unicode.IsPrint(ev.Rune) {
			return event.Key{}, false
		}
		return event.Char(ev.Rune), true
	}
	if code, ok := namedKeys[ev.Key]; ok {
		return event.Named(code), true
	}
	if ev.Key >= platform.KeyF1 && ev.Key <= platform.KeyF12 {
		return event.Function(int(ev.Key-platform.KeyF1) + 1)
	}
	return event.Key{}, false
}
