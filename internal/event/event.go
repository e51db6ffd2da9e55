// Package event defines the toolkit's logical input vocabulary. Platform
// adapters never hand raw events to views; the input translator maps them
// onto these types first.
package event

import "fmt"

// Point is a position in logical units with y increasing upward.
type Point struct {
	X float64
	Y float64
}

// Modifiers is the keyboard modifier state.
type Modifiers struct {
	Shift   bool
	Control bool
	Alt     bool
	Command bool
}

// Event is a logical event. The set of implementations is closed.
type Event interface {
	isEvent()
}

// PointerDown is a button press. ID is always 0: one pointer stream.
type PointerDown struct {
	ID       int
	Position Point
}

// PointerMove reports the pointer's new position.
type PointerMove struct {
	ID       int
	Position Point
}

// PointerUp is a button release.
type PointerUp struct {
	ID       int
	Position Point
}

// KeyPress is a key press mapped onto the logical key set.
type KeyPress struct {
	Key       Key
	Modifiers Modifiers
}

// Command is a menu or accelerator activation.
type Command struct {
	Path string
}

// WindowResize reports a new logical window size.
type WindowResize struct {
	Width  float64
	Height float64
}

func (PointerDown) isEvent()  {}
func (PointerMove) isEvent()  {}
func (PointerUp) isEvent()    {}
func (KeyPress) isEvent()     {}
func (Command) isEvent()      {}
func (WindowResize) isEvent() {}

// KeyCode enumerates the named keys; printable characters use KeyCharacter.
type KeyCode int

const (
	KeyCharacter KeyCode = iota
	KeyEnter
	KeyTab
	KeySpace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyBackspace
	KeyDelete
	KeyEscape
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

var keyNames = map[KeyCode]string{
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeySpace:     "space",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdown",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyEscape:    "esc",
}

// Key is a logical key. Rune is set only for KeyCharacter.
type Key struct {
	Code KeyCode
	Rune rune
}

// Char builds a printable-character key.
func Char(r rune) Key {
	return Key{Code: KeyCharacter, Rune: r}
}

// Named builds a non-character key.
func Named(code KeyCode) Key {
	return Key{Code: code}
}

// Function returns the key for F<n>, n in 1..12.
func Function(n int) (Key, bool) {
	if n < 1 || n > 12 {
		return Key{}, false
	}
	return Key{Code: KeyF1 + KeyCode(n-1)}, true
}

func (k Key) String() string {
	if k.Code == KeyCharacter {
		return string(k.Rune)
	}
	if k.Code >= KeyF1 && k.Code <= KeyF12 {
		return fmt.Sprintf("f%d", int(k.Code-KeyF1)+1)
	}
	if name, ok := keyNames[k.Code]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", int(k.Code))
}
