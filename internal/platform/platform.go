// Package platform describes the windowing services the runtime consumes:
// the raw event vocabulary a platform emits and the window operations the
// event loop calls. Concrete platforms live in subpackages.
package platform

import "github.com/atomicstack/declui/internal/menu"

// Event is a raw platform event, before translation.
type Event interface {
	isRaw()
}

// CloseRequested asks the loop to terminate.
type CloseRequested struct{}

// Resized reports the new inner size in device pixels.
type Resized struct {
	Width  int
	Height int
}

// ScaleFactorChanged reports a new device-pixel ratio and the resulting
// inner size in device pixels.
type ScaleFactorChanged struct {
	Scale  float64
	Width  int
	Height int
}

// ButtonState is a press or release transition.
type ButtonState int

const (
	Pressed ButtonState = iota
	Released
)

// MouseButton identifies a pointer button.
type MouseButton int

const (
	ButtonLeft MouseButton = iota
	ButtonRight
	ButtonMiddle
	ButtonOther
)

// MouseInput is a pointer button transition.
type MouseInput struct {
	State  ButtonState
	Button MouseButton
}

// CursorMoved reports the cursor position in device pixels, origin top-left.
type CursorMoved struct {
	X float64
	Y float64
}

// VirtualKey is the platform's key identity.
type VirtualKey int

const (
	KeyUnknown VirtualKey = iota
	// KeyCharacter carries text in KeyboardInput.Rune.
	KeyCharacter
	KeyReturn
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
	KeyInsert
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
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20
)

// KeyboardInput is a key transition.
type KeyboardInput struct {
	State ButtonState
	Key   VirtualKey
	Rune  rune
}

// ModifiersChanged carries the complete modifier state after a change.
type ModifiersChanged struct {
	Shift   bool
	Control bool
	Alt     bool
	Super   bool
}

// MenuActivated reports a menu item selection.
type MenuActivated struct {
	ID menu.ItemID
}

// MainEventsCleared is emitted once pending platform events are delivered.
type MainEventsCleared struct{}

// RedrawRequested asks for a frame.
type RedrawRequested struct{}

// Wake is delivered when the loop proxy signals queued work.
type Wake struct{}

func (CloseRequested) isRaw()     {}
func (Resized) isRaw()            {}
func (ScaleFactorChanged) isRaw() {}
func (MouseInput) isRaw()         {}
func (CursorMoved) isRaw()        {}
func (KeyboardInput) isRaw()      {}
func (ModifiersChanged) isRaw()   {}
func (MenuActivated) isRaw()      {}
func (MainEventsCleared) isRaw()  {}
func (RedrawRequested) isRaw()    {}
func (Wake) isRaw()               {}

// Size is an inner window size in device pixels.
type Size struct {
	Width  int
	Height int
}

// Window is the set of window operations the runtime depends on.
type Window interface {
	SetTitle(title string)
	// NewMenu returns an empty root menu builder for this window.
	NewMenu() menu.Builder
	// SetMenu attaches a root previously returned by NewMenu.
	SetMenu(root menu.Builder)
	ScaleFactor() float64
	InnerSize() Size
	RequestRedraw()
}

// Source delivers raw events and wake signals on channels, for platforms
// whose event pump runs in its own goroutine. Platforms that own the main
// loop call the driver directly instead.
type Source interface {
	Events() <-chan Event
	Wakes() <-chan struct{}
}
