package desktop

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	fynedesktop "fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/atomicstack/declui/internal/platform"
)

// inputLayer is a transparent widget stacked over the drawing layer. It
// turns pointer callbacks and size changes into raw events.
type inputLayer struct {
	widget.BaseWidget

	emit  func(evs ...platform.Event)
	scale func() float32
	size  fyne.Size
}

var (
	_ fynedesktop.Mouseable = (*inputLayer)(nil)
	_ fynedesktop.Hoverable = (*inputLayer)(nil)
)

func newInputLayer(emit func(evs ...platform.Event), scale func() float32) *inputLayer {
	l := &inputLayer{emit: emit, scale: scale}
	l.ExtendBaseWidget(l)
	return l
}

func (l *inputLayer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}

// Resize reports size changes in device pixels.
func (l *inputLayer) Resize(size fyne.Size) {
	l.BaseWidget.Resize(size)
	if size == l.size {
		return
	}
	l.size = size
	s := l.scale()
	l.emit(platform.Resized{Width: int(size.Width * s), Height: int(size.Height * s)})
}

func (l *inputLayer) cursor(pos fyne.Position) platform.CursorMoved {
	s := l.scale()
	return platform.CursorMoved{X: float64(pos.X * s), Y: float64(pos.Y * s)}
}

func (l *inputLayer) MouseDown(ev *fynedesktop.MouseEvent) {
	l.emit(l.cursor(ev.Position), platform.MouseInput{State: platform.Pressed, Button: mouseButton(ev.Button)})
}

func (l *inputLayer) MouseUp(ev *fynedesktop.MouseEvent) {
	l.emit(l.cursor(ev.Position), platform.MouseInput{State: platform.Released, Button: mouseButton(ev.Button)})
}

func (l *inputLayer) MouseIn(ev *fynedesktop.MouseEvent) {
	l.emit(l.cursor(ev.Position))
}

func (l *inputLayer) MouseMoved(ev *fynedesktop.MouseEvent) {
	l.emit(l.cursor(ev.Position))
}

func (l *inputLayer) MouseOut() {}

func mouseButton(b fynedesktop.MouseButton) platform.MouseButton {
	switch b {
	case fynedesktop.MouseButtonPrimary:
		return platform.ButtonLeft
	case fynedesktop.MouseButtonSecondary:
		return platform.ButtonRight
	case fynedesktop.MouseButtonTertiary:
		return platform.ButtonMiddle
	default:
		return platform.ButtonOther
	}
}

// keyboard tracks modifier keys from key down/up callbacks and converts
// typed keys and runes.
type keyboard struct {
	emit func(evs ...platform.Event)
	mods platform.ModifiersChanged
}

var namedKeys = map[fyne.KeyName]platform.VirtualKey{
	fyne.KeyReturn:    platform.KeyReturn,
	fyne.KeyEnter:     platform.KeyReturn,
	fyne.KeyTab:       platform.KeyTab,
	fyne.KeyUp:        platform.KeyUp,
	fyne.KeyDown:      platform.KeyDown,
	fyne.KeyLeft:      platform.KeyLeft,
	fyne.KeyRight:     platform.KeyRight,
	fyne.KeyHome:      platform.KeyHome,
	fyne.KeyEnd:       platform.KeyEnd,
	fyne.KeyPageUp:    platform.KeyPageUp,
	fyne.KeyPageDown:  platform.KeyPageDown,
	fyne.KeyBackspace: platform.KeyBackspace,
	fyne.KeyDelete:    platform.KeyDelete,
	fyne.KeyEscape:    platform.KeyEscape,
	fyne.KeyInsert:    platform.KeyInsert,
	fyne.KeyF1:        platform.KeyF1,
	fyne.KeyF2:        platform.KeyF2,
	fyne.KeyF3:        platform.KeyF3,
	fyne.KeyF4:        platform.KeyF4,
	fyne.KeyF5:        platform.KeyF5,
	fyne.KeyF6:        platform.KeyF6,
	fyne.KeyF7:        platform.KeyF7,
	fyne.KeyF8:        platform.KeyF8,
	fyne.KeyF9:        platform.KeyF9,
	fyne.KeyF10:       platform.KeyF10,
	fyne.KeyF11:       platform.KeyF11,
	fyne.KeyF12:       platform.KeyF12,
}

// Printable keys arrive through typedRune; typedKey only forwards the rest.
func (k *keyboard) typedKey(ev *fyne.KeyEvent) {
	if vk, ok := namedKeys[ev.Name]; ok {
		k.emit(platform.KeyboardInput{State: platform.Pressed, Key: vk})
	}
}

func (k *keyboard) typedRune(r rune) {
	k.emit(platform.KeyboardInput{State: platform.Pressed, Key: platform.KeyCharacter, Rune: r})
}

func (k *keyboard) keyDown(ev *fyne.KeyEvent) {
	k.modifier(ev.Name, true)
}

func (k *keyboard) keyUp(ev *fyne.KeyEvent) {
	k.modifier(ev.Name, false)
}

func (k *keyboard) modifier(name fyne.KeyName, down bool) {
	next := k.mods
	switch name {
	case fynedesktop.KeyShiftLeft, fynedesktop.KeyShiftRight:
		next.Shift = down
	case fynedesktop.KeyControlLeft, fynedesktop.KeyControlRight:
		next.Control = down
	case fynedesktop.KeyAltLeft, fynedesktop.KeyAltRight:
		next.Alt = down
	case fynedesktop.KeySuperLeft, fynedesktop.KeySuperRight:
		next.Super = down
	default:
		return
	}
	if next != k.mods {
		k.mods = next
		k.emit(next)
	}
}
