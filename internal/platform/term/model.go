package term

import (
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/atomicstack/declui/internal/loop"
	"github.com/atomicstack/declui/internal/platform"
	tea "github.com/charmbracelet/bubbletea"
)

// wakeMsg tells the program that work is queued.
type wakeMsg struct{}

// waker sends at most one wakeMsg at a time. Send is called from a fresh
// goroutine because Wake may run inside Update, where a blocking Send
// would deadlock the program.
type waker struct {
	send    func(tea.Msg)
	pending atomic.Bool
}

func (w *waker) Wake() {
	if w.pending.CompareAndSwap(false, true) {
		go w.send(wakeMsg{})
	}
}

func (w *waker) clear() {
	w.pending.Store(false)
}

type msgHandler func(tea.Msg) []platform.Event

// model adapts the driver to Bubble Tea: each message becomes a batch of
// raw events pumped through the driver, and View shows the last frame.
type model struct {
	driver   *loop.Driver
	win      *Window
	surface  *Surface
	waker    *waker
	mods     platform.ModifiersChanged
	handlers map[reflect.Type]msgHandler
	done     bool
}

func newModel(d *loop.Driver, win *Window, surface *Surface) *model {
	m := &model{driver: d, win: win, surface: surface, waker: &waker{send: func(tea.Msg) {}}}
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(wakeMsg{}):           m.handleWake,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSize,
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKey,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouse,
	}
	return m
}

// Init is part of the tea.Model interface.
func (m *model) Init() tea.Cmd {
	return m.titleCmd()
}

// Update is part of the tea.Model interface.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}
	h, ok := m.handlers[reflect.TypeOf(msg)]
	if !ok {
		return m, nil
	}
	raws := h(msg)
	if len(raws) == 0 {
		return m, m.titleCmd()
	}
	if !m.driver.Pump(raws...) {
		m.done = true
		return m, tea.Quit
	}
	return m, m.titleCmd()
}

// View is part of the tea.Model interface.
func (m *model) View() string {
	if m.done {
		return ""
	}
	bar := m.win.MenuBar()
	frame := strings.Split(m.surface.Frame(), "\n")
	frame = bar.overlay(frame, m.win.width)
	return bar.Bar(m.win.width) + "\n" + strings.Join(frame, "\n")
}

func (m *model) titleCmd() tea.Cmd {
	if title, ok := m.win.takeTitle(); ok {
		return tea.SetWindowTitle(title)
	}
	return nil
}

func (m *model) handleWake(tea.Msg) []platform.Event {
	m.waker.clear()
	return []platform.Event{platform.Wake{}}
}

func (m *model) handleWindowSize(msg tea.Msg) []platform.Event {
	size := msg.(tea.WindowSizeMsg)
	return []platform.Event{m.win.resize(size.Width, size.Height)}
}

func (m *model) handleKey(msg tea.Msg) []platform.Event {
	km := msg.(tea.KeyMsg)
	bar := m.win.MenuBar()
	if id, activated, handled := bar.Navigate(km); handled {
		if activated {
			return []platform.Event{platform.MenuActivated{ID: id}}
		}
		return nil
	}
	if id, ok := bar.Match(km); ok {
		return []platform.Event{platform.MenuActivated{ID: id}}
	}
	if km.Type == tea.KeyCtrlC {
		return []platform.Event{platform.CloseRequested{}}
	}

	var raws []platform.Event
	input, ctrl := keyboardInput(km)
	if mods := (platform.ModifiersChanged{Control: ctrl, Alt: km.Alt}); mods != m.mods {
		m.mods = mods
		raws = append(raws, mods)
	}
	if input.Key != platform.KeyUnknown {
		raws = append(raws, input)
	}
	return raws
}

// Cell coordinates are reported at the cell centre so a click lands inside
// the rectangle drawn in that cell.
func (m *model) handleMouse(msg tea.Msg) []platform.Event {
	mm := msg.(tea.MouseMsg)
	if mm.Y < menuRows {
		return nil
	}
	raws := []platform.Event{}
	if mods := (platform.ModifiersChanged{Shift: mm.Shift, Control: mm.Ctrl, Alt: mm.Alt}); mods != m.mods {
		m.mods = mods
		raws = append(raws, mods)
	}
	raws = append(raws, platform.CursorMoved{
		X: float64(mm.X) + 0.5,
		Y: float64(mm.Y-menuRows) + 0.5,
	})
	switch mm.Action {
	case tea.MouseActionPress:
		if button, ok := mouseButton(mm.Button); ok {
			raws = append(raws, platform.MouseInput{State: platform.Pressed, Button: button})
		}
	case tea.MouseActionRelease:
		if button, ok := mouseButton(mm.Button); ok {
			raws = append(raws, platform.MouseInput{State: platform.Released, Button: button})
		}
	}
	return raws
}

func mouseButton(b tea.MouseButton) (platform.MouseButton, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return platform.ButtonLeft, true
	case tea.MouseButtonRight:
		return platform.ButtonRight, true
	case tea.MouseButtonMiddle:
		return platform.ButtonMiddle, true
	case tea.MouseButtonNone:
		// Terminals often omit the button on release.
		return platform.ButtonLeft, true
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown, tea.MouseButtonWheelLeft, tea.MouseButtonWheelRight:
		return 0, false
	default:
		return platform.ButtonOther, true
	}
}

var namedKeys = map[tea.KeyType]platform.VirtualKey{
	tea.KeyEnter:     platform.KeyReturn,
	tea.KeyTab:       platform.KeyTab,
	tea.KeySpace:     platform.KeySpace,
	tea.KeyUp:        platform.KeyUp,
	tea.KeyDown:      platform.KeyDown,
	tea.KeyLeft:      platform.KeyLeft,
	tea.KeyRight:     platform.KeyRight,
	tea.KeyHome:      platform.KeyHome,
	tea.KeyEnd:       platform.KeyEnd,
	tea.KeyPgUp:      platform.KeyPageUp,
	tea.KeyPgDown:    platform.KeyPageDown,
	tea.KeyBackspace: platform.KeyBackspace,
	tea.KeyDelete:    platform.KeyDelete,
	tea.KeyEsc:       platform.KeyEscape,
	tea.KeyInsert:    platform.KeyInsert,
}

// keyboardInput maps a key message onto a pressed KeyboardInput and
// reports whether ctrl was held. Unmappable keys come back as KeyUnknown.
func keyboardInput(km tea.KeyMsg) (platform.KeyboardInput, bool) {
	in := platform.KeyboardInput{State: platform.Pressed}
	if vk, ok := namedKeys[km.Type]; ok {
		in.Key = vk
		return in, false
	}
	switch {
	case km.Type == tea.KeyRunes && len(km.Runes) == 1:
		in.Key = platform.KeyCharacter
		in.Rune = km.Runes[0]
		return in, false
	case km.Type <= tea.KeyF1 && km.Type >= tea.KeyF20:
		// Function key types count downwards.
		in.Key = platform.KeyF1 + platform.VirtualKey(tea.KeyF1-km.Type)
		return in, false
	case km.Type >= tea.KeyCtrlA && km.Type <= tea.KeyCtrlZ:
		in.Key = platform.KeyCharacter
		in.Rune = 'a' + rune(km.Type-tea.KeyCtrlA)
		return in, true
	}
	return in, false
}
