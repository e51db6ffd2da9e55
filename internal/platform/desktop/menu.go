package desktop

import (
	"strings"
	"unicode"

	"fyne.io/fyne/v2"
	fynedesktop "fyne.io/fyne/v2/driver/desktop"

	"github.com/atomicstack/declui/internal/command"
	"github.com/atomicstack/declui/internal/menu"
)

// looseTitle names the menu collecting top-level items, which a Fyne main
// menu cannot hold directly.
const looseTitle = "Commands"

// MenuBuilder materializes the command tree as a Fyne main menu. Item
// actions report their identity through activate.
type MenuBuilder struct {
	root     *mainMenu
	menu     *fyne.Menu
	activate func(menu.ItemID)
}

type mainMenu struct {
	menus     []*fyne.Menu
	app       *fyne.Menu
	loose     *fyne.Menu
	shortcuts []shortcut
	ids       menu.IDs
}

type shortcut struct {
	key *fynedesktop.CustomShortcut
	id  menu.ItemID
}

// NewMenuBuilder returns an empty root builder.
func NewMenuBuilder(activate func(menu.ItemID)) *MenuBuilder {
	if activate == nil {
		activate = func(menu.ItemID) {}
	}
	return &MenuBuilder{root: &mainMenu{}, activate: activate}
}

// Submenu implements menu.Builder.
func (b *MenuBuilder) Submenu(name string) menu.Builder {
	child := fyne.NewMenu(name)
	if b.menu == nil {
		b.root.menus = append(b.root.menus, child)
		if b.root.app == nil {
			b.root.app = child
		}
	} else {
		item := fyne.NewMenuItem(name, nil)
		item.ChildMenu = child
		b.menu.Items = append(b.menu.Items, item)
	}
	return &MenuBuilder{root: b.root, menu: child, activate: b.activate}
}

// Item implements menu.Builder.
func (b *MenuBuilder) Item(name string, accel menu.Accelerator) menu.ItemID {
	id := b.root.ids.Next()
	activate := b.activate
	item := fyne.NewMenuItem(name, func() { activate(id) })
	if !accel.IsZero() {
		sc := Shortcut(accel)
		item.Shortcut = sc
		b.root.shortcuts = append(b.root.shortcuts, shortcut{key: sc, id: id})
	}
	target := b.menu
	if target == nil {
		if b.root.loose == nil {
			b.root.loose = fyne.NewMenu(looseTitle)
			b.root.menus = append(b.root.menus, b.root.loose)
		}
		target = b.root.loose
	}
	item.IsQuit = target == b.root.app && name == menu.QuitLabel
	target.Items = append(target.Items, item)
	return id
}

// MainMenu returns the menu to attach to a window.
func (b *MenuBuilder) MainMenu() *fyne.MainMenu {
	return fyne.NewMainMenu(b.root.menus...)
}

// Shortcut maps an accelerator onto the platform's primary modifier.
func Shortcut(a menu.Accelerator) *fynedesktop.CustomShortcut {
	return &fynedesktop.CustomShortcut{KeyName: keyName(a.Key), Modifier: fyne.KeyModifierShortcutDefault}
}

var punctuationKeys = map[command.Key]fyne.KeyName{
	'=':  fyne.KeyEqual,
	'-':  fyne.KeyMinus,
	',':  fyne.KeyComma,
	'.':  fyne.KeyPeriod,
	'/':  fyne.KeySlash,
	';':  fyne.KeySemicolon,
	'\'': fyne.KeyApostrophe,
	'[':  fyne.KeyLeftBracket,
	']':  fyne.KeyRightBracket,
	'\\': fyne.KeyBackslash,
	'`':  fyne.KeyBackTick,
	' ':  fyne.KeySpace,
}

func keyName(k command.Key) fyne.KeyName {
	if name, ok := punctuationKeys[k]; ok {
		return name
	}
	return fyne.KeyName(strings.ToUpper(string(unicode.ToUpper(rune(k)))))
}
