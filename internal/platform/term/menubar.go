package term

import (
	"strings"
	"unicode"

	"github.com/atomicstack/declui/internal/format/table"
	"github.com/atomicstack/declui/internal/menu"
	"github.com/atomicstack/declui/internal/theme"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
)

const submenuSeparator = " › "

var styles = theme.Default()

// MenuBar is a menu.Builder that renders as a one-line terminal menu bar
// with drop-down menus. Accelerators become key bindings.
type MenuBar struct {
	native   *menu.Native
	bindings *[]binding
	drop     *dropdown
}

type binding struct {
	key key.Binding
	id  menu.ItemID
}

type dropdown struct {
	open bool
	menu int
	item int
}

type row struct {
	label string
	accel string
	id    menu.ItemID
}

// NewMenuBar returns an empty root menu bar.
func NewMenuBar() *MenuBar {
	return &MenuBar{native: menu.NewNative(), bindings: new([]binding), drop: &dropdown{}}
}

// Submenu implements menu.Builder.
func (b *MenuBar) Submenu(name string) menu.Builder {
	sub := b.native.Submenu(name).(*menu.Native)
	return &MenuBar{native: sub, bindings: b.bindings, drop: b.drop}
}

// Item implements menu.Builder.
func (b *MenuBar) Item(name string, accel menu.Accelerator) menu.ItemID {
	id := b.native.Item(name, accel)
	if !accel.IsZero() {
		*b.bindings = append(*b.bindings, binding{
			key: key.NewBinding(key.WithKeys(acceleratorKeys(accel)...), key.WithHelp(accel.String(), name)),
			id:  id,
		})
	}
	return id
}

// Native exposes the menu structure.
func (b *MenuBar) Native() *menu.Native {
	return b.native
}

// Bindings returns the accelerator bindings in materialization order.
func (b *MenuBar) Bindings() []key.Binding {
	out := make([]key.Binding, 0, len(*b.bindings))
	for _, bd := range *b.bindings {
		out = append(out, bd.key)
	}
	return out
}

// Match resolves an accelerator key press to its menu item.
func (b *MenuBar) Match(msg tea.KeyMsg) (menu.ItemID, bool) {
	for _, bd := range *b.bindings {
		if key.Matches(msg, bd.key) {
			return bd.id, true
		}
	}
	return 0, false
}

// Terminals cannot report a primary modifier on every key, so alt is
// accepted alongside ctrl.
func acceleratorKeys(a menu.Accelerator) []string {
	r := string(unicode.ToLower(rune(a.Key)))
	if a.Modifier == menu.ModPrimary {
		return []string{"ctrl+" + r, "alt+" + r}
	}
	return []string{r}
}

// Open reports whether a drop-down is showing.
func (b *MenuBar) Open() bool {
	return b.drop.open
}

// Navigate handles drop-down keys. handled reports whether msg was consumed;
// activated reports that id was chosen.
func (b *MenuBar) Navigate(msg tea.KeyMsg) (id menu.ItemID, activated, handled bool) {
	if msg.Type == tea.KeyF10 {
		b.drop.open = !b.drop.open && len(b.native.Entries) > 0
		b.drop.item = 0
		return 0, false, true
	}
	if !b.drop.open {
		return 0, false, false
	}
	top := len(b.native.Entries)
	switch msg.Type {
	case tea.KeyEsc:
		b.drop.open = false
	case tea.KeyLeft:
		b.drop.menu = (b.drop.menu + top - 1) % top
		b.drop.item = 0
	case tea.KeyRight:
		b.drop.menu = (b.drop.menu + 1) % top
		b.drop.item = 0
	case tea.KeyUp:
		if b.drop.item > 0 {
			b.drop.item--
		}
	case tea.KeyDown:
		if b.drop.item < len(b.rows())-1 {
			b.drop.item++
		}
	case tea.KeyEnter:
		rows := b.rows()
		b.drop.open = false
		if b.drop.item < len(rows) {
			return rows[b.drop.item].id, true, true
		}
	}
	return 0, false, true
}

func (b *MenuBar) rows() []row {
	if b.drop.menu >= len(b.native.Entries) {
		b.drop.menu = 0
	}
	if len(b.native.Entries) == 0 {
		return nil
	}
	e := b.native.Entries[b.drop.menu]
	if e.Submenu == nil {
		return []row{{label: e.Title, accel: e.Accel.String(), id: e.ID}}
	}
	return flatten(e.Submenu, "", nil)
}

func flatten(n *menu.Native, prefix string, out []row) []row {
	for _, e := range n.Entries {
		if e.Submenu != nil {
			out = flatten(e.Submenu, prefix+e.Title+submenuSeparator, out)
			continue
		}
		out = append(out, row{label: prefix + e.Title, accel: e.Accel.String(), id: e.ID})
	}
	return out
}

// Bar renders the top-level titles, truncated and padded to width.
func (b *MenuBar) Bar(width int) string {
	if width <= 0 {
		return ""
	}
	titles := make([]string, 0, len(b.native.Entries))
	for i, e := range b.native.Entries {
		style := styles.MenuTitle
		if b.drop.open && i == b.drop.menu {
			style = styles.MenuTitleActive
		}
		titles = append(titles, style.Render(e.Title))
	}
	line := strings.Join(titles, "")
	if ansi.StringWidth(line) > width {
		line = truncate.StringWithTail(line, uint(width-1), "…")
	}
	if pad := width - ansi.StringWidth(line); pad > 0 {
		line += styles.MenuBar.Render(strings.Repeat(" ", pad))
	}
	return line
}

// titleOffset returns the column where the open menu's title starts.
func (b *MenuBar) titleOffset() int {
	col := 0
	for i := 0; i < b.drop.menu && i < len(b.native.Entries); i++ {
		col += ansi.StringWidth(styles.MenuTitle.Render(b.native.Entries[i].Title))
	}
	return col
}

// Dropdown renders the open menu as a bordered box, one line per row.
func (b *MenuBar) Dropdown() []string {
	if !b.drop.open {
		return nil
	}
	rows := b.rows()
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{r.label, r.accel}
	}
	lines := table.Format(cells, []table.Alignment{table.AlignLeft, table.AlignRight})
	for i, text := range lines {
		style := styles.MenuItem
		if i == b.drop.item {
			style = styles.MenuItemSelected
		}
		lines[i] = style.Render(" " + text + " ")
	}
	box := styles.MenuBorder.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return strings.Split(box, "\n")
}

// overlay places the open drop-down over the frame lines below the bar.
func (b *MenuBar) overlay(frame []string, width int) []string {
	box := b.Dropdown()
	if len(box) == 0 {
		return frame
	}
	col := b.titleOffset()
	for i, line := range box {
		if i >= len(frame) {
			break
		}
		boxW := ansi.StringWidth(line)
		if col+boxW > width {
			line = ansi.Truncate(line, max(width-col, 0), "")
			boxW = ansi.StringWidth(line)
		}
		left := ansi.Truncate(frame[i], col, "")
		if gap := col - ansi.StringWidth(left); gap > 0 {
			left += strings.Repeat(" ", gap)
		}
		right := ansi.TruncateLeft(frame[i], col+boxW, "")
		frame[i] = left + line + right
	}
	return frame
}
