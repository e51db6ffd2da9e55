package menu

import (
	"fmt"
	"runtime"

	"github.com/atomicstack/declui/internal/command"
)

// Labels of the application submenu injected ahead of user menus.
const (
	AboutLabel = "About"
	QuitLabel  = "Quit"
)

// QuitKey is the accelerator of the application submenu's Quit item.
const QuitKey command.Key = 'q'

// ItemID identifies a materialized menu item. Values are opaque and only
// meaningful within one materialization; the CommandMap is the stable
// contract.
type ItemID int

// Modifier is an accelerator modifier.
type Modifier int

const (
	// ModNone means the item has no accelerator.
	ModNone Modifier = iota
	// ModPrimary is the platform-conventional command/control modifier.
	ModPrimary
)

// primaryLabel is swapped in tests to keep rendered accelerators stable.
var primaryLabel = func() string {
	if runtime.GOOS == "darwin" {
		return "Cmd"
	}
	return "Ctrl"
}

// Accelerator is the single key binding a leaf may carry.
type Accelerator struct {
	Modifier Modifier
	Key      command.Key
}

// AcceleratorFor returns the binding for cmd, zero when it declares no key.
func AcceleratorFor(cmd command.Info) Accelerator {
	if cmd.Key == command.NoKey {
		return Accelerator{}
	}
	return Accelerator{Modifier: ModPrimary, Key: cmd.Key}
}

// IsZero reports whether the accelerator is unset.
func (a Accelerator) IsZero() bool {
	return a.Key == command.NoKey
}

func (a Accelerator) String() string {
	if a.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s+%s", primaryLabel(), a.Key)
}

// Builder receives the materialized menu. Implementations wrap a platform
// menu; Item must hand out a fresh ItemID per call.
type Builder interface {
	Submenu(name string) Builder
	Item(name string, accel Accelerator) ItemID
}

// IDs allocates item identities for builders.
type IDs struct {
	next ItemID
}

// Next returns a fresh identity.
func (g *IDs) Next() ItemID {
	g.next++
	return g.next
}

// CommandMap resolves materialized item identities back to command paths.
// It also remembers the application submenu's items, which are not commands.
type CommandMap struct {
	paths map[ItemID]string
	about ItemID
	quit  ItemID
}

// Lookup returns the command path registered for id.
func (m CommandMap) Lookup(id ItemID) (string, bool) {
	path, ok := m.paths[id]
	return path, ok
}

// Len returns the number of command entries.
func (m CommandMap) Len() int {
	return len(m.paths)
}

// IsQuit reports whether id is the application submenu's Quit item.
func (m CommandMap) IsQuit(id ItemID) bool {
	return m.quit != 0 && id == m.quit
}

// IsAbout reports whether id is the application submenu's About item.
func (m CommandMap) IsAbout(id ItemID) bool {
	return m.about != 0 && id == m.about
}

// Materialize emits the tree into b and returns the identity table. The
// application submenu named appName comes first; user menus follow in
// compilation order. Each leaf records its original command path.
func (t *Tree) Materialize(b Builder, appName string) CommandMap {
	m := CommandMap{paths: make(map[ItemID]string)}
	app := b.Submenu(appName)
	m.about = app.Item(AboutLabel, Accelerator{})
	m.quit = app.Item(QuitLabel, Accelerator{Modifier: ModPrimary, Key: QuitKey})
	t.materialize(b, RootIndex, &m)
	return m
}

func (t *Tree) materialize(b Builder, idx int, m *CommandMap) {
	for _, c := range t.nodes[idx].Children {
		node := t.nodes[c]
		if !node.Leaf() {
			t.materialize(b.Submenu(node.Name), c, m)
			continue
		}
		id := b.Item(node.Name, AcceleratorFor(node.Command))
		m.paths[id] = node.Command.Path
	}
}

// Build compiles cmds and materializes them into b in one step.
func Build(cmds []command.Info, b Builder, appName string) CommandMap {
	return Compile(cmds).Materialize(b, appName)
}
