package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type panelID int

const (
	panelSettings panelID = iota
	panelAbout
	panelError
)

func (id panelID) String() string {
	switch id {
	case panelSettings:
		return "settings"
	case panelAbout:
		return "about"
	case panelError:
		return "error"
	default:
		return "unknown"
	}
}

// viewContext carries the model state a panel needs to render.
type viewContext struct {
	styles Styles
	width  int
	height int
	zone   string
	muted  bool
}

// panel is an overlay that takes keyboard focus while open.
type panel interface {
	ID() panelID
	// Update handles a key. The returned bool asks the registry to close the panel.
	Update(msg tea.KeyMsg, keys keyMap) (panel, tea.Cmd, bool)
	View(vc viewContext) string
}

// panels holds at most one live instance per panelID. The last opened panel
// is on top and receives keys.
type panels struct {
	stack []panel
}

// Open shows p. If a panel with the same ID is already open it is replaced
// and moved to the top; Open then reports false.
func (ps *panels) Open(p panel) bool {
	existed := ps.remove(p.ID())
	ps.stack = append(ps.stack, p)
	return !existed
}

// Close removes the panel with the given ID and reports whether it was open.
func (ps *panels) Close(id panelID) bool {
	return ps.remove(id)
}

// CloseAll removes every panel.
func (ps *panels) CloseAll() {
	ps.stack = nil
}

// IsOpen reports whether a panel with the given ID is open.
func (ps *panels) IsOpen(id panelID) bool {
	_, ok := ps.Get(id)
	return ok
}

// Get returns the open panel with the given ID.
func (ps *panels) Get(id panelID) (panel, bool) {
	for _, p := range ps.stack {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

// Top returns the panel that receives keys.
func (ps *panels) Top() (panel, bool) {
	if len(ps.stack) == 0 {
		return nil, false
	}
	return ps.stack[len(ps.stack)-1], true
}

// Len returns the number of open panels.
func (ps *panels) Len() int {
	return len(ps.stack)
}

// replace swaps in an updated instance of an open panel, keeping its position.
func (ps *panels) replace(p panel) {
	for i := range ps.stack {
		if ps.stack[i].ID() == p.ID() {
			ps.stack[i] = p
			return
		}
	}
}

func (ps *panels) remove(id panelID) bool {
	for i, p := range ps.stack {
		if p.ID() == id {
			ps.stack = append(ps.stack[:i:i], ps.stack[i+1:]...)
			return true
		}
	}
	return false
}

// renderPanel wraps content in the panel border and centers it.
func renderPanel(vc viewContext, content string) string {
	box := vc.styles.Panel.Render(content)
	if vc.width <= 0 || vc.height <= 0 {
		return box
	}
	return lipgloss.Place(vc.width, vc.height, lipgloss.Center, lipgloss.Center, box)
}
