package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID identifies each type of view in the TUI.
type ViewID int

const (
	ViewLogin ViewID = iota
	ViewDashboard
	ViewUsers
	ViewBlog
	ViewRewards
	ViewRedemptions
	ViewActivity
	ViewForm
)

// View is the interface that all TUI views must implement.
// It extends tea.Model with navigation and help metadata.
type View interface {
	tea.Model
	ID() ViewID
	ShortHelp() []key.Binding // key hints shown in the bottom bar
	Title() string            // breadcrumb segment for this view
}

// canceler is implemented by views with requests in flight. It is called
// when the view leaves the stack.
type canceler interface {
	cancelPending()
}

// requiresAdmin reports whether entering the view needs the route guard.
// Forms are only reachable from guarded views.
func requiresAdmin(id ViewID) bool {
	switch id {
	case ViewLogin, ViewForm:
		return false
	}
	return true
}

// viewCapturesInput returns true if the active view has its own text input
// and should receive all key events (bypassing global keybindings like q/:/Esc).
func viewCapturesInput(v View) bool {
	if v == nil {
		return false
	}
	switch v.ID() {
	case ViewLogin, ViewForm:
		return true
	}
	if f, ok := v.(interface{ filtering() bool }); ok {
		return f.filtering()
	}
	return false
}
