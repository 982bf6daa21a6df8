package cli

import (
	"fmt"

	"github.com/alexanderramin/carbonadmin/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// outputPane shows transient text (command results, action errors) in
// place of the active view until the next non-scroll key dismisses it.
type outputPane struct {
	vp     viewport.Model
	text   string
	active bool
}

func newOutputPane() outputPane {
	vp := viewport.New(0, 0)
	// Letter keys must reach the views, so only arrows and paging scroll.
	vp.KeyMap = viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("up")),
		Down:         key.NewBinding(key.WithKeys("down")),
	}
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3
	return outputPane{vp: vp}
}

func (o *outputPane) show(text string, width, height int) {
	o.text = text
	o.active = true
	o.vp.SetContent(text)
	o.resize(width, height)
	o.vp.GotoTop()
}

func (o *outputPane) clear() {
	o.text = ""
	o.active = false
}

func (o *outputPane) resize(width, height int) {
	if !o.active {
		return
	}
	o.vp.Width = width
	o.vp.Height = height
}

func (o *outputPane) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	o.vp, cmd = o.vp.Update(msg)
	return cmd
}

// overflows reports whether the text is taller than the pane.
func (o *outputPane) overflows() bool {
	return o.active && o.vp.TotalLineCount() > o.vp.Height
}

// render falls back to the raw text before the terminal size is known.
func (o *outputPane) render(sized bool) string {
	if o.active && sized {
		return o.vp.View()
	}
	return o.text
}

func (o *outputPane) position() string {
	switch {
	case o.vp.AtTop():
		return formatter.Dim("[TOP]")
	case o.vp.AtBottom():
		return formatter.Dim("[END]")
	}
	return formatter.Dim(fmt.Sprintf("[%d%%]", int(o.vp.ScrollPercent()*100)))
}

func isScrollKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown,
		tea.KeyHome, tea.KeyEnd, tea.KeyCtrlU, tea.KeyCtrlD:
		return true
	}
	return false
}
