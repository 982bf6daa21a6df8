package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/carbonadmin/internal/cli/formatter"
	"github.com/alexanderramin/carbonadmin/internal/guard"
	"github.com/alexanderramin/carbonadmin/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

// appModel is the root bubbletea model: a stack of views under a header,
// with a status bar and the command bar at the bottom.
type appModel struct {
	state    *SharedState
	stack    []View
	cmdBar   commandBar
	output   outputPane
	quitting bool
}

func newAppModel(app *App) appModel {
	state := &SharedState{App: app}
	m := appModel{
		state:  state,
		cmdBar: newCommandBar(state),
		output: newOutputPane(),
	}

	// A restored session that still passes the guard skips the login form.
	if res := app.Guard.Check(context.Background()); res.Allowed() {
		m.stack = []View{newDashboardView(state)}
	} else {
		m.stack = []View{newLoginView(state, loginNotice(res))}
	}
	return m
}

// loginNotice explains a redirect to the login view. A plain missing
// session needs no explanation.
func loginNotice(res guard.Result) string {
	switch res.Reason {
	case guard.ReasonTokenExpired:
		return session.ReasonExpired
	case guard.ReasonNotAdmin:
		return res.Message()
	}
	return ""
}

func (m *appModel) activeView() View {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

// forward hands msg to the top view and stores the updated model.
func (m *appModel) forward(msg tea.Msg) tea.Cmd {
	v := m.activeView()
	if v == nil {
		return nil
	}
	updated, cmd := v.Update(msg)
	m.stack[len(m.stack)-1] = updated.(View)
	return cmd
}

// broadcast delivers msg to every view on the stack, bottom first.
func (m *appModel) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.stack))
	for i, v := range m.stack {
		updated, cmd := v.Update(msg)
		m.stack[i] = updated.(View)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// admit runs the route guard before v is entered. On refusal the stack is
// already replaced by the login view and the returned command starts it.
func (m *appModel) admit(v View) (tea.Cmd, bool) {
	if !requiresAdmin(v.ID()) {
		return nil, true
	}
	res := m.state.App.Guard.Check(context.Background())
	if res.Allowed() {
		return nil, true
	}
	return m.toLogin(loginNotice(res)), false
}

// enter makes v the top view. With replace set, every current view is
// dropped first.
func (m *appModel) enter(v View, replace bool) tea.Cmd {
	if cmd, ok := m.admit(v); !ok {
		return cmd
	}
	if replace {
		m.drop(m.stack)
		m.stack = nil
	}
	m.cmdBar.Blur()
	m.output.clear()
	m.stack = append(m.stack, v)
	return v.Init()
}

func (m *appModel) toLogin(notice string) tea.Cmd {
	m.drop(m.stack)
	m.cmdBar.Blur()
	m.output.clear()
	v := newLoginView(m.state, notice)
	m.stack = []View{v}
	return v.Init()
}

// back pops the top view. The view underneath is guarded like any other
// entry, since the session may have lapsed while it was covered.
func (m *appModel) back() tea.Cmd {
	if len(m.stack) < 2 {
		return nil
	}
	top := len(m.stack) - 1
	m.drop(m.stack[top:])
	m.stack = m.stack[:top]
	m.output.clear()
	cmd, _ := m.admit(m.activeView())
	return cmd
}

func (m *appModel) quit() tea.Cmd {
	m.quitting = true
	m.drop(m.stack)
	return tea.Quit
}

// drop cancels the in-flight requests of views leaving the stack.
func (m *appModel) drop(views []View) {
	for _, v := range views {
		if c, ok := v.(canceler); ok {
			c.cancelPending()
		}
	}
}

func (m *appModel) showOutput(text string) {
	m.output.show(text, m.state.Width, m.state.ContentHeight())
}

func (m appModel) Init() tea.Cmd {
	if v := m.activeView(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, cmd
}

func (m *appModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.Width, m.state.Height = msg.Width, msg.Height
		m.cmdBar.SetWidth(msg.Width)
		m.output.resize(msg.Width, m.state.ContentHeight())
		return m.forward(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.output.active {
			return m.output.update(msg)
		}

	case pushViewMsg:
		return m.enter(msg.view, false)

	case resetStackMsg:
		return m.enter(msg.view, true)

	case sessionExpiredMsg:
		return m.toLogin(msg.reason)

	case loggedOutMsg:
		if msg.err != nil {
			m.showOutput(formatter.ErrorLine(msg.err))
			return nil
		}
		return m.toLogin(session.ReasonLogout)

	case refreshViewMsg:
		// Lists under a form reload after the form's mutation.
		return m.broadcast(msg)

	case cmdOutputMsg:
		m.showOutput(msg.output)
		return nil

	case actionDoneMsg:
		if msg.err != nil {
			m.showOutput(formatter.ErrorLine(msg.err))
			return nil
		}
		if msg.output != "" {
			m.showOutput(msg.output)
		}
		return m.broadcast(refreshViewMsg{})

	case wizardCompleteMsg:
		// The wizard leaves and its follow-up runs in the same update.
		if len(m.stack) > 1 {
			m.stack = m.stack[:len(m.stack)-1]
		}
		m.output.clear()
		return msg.nextCmd

	case quitMsg:
		return m.quit()
	}

	// A view may have been covered by a form while its load was in flight.
	if r, ok := msg.(loadResult); ok {
		return m.broadcast(r)
	}

	if m.cmdBar.Focused() {
		return m.cmdBar.UpdateNonKey(msg)
	}
	return m.forward(msg)
}

func (m *appModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	if m.cmdBar.Focused() {
		if msg.Type == tea.KeyEnter {
			m.output.clear()
		}
		return m.cmdBar.Update(msg)
	}

	// Scroll keys move the output; anything else dismisses it and is then
	// handled normally.
	if m.output.active {
		if isScrollKey(msg) {
			return m.output.update(msg)
		}
		m.output.clear()
	}

	if viewCapturesInput(m.activeView()) {
		return m.forward(msg)
	}

	switch {
	case msg.String() == ":":
		m.cmdBar.Focus()
		return nil
	case msg.String() == "q":
		return m.quit()
	case msg.Type == tea.KeyEsc:
		return m.back()
	}
	return m.forward(msg)
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	body := m.output.render(m.state.Height > 0)
	if body == "" {
		if v := m.activeView(); v != nil {
			body = v.View()
		}
	}

	screen := strings.Join([]string{
		m.renderHeader(),
		body,
		m.renderStatusBar(),
		m.cmdBar.View(),
	}, "\n")

	// The alt-screen renderer diffs lines, so short frames are padded to
	// the full height to overwrite what was there before.
	if m.state.Height > 0 {
		if lines := strings.Count(screen, "\n") + 1; lines < m.state.Height {
			screen += strings.Repeat("\n", m.state.Height-lines)
		}
	}
	return screen
}

func (m *appModel) renderHeader() string {
	header := formatter.StyleGreen.Bold(true).Render("carbonadmin")

	crumbs := make([]string, 0, len(m.stack))
	for _, v := range m.stack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	if len(crumbs) > 0 {
		header += " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}

	if p := m.state.App.Sessions.Current().Principal; p != nil {
		header += "  " + formatter.Dim("[") + formatter.StyleFg.Render(p.Name) +
			" " + formatter.RoleBadge(p.Role) + formatter.Dim("]")
	}
	return header + "\n" + m.rule()
}

func (m *appModel) renderStatusBar() string {
	var hints []string
	switch {
	case m.output.overflows():
		hints = append(hints,
			m.output.position(),
			formatter.Dim("↑↓ pgup/pgdn: scroll"),
			formatter.Dim("esc: dismiss"))
	case !m.output.active:
		if v := m.activeView(); v != nil {
			for _, b := range v.ShortHelp() {
				hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
			}
		}
	}

	if !m.cmdBar.Focused() && !m.output.active && !viewCapturesInput(m.activeView()) {
		if len(m.stack) > 1 {
			hints = append(hints, formatter.Dim("esc: back"))
		}
		hints = append(hints, formatter.Dim(": command"))
	}
	return m.rule() + "\n" + strings.Join(hints, "  ")
}

func (m *appModel) rule() string {
	return formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
}
