package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/carbonadmin/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// loginResultMsg reports the outcome of a login attempt.
type loginResultMsg struct {
	err error
}

// loginView is the only view reachable without a session. Redirects land
// here with a notice explaining why.
type loginView struct {
	state  *SharedState
	form   *huh.Form
	email  string
	pass   string
	notice string
	err    string

	submitting bool
}

func newLoginView(state *SharedState, notice string) *loginView {
	v := &loginView{state: state, notice: notice}
	v.form = newLoginForm(&v.email, &v.pass)
	return v
}

func (v *loginView) ID() ViewID    { return ViewLogin }
func (v *loginView) Title() string { return "Login" }

func (v *loginView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (v *loginView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *loginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(loginResultMsg); ok {
		return v, v.finish(res)
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State == huh.StateCompleted && !v.submitting {
		v.submitting = true
		return v, tea.Batch(cmd, v.submit())
	}
	return v, cmd
}

// submit sends the entered credentials to the session store.
func (v *loginView) submit() tea.Cmd {
	sessions := v.state.App.Sessions
	email, pass := strings.TrimSpace(v.email), v.pass
	return func() tea.Msg {
		_, err := sessions.Login(context.Background(), email, pass)
		return loginResultMsg{err: err}
	}
}

// finish moves to the dashboard on success. A failure is shown inline and
// the form is rebuilt with the email kept and the password cleared.
func (v *loginView) finish(res loginResultMsg) tea.Cmd {
	v.submitting = false
	if res.err == nil {
		return resetStack(newDashboardView(v.state))
	}
	v.notice = ""
	v.err = authMessage(res.err)
	v.pass = ""
	v.form = newLoginForm(&v.email, &v.pass)
	return v.form.Init()
}

func (v *loginView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(formatter.Header("Sign in") + "\n\n")
	if v.notice != "" {
		b.WriteString("  " + formatter.StyleYellow.Render(v.notice) + "\n\n")
	}
	if v.err != "" {
		b.WriteString("  " + formatter.StyleRed.Render(v.err) + "\n\n")
	}
	if v.submitting {
		b.WriteString("  " + formatter.Dim("Signing in...") + "\n")
		return b.String()
	}
	b.WriteString(v.form.View())
	return b.String()
}
