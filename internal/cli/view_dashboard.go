package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/carbonadmin/internal/cli/formatter"
	"github.com/alexanderramin/carbonadmin/internal/query"
	"github.com/alexanderramin/carbonadmin/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ── messages ─────────────────────────────────────────────────────────────────

// dashboardLoadedMsg signals that dashboard data has been loaded.
type dashboardLoadedMsg struct {
	owner *dashboardView
	gen   int
	data  *service.Dashboard
}

func (dashboardLoadedMsg) loadResult() {}

// windowChosenMsg carries a custom window picked in the range form.
type windowChosenMsg struct {
	window query.Window
}

// ── view ─────────────────────────────────────────────────────────────────────

// dashboardView is the home screen of the TUI: headline counters, the CO2
// chart and the leaderboard for one time window.
type dashboardView struct {
	state   *SharedState
	window  query.Window
	data    *service.Dashboard
	loading bool

	gen    int
	cancel context.CancelFunc
}

func newDashboardView(state *SharedState) *dashboardView {
	return &dashboardView{
		state:   state,
		loading: true,
	}
}

func (v *dashboardView) ID() ViewID    { return ViewDashboard }
func (v *dashboardView) Title() string { return "Dashboard" }

func (v *dashboardView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "window")),
		key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "custom range")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		key.NewBinding(key.WithKeys("1"), key.WithHelp("1-5", "users/blog/rewards/redemptions/activity")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func (v *dashboardView) Init() tea.Cmd {
	return v.loadData()
}

// ── data loading ─────────────────────────────────────────────────────────────

// loadData fetches all three datasets for the current window. A newer load
// cancels this one and its result is dropped.
func (v *dashboardView) loadData() tea.Cmd {
	v.cancelPending()
	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	v.gen++
	v.loading = true

	app, w, gen := v.state.App, v.window, v.gen
	return func() tea.Msg {
		return dashboardLoadedMsg{owner: v, gen: gen, data: app.Dashboard.Load(ctx, w, service.DefaultLeaderboardLimit)}
	}
}

func (v *dashboardView) cancelPending() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

// ── update ───────────────────────────────────────────────────────────────────

func (v *dashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		if msg.owner != v || msg.gen != v.gen {
			return v, nil
		}
		v.cancelPending()
		v.loading = false
		v.data = msg.data
		return v, nil

	case windowChosenMsg:
		v.window = msg.window
		return v, v.loadData()

	case refreshViewMsg:
		return v, v.loadData()

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *dashboardView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "w":
		v.window = v.window.Next()
		return v, v.loadData()
	case "c":
		in := &customRangeInput{From: v.window.From, To: v.window.To}
		return v, startWizardCmd(v.state, "Custom range", wizardCustomRange(in), func() tea.Cmd {
			w, err := query.ParseWindow(string(query.WindowCustom), in.From, in.To)
			if err != nil {
				return outputCmd(formatter.ErrorLine(err))
			}
			return func() tea.Msg { return windowChosenMsg{window: w} }
		})
	case "r":
		return v, v.loadData()
	case "1":
		return v, pushView(newUserListView(v.state))
	case "2":
		return v, pushView(newBlogListView(v.state))
	case "3":
		return v, pushView(newRewardListView(v.state))
	case "4":
		rv := newRedemptionListView(v.state)
		rv.window = v.window
		return v, pushView(rv)
	case "5":
		av := newActivityView(v.state)
		av.window = v.window
		return v, pushView(av)
	}
	return v, nil
}

// ── rendering ────────────────────────────────────────────────────────────────

func (v *dashboardView) View() string {
	if v.data == nil {
		return "\n  " + formatter.Dim("Loading dashboard...")
	}

	var b strings.Builder
	b.WriteString("\n")
	body := formatter.FormatDashboard(v.data)
	if v.loading {
		body = formatter.Dim("refreshing "+v.window.Label()+"...") + "\n" + body
	}
	for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}
