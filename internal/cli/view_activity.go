package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/carbonadmin/internal/cli/formatter"
	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/envelope"
	"github.com/alexanderramin/carbonadmin/internal/query"
	"github.com/alexanderramin/carbonadmin/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// activityView is the read-only activity log for a time window.
type activityView struct {
	state  *SharedState
	list   *pagedList[domain.Activity]
	window query.Window
}

func newActivityView(state *SharedState) *activityView {
	return &activityView{
		state: state,
		list:  newPagedList[domain.Activity](),
	}
}

func (v *activityView) ID() ViewID    { return ViewActivity }
func (v *activityView) Title() string { return "Activity" }

func (v *activityView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "window")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[ ]", "page")),
	}
}

func (v *activityView) Init() tea.Cmd {
	return v.load()
}

func (v *activityView) cancelPending() { v.list.cancelPending() }

func (v *activityView) load() tea.Cmd {
	activities, w := v.state.App.Activities, v.window
	return v.list.load(func(ctx context.Context, offset, limit int) (envelope.Page[domain.Activity], error) {
		return activities.List(ctx, service.ActivityFilter{
			Window:     w,
			Pagination: query.Pagination{Limit: limit, Offset: offset},
		})
	})
}

func (v *activityView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pageLoadedMsg[domain.Activity]:
		v.list.settle(msg)
		return v, nil
	case refreshViewMsg:
		return v, v.load()
	case tea.KeyMsg:
		if v.list.move(msg.String()) {
			return v, nil
		}
		switch msg.String() {
		case "w":
			v.window = v.window.Next()
			v.list.resetPage()
			return v, v.load()
		case "r":
			return v, v.load()
		case "]":
			if v.list.nextPage() {
				return v, v.load()
			}
		case "[":
			if v.list.prevPage() {
				return v, v.load()
			}
		}
	}
	return v, nil
}

func (v *activityView) View() string {
	var b strings.Builder
	b.WriteString("\n  " + formatter.Dim("window: ") + v.window.Label() + "\n\n")
	now := v.state.App.now()
	b.WriteString(v.list.render(func(items []domain.Activity) string {
		return formatter.FormatActivities(items, now)
	}))
	return b.String()
}
