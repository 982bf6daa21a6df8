package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/carbonadmin/internal/cli/formatter"
	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/envelope"
	"github.com/alexanderramin/carbonadmin/internal/query"
	"github.com/alexanderramin/carbonadmin/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// userListView shows the paginated user list with account actions.
type userListView struct {
	state *SharedState
	list  *pagedList[domain.User]

	// Search is sent to the server; typing happens in searchInput mode.
	search      string
	searching   bool
	searchInput string
}

func newUserListView(state *SharedState) *userListView {
	return &userListView{
		state: state,
		list:  newPagedList[domain.User](),
	}
}

func (v *userListView) ID() ViewID    { return ViewUsers }
func (v *userListView) Title() string { return "Users" }

func (v *userListView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "role")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "activate/deactivate")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[ ]", "page")),
	}
}

func (v *userListView) Init() tea.Cmd {
	return v.load()
}

func (v *userListView) filtering() bool { return v.searching }

func (v *userListView) cancelPending() { v.list.cancelPending() }

func (v *userListView) load() tea.Cmd {
	users, search := v.state.App.Users, v.search
	return v.list.load(func(ctx context.Context, offset, limit int) (envelope.Page[domain.User], error) {
		return users.List(ctx, service.UserFilter{
			Search:     search,
			Pagination: query.Pagination{Limit: limit, Offset: offset},
		})
	})
}

func (v *userListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pageLoadedMsg[domain.User]:
		v.list.settle(msg)
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case tea.KeyMsg:
		if v.searching {
			return v.updateSearch(msg)
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

func (v *userListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.list.move(msg.String()) {
		return v, nil
	}

	switch msg.String() {
	case "/":
		v.searching = true
		v.searchInput = v.search
		return v, nil
	case "r":
		return v, v.load()
	case "]":
		if v.list.nextPage() {
			return v, v.load()
		}
		return v, nil
	case "[":
		if v.list.prevPage() {
			return v, v.load()
		}
		return v, nil
	}

	u, ok := v.list.selected()
	if !ok {
		return v, nil
	}
	users := v.state.App.Users

	switch msg.String() {
	case "enter":
		return v, outputCmd(formatter.FormatUser(&u))

	case "a":
		return v, func() tea.Msg {
			updated, err := users.SetActive(context.Background(), u.ID, !u.IsActive)
			if err != nil {
				return actionDone("", err)
			}
			return actionDone(fmt.Sprintf("%s %s", formatter.Bold(updated.Name), formatter.ActivePill(updated.IsActive)), nil)
		}

	case "e":
		var role string
		return v, startWizardCmd(v.state, "Role for "+u.Name, wizardSelectRole(u.Role, &role), func() tea.Cmd {
			if domain.Role(role) == u.Role {
				return nil
			}
			return func() tea.Msg {
				updated, err := users.UpdateRole(context.Background(), u.ID, domain.Role(role))
				if err != nil {
					return actionDone("", err)
				}
				return actionDone(fmt.Sprintf("%s is now %s", formatter.Bold(updated.Name), formatter.RoleBadge(updated.Role)), nil)
			}
		})

	case "x":
		var confirmed bool
		return v, startWizardCmd(v.state, "Delete user", wizardConfirm("Delete "+u.Name+"?", &confirmed), func() tea.Cmd {
			if !confirmed {
				return outputCmd(formatter.Dim("Cancelled."))
			}
			return func() tea.Msg {
				return actionDone("Deleted "+u.Name, users.Delete(context.Background(), u.ID))
			}
		})
	}
	return v, nil
}

func (v *userListView) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.searching = false
		return v, nil
	case tea.KeyEnter:
		v.searching = false
		v.search = strings.TrimSpace(v.searchInput)
		v.list.resetPage()
		return v, v.load()
	case tea.KeyBackspace:
		if len(v.searchInput) > 0 {
			v.searchInput = v.searchInput[:len(v.searchInput)-1]
		}
	case tea.KeyRunes, tea.KeySpace:
		v.searchInput += msg.String()
	}
	return v, nil
}

func (v *userListView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	switch {
	case v.searching:
		b.WriteString("  " + formatter.StyleYellow.Render("/") + " " + v.searchInput + "█\n\n")
	case v.search != "":
		b.WriteString("  " + formatter.Dim("search: ") + v.search + "\n\n")
	}
	b.WriteString(v.list.render(formatter.FormatUsers))
	return b.String()
}
