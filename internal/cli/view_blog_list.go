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

// blogStatusCycle is the order the status filter steps through.
var blogStatusCycle = []domain.BlogStatus{"", domain.BlogDraft, domain.BlogPublished}

// blogListView lists blog posts and drives create/publish/delete.
type blogListView struct {
	state  *SharedState
	list   *pagedList[domain.BlogPost]
	status domain.BlogStatus
}

func newBlogListView(state *SharedState) *blogListView {
	return &blogListView{
		state: state,
		list:  newPagedList[domain.BlogPost](),
	}
}

func (v *blogListView) ID() ViewID    { return ViewBlog }
func (v *blogListView) Title() string { return "Blog" }

func (v *blogListView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read")),
		key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new post")),
		key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "publish")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status filter")),
		key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[ ]", "page")),
	}
}

func (v *blogListView) Init() tea.Cmd {
	return v.load()
}

func (v *blogListView) cancelPending() { v.list.cancelPending() }

func (v *blogListView) load() tea.Cmd {
	blogs, status := v.state.App.Blogs, v.status
	return v.list.load(func(ctx context.Context, offset, limit int) (envelope.Page[domain.BlogPost], error) {
		return blogs.List(ctx, service.BlogFilter{
			Status:     status,
			Pagination: query.Pagination{Limit: limit, Offset: offset},
		})
	})
}

func (v *blogListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pageLoadedMsg[domain.BlogPost]:
		v.list.settle(msg)
		return v, nil
	case refreshViewMsg:
		return v, v.load()
	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *blogListView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.list.move(msg.String()) {
		return v, nil
	}
	blogs := v.state.App.Blogs

	switch msg.String() {
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
	case "s":
		v.status = nextBlogStatus(v.status)
		v.list.resetPage()
		return v, v.load()
	case "c":
		in := &blogInput{}
		return v, startWizardCmd(v.state, "New post", wizardBlogPost(in), func() tea.Cmd {
			post := in.post()
			return func() tea.Msg {
				created, err := blogs.Create(context.Background(), post)
				if err != nil {
					return actionDone("", err)
				}
				return actionDone(fmt.Sprintf("Created %s %s", formatter.BlogStatusPill(created.Status), formatter.Bold(created.Title)), nil)
			}
		})
	}

	p, ok := v.list.selected()
	if !ok {
		return v, nil
	}

	switch msg.String() {
	case "enter":
		return v, func() tea.Msg {
			full, err := blogs.Get(context.Background(), p.ID)
			if err != nil {
				return cmdOutputMsg{output: formatter.ErrorLine(err)}
			}
			return cmdOutputMsg{output: formatter.FormatBlogPost(full)}
		}
	case "p":
		if p.IsPublished() {
			return v, outputCmd(formatter.Dim(p.Title + " is already published."))
		}
		return v, func() tea.Msg {
			published, err := blogs.Publish(context.Background(), p.ID)
			if err != nil {
				return actionDone("", err)
			}
			return actionDone(fmt.Sprintf("%s %s", formatter.BlogStatusPill(published.Status), formatter.Bold(published.Title)), nil)
		}
	case "x":
		var confirmed bool
		return v, startWizardCmd(v.state, "Delete post", wizardConfirm("Delete \""+p.Title+"\"?", &confirmed), func() tea.Cmd {
			if !confirmed {
				return outputCmd(formatter.Dim("Cancelled."))
			}
			return func() tea.Msg {
				return actionDone("Deleted "+p.Title, blogs.Delete(context.Background(), p.ID))
			}
		})
	}
	return v, nil
}

func nextBlogStatus(s domain.BlogStatus) domain.BlogStatus {
	for i, st := range blogStatusCycle {
		if st == s {
			return blogStatusCycle[(i+1)%len(blogStatusCycle)]
		}
	}
	return ""
}

func (v *blogListView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	filter := "all posts"
	if v.status != "" {
		filter = string(v.status)
	}
	b.WriteString("  " + formatter.Dim("showing: ") + filter + "\n\n")
	b.WriteString(v.list.render(formatter.FormatBlogPosts))
	return b.String()
}
