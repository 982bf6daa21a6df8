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

// rewardListView shows the reward catalog.
type rewardListView struct {
	state *SharedState
	list  *pagedList[domain.Reward]
}

func newRewardListView(state *SharedState) *rewardListView {
	return &rewardListView{
		state: state,
		list:  newPagedList[domain.Reward](),
	}
}

func (v *rewardListView) ID() ViewID    { return ViewRewards }
func (v *rewardListView) Title() string { return "Rewards" }

func (v *rewardListView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "redemptions")),
		key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[ ]", "page")),
	}
}

func (v *rewardListView) Init() tea.Cmd {
	return v.load()
}

func (v *rewardListView) cancelPending() { v.list.cancelPending() }

func (v *rewardListView) load() tea.Cmd {
	rewards := v.state.App.Rewards
	return v.list.load(func(ctx context.Context, offset, limit int) (envelope.Page[domain.Reward], error) {
		return rewards.List(ctx, service.RewardFilter{
			Pagination: query.Pagination{Limit: limit, Offset: offset},
		})
	})
}

func (v *rewardListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pageLoadedMsg[domain.Reward]:
		v.list.settle(msg)
		return v, nil
	case refreshViewMsg:
		return v, v.load()
	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *rewardListView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.list.move(msg.String()) {
		return v, nil
	}
	rewards := v.state.App.Rewards

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
	case "t":
		return v, pushView(newRedemptionListView(v.state))
	case "c":
		in := &rewardInput{Stock: "0", Active: true}
		return v, startWizardCmd(v.state, "New reward", wizardReward(in), func() tea.Cmd {
			r := &domain.Reward{}
			in.apply(r)
			return saveRewardCmd(rewards.Create, r, "Created")
		})
	}

	r, ok := v.list.selected()
	if !ok {
		return v, nil
	}

	switch msg.String() {
	case "e":
		in := rewardInputFrom(&r)
		return v, startWizardCmd(v.state, "Edit "+r.Name, wizardReward(&in), func() tea.Cmd {
			edited := r
			in.apply(&edited)
			return saveRewardCmd(rewards.Update, &edited, "Updated")
		})
	case "x":
		var confirmed bool
		return v, startWizardCmd(v.state, "Delete reward", wizardConfirm("Delete "+r.Name+"?", &confirmed), func() tea.Cmd {
			if !confirmed {
				return outputCmd(formatter.Dim("Cancelled."))
			}
			return func() tea.Msg {
				return actionDone("Deleted "+r.Name, rewards.Delete(context.Background(), r.ID))
			}
		})
	}
	return v, nil
}

// saveRewardCmd runs a create or update and reports the result.
func saveRewardCmd(save func(context.Context, *domain.Reward) (*domain.Reward, error), r *domain.Reward, verb string) tea.Cmd {
	return func() tea.Msg {
		saved, err := save(context.Background(), r)
		if err != nil {
			return actionDone("", err)
		}
		return actionDone(fmt.Sprintf("%s %s (%s)", verb, formatter.Bold(saved.Name), formatter.FormatPoints(saved.PointsCost)), nil)
	}
}

func (v *rewardListView) View() string {
	return "\n" + v.list.render(formatter.FormatRewards)
}

// redemptionStatusCycle is the order the status filter steps through.
var redemptionStatusCycle = []domain.RedemptionStatus{
	"",
	domain.RedemptionPending,
	domain.RedemptionApproved,
	domain.RedemptionRejected,
	domain.RedemptionFulfilled,
}

// redemptionListView reviews redemption requests for a time window.
type redemptionListView struct {
	state  *SharedState
	list   *pagedList[domain.Redemption]
	window query.Window
	status domain.RedemptionStatus
}

func newRedemptionListView(state *SharedState) *redemptionListView {
	return &redemptionListView{
		state: state,
		list:  newPagedList[domain.Redemption](),
	}
}

func (v *redemptionListView) ID() ViewID    { return ViewRedemptions }
func (v *redemptionListView) Title() string { return "Redemptions" }

func (v *redemptionListView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "approve")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "reject")),
		key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fulfil")),
		key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "window")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status filter")),
		key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[ ]", "page")),
	}
}

func (v *redemptionListView) Init() tea.Cmd {
	return v.load()
}

func (v *redemptionListView) cancelPending() { v.list.cancelPending() }

func (v *redemptionListView) load() tea.Cmd {
	rewards, w, status := v.state.App.Rewards, v.window, v.status
	return v.list.load(func(ctx context.Context, offset, limit int) (envelope.Page[domain.Redemption], error) {
		return rewards.ListRedemptions(ctx, service.RedemptionFilter{
			Window:     w,
			Status:     status,
			Pagination: query.Pagination{Limit: limit, Offset: offset},
		})
	})
}

func (v *redemptionListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pageLoadedMsg[domain.Redemption]:
		v.list.settle(msg)
		return v, nil
	case refreshViewMsg:
		return v, v.load()
	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *redemptionListView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.list.move(msg.String()) {
		return v, nil
	}

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
	case "w":
		v.window = v.window.Next()
		v.list.resetPage()
		return v, v.load()
	case "s":
		v.status = nextRedemptionStatus(v.status)
		v.list.resetPage()
		return v, v.load()
	}

	target := map[string]domain.RedemptionStatus{
		"y": domain.RedemptionApproved,
		"n": domain.RedemptionRejected,
		"f": domain.RedemptionFulfilled,
	}[msg.String()]
	if target == "" {
		return v, nil
	}
	red, ok := v.list.selected()
	if !ok {
		return v, nil
	}
	rewards := v.state.App.Rewards
	return v, func() tea.Msg {
		updated, err := rewards.SetRedemptionStatus(context.Background(), red.ID, target)
		if err != nil {
			return actionDone("", err)
		}
		return actionDone(fmt.Sprintf("%s %s for %s", formatter.RedemptionStatusPill(updated.Status), updated.RewardName, updated.UserName), nil)
	}
}

func nextRedemptionStatus(s domain.RedemptionStatus) domain.RedemptionStatus {
	for i, st := range redemptionStatusCycle {
		if st == s {
			return redemptionStatusCycle[(i+1)%len(redemptionStatusCycle)]
		}
	}
	return ""
}

func (v *redemptionListView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	status := "any status"
	if v.status != "" {
		status = string(v.status)
	}
	b.WriteString("  " + formatter.Dim("window: ") + v.window.Label() + formatter.Dim("  status: ") + status + "\n\n")
	now := v.state.App.now()
	b.WriteString(v.list.render(func(items []domain.Redemption) string {
		return formatter.FormatRedemptions(items, now)
	}))
	return b.String()
}
