package cli

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/envelope"
	"github.com/alexanderramin/carbonadmin/internal/guard"
	"github.com/alexanderramin/carbonadmin/internal/query"
	"github.com/alexanderramin/carbonadmin/internal/repository"
	"github.com/alexanderramin/carbonadmin/internal/service"
	"github.com/alexanderramin/carbonadmin/internal/session"
	"github.com/alexanderramin/carbonadmin/internal/teatest"
	"github.com/alexanderramin/carbonadmin/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// TestDriver wraps teatest.Driver with console-specific inspection methods.
// It provides access to appModel internals (view stack, shared state,
// command bar focus) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver creates a TestDriver from a test App.
// It constructs the appModel, sets terminal size, and drains Init()
// (which loads data synchronously from the in-memory fakes).
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()

	m := newAppModel(app)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

// ── High-level helpers ───────────────────────────────────────────────────────

// Command focuses the command bar with ':', types the command, and presses Enter.
// The bar blurs itself after executing, so subsequent key presses route to
// the active view.
func (d *TestDriver) Command(input string) {
	d.T.Helper()
	d.PressKey(':')
	d.Type(input)
	d.PressEnter()
	if d.CmdBarFocused() {
		d.PressEsc()
	}
}

// ── Inspection ───────────────────────────────────────────────────────────────

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ActiveView returns the top view on the stack.
func (d *TestDriver) ActiveView() View {
	m := d.appModel()
	return m.activeView()
}

// ActiveViewTitle returns the Title() of the top view on the stack.
func (d *TestDriver) ActiveViewTitle() string {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ""
	}
	return v.Title()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().stack)
}

// ViewStackIDs returns the ViewIDs of all views on the stack, bottom to top.
func (d *TestDriver) ViewStackIDs() []ViewID {
	m := d.appModel()
	ids := make([]ViewID, len(m.stack))
	for i, v := range m.stack {
		ids[i] = v.ID()
	}
	return ids
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// IsQuitting returns whether the app has signaled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// CmdBarFocused returns whether the command bar currently has focus.
func (d *TestDriver) CmdBarFocused() bool {
	m := d.appModel()
	return m.cmdBar.Focused()
}

// LastOutput returns the last command output displayed in the content area.
func (d *TestDriver) LastOutput() string {
	return d.appModel().output.text
}

// ── In-memory App ────────────────────────────────────────────────────────────

// stubAuth authenticates any credentials as principal, or fails with err.
type stubAuth struct {
	principal domain.Principal
	err       error
}

func (a *stubAuth) Authenticate(_ context.Context, _, _ string) (domain.Session, error) {
	if a.err != nil {
		return domain.Session{}, a.err
	}
	p := a.principal
	return domain.Session{Token: testutil.JWT(time.Now().Add(time.Hour)), Principal: &p}, nil
}

var adminPrincipal = domain.Principal{ID: "u-admin", Name: "Ada Admin", Email: "ada@example.com", Role: domain.RoleAdmin}

// tuiApp is an App backed by in-memory fakes for view tests.
type tuiApp struct {
	*App
	auth       *stubAuth
	dashboard  *fakeDashboard
	users      *fakeUsers
	blogs      *fakeBlogs
	rewards    *fakeRewards
	activities *fakeActivities
}

func newTUIApp(t *testing.T) *tuiApp {
	t.Helper()
	auth := &stubAuth{principal: adminPrincipal}
	store := session.NewStore(repository.NewSQLiteKVStore(testutil.NewTestDB(t)), auth)

	ta := &tuiApp{
		auth:       auth,
		dashboard:  &fakeDashboard{},
		users:      &fakeUsers{items: []domain.User{sampleDomainUser("u-1", "Grace Hopper"), sampleDomainUser("u-2", "Alan Turing")}},
		blogs:      &fakeBlogs{items: []domain.BlogPost{{ID: "b-1", Title: "Cycling to work", Status: domain.BlogDraft}}},
		rewards:    &fakeRewards{},
		activities: &fakeActivities{},
	}
	ta.App = &App{
		Sessions:   store,
		Guard:      guard.New(store, true),
		Dashboard:  ta.dashboard,
		Activities: ta.activities,
		Users:      ta.users,
		Blogs:      ta.blogs,
		Rewards:    ta.rewards,
		Watcher:    session.NewExpiryWatcher(store, session.NavigatorFunc(func(string) {}), zerolog.Nop()),
		Now:        func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) },
		Log:        zerolog.Nop(),
	}
	return ta
}

// loggedIn signs the app in as the stub principal.
func (ta *tuiApp) loggedIn(t *testing.T) *tuiApp {
	t.Helper()
	_, err := ta.Sessions.Login(context.Background(), adminPrincipal.Email, "pw")
	require.NoError(t, err)
	return ta
}

func sampleDomainUser(id, name string) domain.User {
	return domain.User{ID: id, Name: name, Email: id + "@example.com", Role: domain.RoleUser, IsActive: true}
}

// ── Fake services ────────────────────────────────────────────────────────────

type fakeDashboard struct {
	mu      sync.Mutex
	windows []query.Window
}

func (f *fakeDashboard) Load(_ context.Context, w query.Window, _ int) *service.Dashboard {
	f.mu.Lock()
	f.windows = append(f.windows, w)
	f.mu.Unlock()
	return &service.Dashboard{
		Window:  w,
		Summary: domain.DashboardSummary{TotalUsers: 42, ActiveUsers: 30, TotalActivities: 900, CO2SavedKg: 1234.5},
		Errors:  map[string]error{},
	}
}

func (f *fakeDashboard) loaded() []query.Window {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]query.Window(nil), f.windows...)
}

func pageOf[T any](items []T) envelope.Page[T] {
	return envelope.Page[T]{Items: items, Meta: envelope.Meta{Total: len(items)}}
}

type fakeUsers struct {
	mu      sync.Mutex
	items   []domain.User
	err     error
	filters []service.UserFilter
	active  map[string]bool
}

func (f *fakeUsers) List(_ context.Context, filter service.UserFilter) (envelope.Page[domain.User], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return envelope.Page[domain.User]{}, f.err
	}
	return pageOf(f.items), nil
}

func (f *fakeUsers) lastFilter() service.UserFilter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.filters) == 0 {
		return service.UserFilter{}
	}
	return f.filters[len(f.filters)-1]
}

func (f *fakeUsers) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.filters)
}

func (f *fakeUsers) find(id string) (*domain.User, error) {
	for _, u := range f.items {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, errors.New("user not found")
}

func (f *fakeUsers) Get(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.find(id)
}

func (f *fakeUsers) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, err := f.find(id)
	if err != nil {
		return nil, err
	}
	u.Role = role
	return u, nil
}

func (f *fakeUsers) SetActive(_ context.Context, id string, active bool) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, err := f.find(id)
	if err != nil {
		return nil, err
	}
	if f.active == nil {
		f.active = map[string]bool{}
	}
	f.active[id] = active
	u.IsActive = active
	return u, nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, err := f.find(id)
	return err
}

type fakeBlogs struct {
	mu        sync.Mutex
	items     []domain.BlogPost
	published []string
}

func (f *fakeBlogs) List(context.Context, service.BlogFilter) (envelope.Page[domain.BlogPost], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return pageOf(f.items), nil
}

func (f *fakeBlogs) Get(_ context.Context, id string) (*domain.BlogPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, errors.New("post not found")
}

func (f *fakeBlogs) Create(_ context.Context, p *domain.BlogPost) (*domain.BlogPost, error) {
	return p, nil
}

func (f *fakeBlogs) Update(_ context.Context, p *domain.BlogPost) (*domain.BlogPost, error) {
	return p, nil
}

func (f *fakeBlogs) Publish(ctx context.Context, id string) (*domain.BlogPost, error) {
	p, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.published = append(f.published, id)
	f.mu.Unlock()
	p.Status = domain.BlogPublished
	return p, nil
}

func (f *fakeBlogs) Delete(context.Context, string) error { return nil }

func (f *fakeBlogs) UploadCover(context.Context, string) (string, error) {
	return "https://cdn.example.com/cover.png", nil
}

type fakeRewards struct {
	mu          sync.Mutex
	items       []domain.Reward
	redemptions []domain.Redemption
	statuses    map[string]domain.RedemptionStatus
	redFilters  []service.RedemptionFilter
}

func (f *fakeRewards) List(context.Context, service.RewardFilter) (envelope.Page[domain.Reward], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return pageOf(f.items), nil
}

func (f *fakeRewards) Get(_ context.Context, id string) (*domain.Reward, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.items {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, errors.New("reward not found")
}

func (f *fakeRewards) Create(_ context.Context, r *domain.Reward) (*domain.Reward, error) {
	return r, nil
}

func (f *fakeRewards) Update(_ context.Context, r *domain.Reward) (*domain.Reward, error) {
	return r, nil
}

func (f *fakeRewards) Delete(context.Context, string) error { return nil }

func (f *fakeRewards) ListRedemptions(_ context.Context, filter service.RedemptionFilter) (envelope.Page[domain.Redemption], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.redFilters = append(f.redFilters, filter)
	return pageOf(f.redemptions), nil
}

func (f *fakeRewards) SetRedemptionStatus(_ context.Context, id string, status domain.RedemptionStatus) (*domain.Redemption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.redemptions {
		if r.ID == id {
			if f.statuses == nil {
				f.statuses = map[string]domain.RedemptionStatus{}
			}
			f.statuses[id] = status
			r.Status = status
			return &r, nil
		}
	}
	return nil, errors.New("redemption not found")
}

type fakeActivities struct {
	mu      sync.Mutex
	filters []service.ActivityFilter
}

func (f *fakeActivities) List(_ context.Context, filter service.ActivityFilter) (envelope.Page[domain.Activity], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	return pageOf([]domain.Activity{{ID: "a-1", UserName: "Grace Hopper", Type: domain.ActivityCycling, CO2SavedKg: 2.4, Points: 10}}), nil
}
