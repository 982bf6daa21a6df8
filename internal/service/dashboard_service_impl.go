package service

import (
	"context"

	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/envelope"
	"github.com/alexanderramin/carbonadmin/internal/query"
	"golang.org/x/sync/errgroup"
)

const (
	dashboardSummaryPath     = "/admin/dashboard/summary"
	dashboardChartPath       = "/admin/dashboard/chart"
	dashboardLeaderboardPath = "/admin/dashboard/leaderboard"

	// DefaultLeaderboardLimit is used when Load is given a non-positive limit.
	DefaultLeaderboardLimit = 10
)

// Dataset names used as keys of Dashboard.Errors.
const (
	DatasetSummary     = "summary"
	DatasetChart       = "chart"
	DatasetLeaderboard = "leaderboard"
)

// Dashboard is the joined result of the three dashboard datasets. A dataset
// that failed holds its empty default and its error is in Errors.
type Dashboard struct {
	Window      query.Window
	Summary     domain.DashboardSummary
	Chart       []domain.ChartPoint
	Leaderboard []domain.LeaderboardEntry
	Errors      map[string]error
}

// Err returns the first dataset error in display order, or nil.
func (d *Dashboard) Err() error {
	for _, name := range []string{DatasetSummary, DatasetChart, DatasetLeaderboard} {
		if err := d.Errors[name]; err != nil {
			return err
		}
	}
	return nil
}

type dashboardService struct {
	api      API
	observer UseCaseObserver
}

func NewDashboardService(api API, observers ...UseCaseObserver) DashboardService {
	return &dashboardService{api: api, observer: useCaseObserverOrNoop(observers)}
}

// Load fetches summary, chart and leaderboard concurrently and returns once
// all three have settled. One failing dataset never cancels the others.
func (s *dashboardService) Load(ctx context.Context, w query.Window, leaderboardLimit int) *Dashboard {
	var err error
	done := observe(ctx, s.observer, "load-dashboard", map[string]any{"window": w.Label()})
	defer func() { done(&err) }()

	if leaderboardLimit <= 0 {
		leaderboardLimit = DefaultLeaderboardLimit
	}
	params := query.Resolve(w)

	var (
		summary     domain.DashboardSummary
		chart       []domain.ChartPoint
		leaderboard []domain.LeaderboardEntry
		summaryErr  error
		chartErr    error
		leaderErr   error
	)

	var g errgroup.Group
	g.Go(func() error {
		summary, summaryErr = fetch[domain.DashboardSummary](ctx, s.api, dashboardSummaryPath, params)
		return nil
	})
	g.Go(func() error {
		chart, chartErr = fetchList[domain.ChartPoint](ctx, s.api, dashboardChartPath, params)
		return nil
	})
	g.Go(func() error {
		leaderboard, leaderErr = fetchList[domain.LeaderboardEntry](ctx, s.api, dashboardLeaderboardPath,
			params.WithInt(query.KeyLimit, leaderboardLimit))
		return nil
	})
	_ = g.Wait()

	d := &Dashboard{
		Window:      w,
		Summary:     envelope.OrDefault(summary, summaryErr, domain.DashboardSummary{}),
		Chart:       envelope.OrDefault(chart, chartErr, []domain.ChartPoint{}),
		Leaderboard: envelope.OrDefault(leaderboard, leaderErr, []domain.LeaderboardEntry{}),
		Errors:      map[string]error{},
	}
	for name, e := range map[string]error{
		DatasetSummary:     summaryErr,
		DatasetChart:       chartErr,
		DatasetLeaderboard: leaderErr,
	} {
		if e != nil {
			d.Errors[name] = e
		}
	}
	err = d.Err()
	return d
}

func fetch[T any](ctx context.Context, api API, path string, params query.Params) (T, error) {
	body, err := api.Get(ctx, path, params)
	if err != nil {
		var zero T
		return zero, err
	}
	v, _, err := envelope.Decode[T](body)
	return v, err
}

func fetchList[T any](ctx context.Context, api API, path string, params query.Params) ([]T, error) {
	page, err := fetchPage[T](ctx, api, path, params)
	return page.Items, err
}

func fetchPage[T any](ctx context.Context, api API, path string, params query.Params) (envelope.Page[T], error) {
	body, err := api.Get(ctx, path, params)
	if err != nil {
		return envelope.Page[T]{Items: []T{}}, err
	}
	return envelope.DecodePage[T](body)
}
