package formatter

import (
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/query"
	"github.com/alexanderramin/carbonadmin/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestFormatDashboard(t *testing.T) {
	out := FormatDashboard(&service.Dashboard{
		Window:      query.Named(query.WindowLast30Days),
		Summary:     domain.DashboardSummary{TotalUsers: 1200, ActiveUsers: 800, CO2SavedKg: 4200, PointsIssued: 1000, PointsRedeemed: 250},
		Chart:       []domain.ChartPoint{{Label: "W1", CO2SavedKg: 10, Activities: 3}},
		Leaderboard: []domain.LeaderboardEntry{{Name: "Ada", CO2SavedKg: 99, Points: 400}},
		Errors:      map[string]error{},
	})

	assert.Contains(t, out, "Last 30 days")
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "4.20 t")
	assert.Contains(t, out, "25%")
	assert.Contains(t, out, "W1")
	assert.Contains(t, out, "Ada")
	assert.NotContains(t, out, "Error:")
}

func TestFormatDashboard_FailedDatasetShowsInlineError(t *testing.T) {
	out := FormatDashboard(&service.Dashboard{
		Chart:       []domain.ChartPoint{},
		Leaderboard: []domain.LeaderboardEntry{},
		Errors:      map[string]error{service.DatasetLeaderboard: errors.New("leaderboard down")},
	})

	assert.Contains(t, out, "Error: leaderboard down")
	assert.Contains(t, out, "No users yet.")
	assert.Contains(t, out, "All time")
}

func TestFormatLists(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	users := FormatUsers([]domain.User{{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: domain.RoleAdmin, IsActive: true}})
	assert.Contains(t, users, "ada@example.com")
	assert.Contains(t, users, "admin")
	assert.Contains(t, users, "active")

	rewards := FormatRewards([]domain.Reward{{ID: "r1", Name: "Tote", PointsCost: 1500, Stock: 0}})
	assert.Contains(t, rewards, "1,500 pts")
	assert.Contains(t, rewards, "out")

	reds := FormatRedemptions([]domain.Redemption{{ID: "d1", UserName: "Ada", RewardName: "Tote", Status: domain.RedemptionPending, CreatedAt: now.Add(-2 * time.Hour)}}, now)
	assert.Contains(t, reds, "pending")
	assert.Contains(t, reds, "2h ago")

	assert.Contains(t, FormatActivities(nil, now), "No activity in this window.")
	assert.Contains(t, FormatBlogPosts(nil), "No posts yet.")
}
