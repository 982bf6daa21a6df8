package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/service"
)

const chartWidth = 28

// FormatDashboard renders the summary, chart and leaderboard. A dataset
// that failed to load shows its error in place and an empty body.
func FormatDashboard(d *service.Dashboard) string {
	var b strings.Builder

	b.WriteString(Dim("Window: ") + Bold(d.Window.Label()) + "\n\n")

	b.WriteString(Header("Summary") + "\n")
	writeDatasetErr(&b, d, service.DatasetSummary)
	b.WriteString(FormatSummary(d.Summary) + "\n")

	b.WriteString(Header("CO2 saved") + "\n")
	writeDatasetErr(&b, d, service.DatasetChart)
	b.WriteString(RenderBarChart(d.Chart, chartWidth) + "\n")

	b.WriteString(Header("Leaderboard") + "\n")
	writeDatasetErr(&b, d, service.DatasetLeaderboard)
	b.WriteString(FormatLeaderboard(d.Leaderboard))

	return b.String()
}

func writeDatasetErr(b *strings.Builder, d *service.Dashboard, name string) {
	if err := d.Errors[name]; err != nil {
		b.WriteString(ErrorLine(err) + "\n")
	}
}

// FormatSummary renders the headline dashboard counters.
func FormatSummary(s domain.DashboardSummary) string {
	redeemed := 0.0
	if s.PointsIssued > 0 {
		redeemed = float64(s.PointsRedeemed) / float64(s.PointsIssued)
	}
	rows := []struct{ label, value string }{
		{"Users", fmt.Sprintf("%s %s", Bold(FormatCount(s.TotalUsers)), Dim(fmt.Sprintf("(%s active)", FormatCount(s.ActiveUsers))))},
		{"Activities", Bold(FormatCount(s.TotalActivities))},
		{"CO2 saved", StyleGreen.Render(FormatKg(s.CO2SavedKg))},
		{"Points issued", FormatPoints(s.PointsIssued)},
		{"Redeemed", fmt.Sprintf("%s %s", FormatPoints(s.PointsRedeemed), RenderProgress(redeemed, 12))},
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(Dim(padRight(r.label, 14)) + r.value + "\n")
	}
	return b.String()
}

// FormatLeaderboard renders the top savers as a ranked table.
func FormatLeaderboard(entries []domain.LeaderboardEntry) string {
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			Dim(fmt.Sprintf("%d", i+1)),
			e.Name,
			StyleGreen.Render(FormatKg(e.CO2SavedKg)),
			FormatPoints(e.Points),
		})
	}
	return RenderTable([]string{"#", "USER", "CO2 SAVED", "POINTS"}, rows, "No users yet.")
}
