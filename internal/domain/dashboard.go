package domain

type DashboardSummary struct {
	TotalUsers      int     `json:"total_users"`
	ActiveUsers     int     `json:"active_users"`
	TotalActivities int     `json:"total_activities"`
	CO2SavedKg      float64 `json:"co2_saved_kg"`
	PointsIssued    int     `json:"points_issued"`
	PointsRedeemed  int     `json:"points_redeemed"`
}

// ChartPoint is one bucket of the usage chart. Bucket size is chosen by the
// server from the requested window.
type ChartPoint struct {
	Label      string  `json:"label"`
	CO2SavedKg float64 `json:"co2_saved_kg"`
	Activities int     `json:"activities"`
}

type LeaderboardEntry struct {
	UserID     string  `json:"user_id"`
	Name       string  `json:"name"`
	CO2SavedKg float64 `json:"co2_saved_kg"`
	Points     int     `json:"points"`
}
