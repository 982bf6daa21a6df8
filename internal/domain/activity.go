package domain

import "time"

// Activity is one logged carbon-reducing action by a platform user.
type Activity struct {
	ID         string       `json:"id"`
	UserID     string       `json:"user_id"`
	UserName   string       `json:"user_name"`
	Type       ActivityType `json:"type"`
	CO2SavedKg float64      `json:"co2_saved_kg"`
	Points     int          `json:"points"`
	OccurredAt time.Time    `json:"occurred_at"`
}
