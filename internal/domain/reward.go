package domain

import "time"

// Reward is an item in the points redemption catalog.
type Reward struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PointsCost  int    `json:"points_cost"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"image_url,omitempty"`
	IsActive    bool   `json:"is_active"`
}

// InStock reports whether at least one unit can still be redeemed.
func (r *Reward) InStock() bool {
	return r.Stock > 0
}

// Redemption records a user exchanging points for a reward.
type Redemption struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	UserName    string           `json:"user_name"`
	RewardID    string           `json:"reward_id"`
	RewardName  string           `json:"reward_name"`
	PointsSpent int              `json:"points_spent"`
	Status      RedemptionStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
}
