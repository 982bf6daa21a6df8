package service

import (
	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/query"
)

// ActivityFilter narrows the activity log.
type ActivityFilter struct {
	Window query.Window
	UserID string
	Type   domain.ActivityType
	query.Pagination
}

func (f ActivityFilter) Params() query.Params {
	return query.Resolve(f.Window).
		With("user_id", f.UserID).
		With("type", string(f.Type)).
		Merge(f.Pagination.Params())
}

// UserFilter narrows the user list. Active is tri-state: nil means any.
type UserFilter struct {
	Search string
	Role   domain.Role
	Active *bool
	query.Pagination
}

func (f UserFilter) Params() query.Params {
	p := query.Params{}.
		With("search", f.Search).
		With("role", string(f.Role))
	if f.Active != nil {
		p = p.WithBool("is_active", *f.Active)
	}
	return p.Merge(f.Pagination.Params())
}

// BlogFilter narrows the blog list.
type BlogFilter struct {
	Search string
	Status domain.BlogStatus
	query.Pagination
}

func (f BlogFilter) Params() query.Params {
	return query.Params{}.
		With("search", f.Search).
		With("status", string(f.Status)).
		Merge(f.Pagination.Params())
}

// RewardFilter narrows the reward catalog.
type RewardFilter struct {
	Search string
	query.Pagination
}

func (f RewardFilter) Params() query.Params {
	return query.Params{}.With("search", f.Search).Merge(f.Pagination.Params())
}

// RedemptionFilter narrows redemptions by window and status.
type RedemptionFilter struct {
	Window query.Window
	Status domain.RedemptionStatus
	UserID string
	query.Pagination
}

func (f RedemptionFilter) Params() query.Params {
	return query.Resolve(f.Window).
		With("status", string(f.Status)).
		With("user_id", f.UserID).
		Merge(f.Pagination.Params())
}
