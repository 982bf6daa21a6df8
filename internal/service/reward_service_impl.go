package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/envelope"
)

const (
	rewardsPath     = "/admin/rewards"
	redemptionsPath = "/admin/redemptions"
)

type rewardService struct {
	api      API
	observer UseCaseObserver
}

func NewRewardService(api API, observers ...UseCaseObserver) RewardService {
	return &rewardService{api: api, observer: useCaseObserverOrNoop(observers)}
}

func (s *rewardService) List(ctx context.Context, f RewardFilter) (envelope.Page[domain.Reward], error) {
	return fetchPage[domain.Reward](ctx, s.api, rewardsPath, f.Params())
}

func (s *rewardService) Get(ctx context.Context, id string) (*domain.Reward, error) {
	if err := requireID("reward", id); err != nil {
		return nil, err
	}
	body, err := s.api.Get(ctx, itemPath(rewardsPath, id), nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[domain.Reward](body)
}

func (s *rewardService) Create(ctx context.Context, r *domain.Reward) (out *domain.Reward, err error) {
	done := observe(ctx, s.observer, "create-reward", map[string]any{"name": r.Name})
	defer done(&err)

	if err := validateReward(r); err != nil {
		return nil, err
	}
	body, err := s.api.Post(ctx, rewardsPath, r)
	if err != nil {
		return nil, fmt.Errorf("creating reward: %w", err)
	}
	return decodeOne[domain.Reward](body)
}

func (s *rewardService) Update(ctx context.Context, r *domain.Reward) (out *domain.Reward, err error) {
	done := observe(ctx, s.observer, "update-reward", map[string]any{"reward_id": r.ID})
	defer done(&err)

	if err := requireID("reward", r.ID); err != nil {
		return nil, err
	}
	if err := validateReward(r); err != nil {
		return nil, err
	}
	body, err := s.api.Put(ctx, itemPath(rewardsPath, r.ID), r)
	if err != nil {
		return nil, fmt.Errorf("updating reward %s: %w", r.ID, err)
	}
	return decodeOne[domain.Reward](body)
}

func (s *rewardService) Delete(ctx context.Context, id string) (err error) {
	done := observe(ctx, s.observer, "delete-reward", map[string]any{"reward_id": id})
	defer done(&err)

	if err := requireID("reward", id); err != nil {
		return err
	}
	if _, err := s.api.Delete(ctx, itemPath(rewardsPath, id)); err != nil {
		return fmt.Errorf("deleting reward %s: %w", id, err)
	}
	return nil
}

func (s *rewardService) ListRedemptions(ctx context.Context, f RedemptionFilter) (envelope.Page[domain.Redemption], error) {
	if f.Status != "" && !domain.ValidRedemptionStatuses[string(f.Status)] {
		return envelope.Page[domain.Redemption]{Items: []domain.Redemption{}}, invalid("unknown redemption status %q", f.Status)
	}
	return fetchPage[domain.Redemption](ctx, s.api, redemptionsPath, f.Params())
}

// SetRedemptionStatus moves a redemption to status. The server is the
// authority on the current status; an illegal move is rejected there too.
func (s *rewardService) SetRedemptionStatus(ctx context.Context, id string, status domain.RedemptionStatus) (out *domain.Redemption, err error) {
	done := observe(ctx, s.observer, "set-redemption-status", map[string]any{"redemption_id": id, "status": string(status)})
	defer done(&err)

	if err := requireID("redemption", id); err != nil {
		return nil, err
	}
	if !domain.ValidRedemptionStatuses[string(status)] || status == domain.RedemptionPending {
		return nil, invalid("cannot set redemption status to %q", status)
	}
	body, err := s.api.Patch(ctx, itemPath(redemptionsPath, id), map[string]any{"status": status})
	if err != nil {
		return nil, fmt.Errorf("updating redemption %s: %w", id, err)
	}
	return decodeOne[domain.Redemption](body)
}

func validateReward(r *domain.Reward) error {
	if strings.TrimSpace(r.Name) == "" {
		return invalid("reward name is required")
	}
	if r.PointsCost <= 0 {
		return invalid("points cost must be positive, got %d", r.PointsCost)
	}
	if r.Stock < 0 {
		return invalid("stock cannot be negative, got %d", r.Stock)
	}
	return nil
}
