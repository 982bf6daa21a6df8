package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewardService_CreateUpdateDelete(t *testing.T) {
	fake, api := setupAPI(t)
	fake.JSON("POST /admin/rewards", http.StatusCreated, map[string]any{"data": map[string]any{"id": "r1", "name": "Tote bag", "points_cost": 300, "stock": 10}})
	fake.JSON("PUT /admin/rewards/{id}", http.StatusOK, map[string]any{"id": "r1", "name": "Tote bag", "points_cost": 250, "stock": 10})
	fake.JSON("DELETE /admin/rewards/{id}", http.StatusOK, map[string]any{"message": "deleted"})
	svc := NewRewardService(api)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.Reward{Name: "Tote bag", PointsCost: 300, Stock: 10})
	require.NoError(t, err)
	assert.Equal(t, "r1", created.ID)
	assert.True(t, created.InStock())

	created.PointsCost = 250
	updated, err := svc.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, 250, updated.PointsCost)

	require.NoError(t, svc.Delete(ctx, "r1"))
	assert.Equal(t, 1, fake.Count(http.MethodDelete, "/admin/rewards/r1"))
}

func TestRewardService_Validation(t *testing.T) {
	fake, api := setupAPI(t)
	svc := NewRewardService(api)
	ctx := context.Background()

	for _, r := range []*domain.Reward{
		{PointsCost: 10},
		{Name: "x", PointsCost: 0},
		{Name: "x", PointsCost: 10, Stock: -1},
	} {
		_, err := svc.Create(ctx, r)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	_, err := svc.Update(ctx, &domain.Reward{Name: "x", PointsCost: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, fake.Requests())
}

func TestRewardService_ListRedemptions(t *testing.T) {
	fake, api := setupAPI(t)
	fake.JSON("GET /admin/redemptions", http.StatusOK, map[string]any{
		"data": []map[string]any{{"id": "d1", "reward_name": "Tote bag", "status": "pending", "points_spent": 300}},
		"meta": map[string]any{"total": 4},
	})
	svc := NewRewardService(api)

	page, err := svc.ListRedemptions(context.Background(), RedemptionFilter{
		Window: query.Named(query.WindowLast30Days),
		Status: domain.RedemptionPending,
	})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 4, page.Total())

	req, _ := fake.Last(http.MethodGet, "/admin/redemptions")
	assert.Equal(t, "last_30_days", req.Query.Get("window"))
	assert.Equal(t, "pending", req.Query.Get("status"))

	_, err = svc.ListRedemptions(context.Background(), RedemptionFilter{Status: "lost"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRewardService_SetRedemptionStatus(t *testing.T) {
	fake, api := setupAPI(t)
	fake.JSON("PATCH /admin/redemptions/{id}", http.StatusOK, map[string]any{"id": "d1", "status": "approved"})
	svc := NewRewardService(api)

	got, err := svc.SetRedemptionStatus(context.Background(), "d1", domain.RedemptionApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.RedemptionApproved, got.Status)

	req, _ := fake.Last(http.MethodPatch, "/admin/redemptions/d1")
	assert.JSONEq(t, `{"status":"approved"}`, string(req.Body))

	_, err = svc.SetRedemptionStatus(context.Background(), "d1", domain.RedemptionPending)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
