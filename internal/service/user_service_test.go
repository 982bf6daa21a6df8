package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_List_FiltersAndMeta(t *testing.T) {
	fake, api := setupAPI(t)
	fake.JSON("GET /admin/users", http.StatusOK, map[string]any{
		"data": []map[string]any{{"id": "u1", "name": "Ada", "role": "admin", "is_active": true}},
		"meta": map[string]any{"total": 31, "limit": 1},
	})
	svc := NewUserService(api)
	active := true

	page, err := svc.List(context.Background(), UserFilter{
		Search:     "ada",
		Role:       domain.RoleAdmin,
		Active:     &active,
		Pagination: query.Pagination{Limit: 1, Offset: 30},
	})
	require.NoError(t, err)

	assert.Len(t, page.Items, 1)
	assert.Equal(t, 31, page.Total())

	req, _ := fake.Last(http.MethodGet, "/admin/users")
	assert.Equal(t, "ada", req.Query.Get("search"))
	assert.Equal(t, "admin", req.Query.Get("role"))
	assert.Equal(t, "true", req.Query.Get("is_active"))
	assert.Equal(t, "1", req.Query.Get("limit"))
	assert.Equal(t, "30", req.Query.Get("offset"))
	assert.Equal(t, "Bearer tok-admin", req.Header.Get("Authorization"))
}

func TestUserService_List_ErrorYieldsEmptyPage(t *testing.T) {
	fake, api := setupAPI(t)
	fake.JSON("GET /admin/users", http.StatusBadGateway, map[string]string{"message": "upstream"})

	page, err := NewUserService(api).List(context.Background(), UserFilter{})

	require.Error(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestUserService_Get(t *testing.T) {
	fake, api := setupAPI(t)
	fake.JSON("GET /admin/users/{id}", http.StatusOK, map[string]any{"data": map[string]any{"id": "u7", "name": "Grace", "points": 250}})

	u, err := NewUserService(api).Get(context.Background(), "u7")
	require.NoError(t, err)
	assert.Equal(t, "Grace", u.Name)
	assert.Equal(t, 250, u.Points)

	_, err = NewUserService(api).Get(context.Background(), " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserService_UpdateRole(t *testing.T) {
	fake, api := setupAPI(t)
	fake.JSON("PATCH /admin/users/{id}", http.StatusOK, map[string]any{"id": "u7", "role": "staff"})
	svc := NewUserService(api)

	u, err := svc.UpdateRole(context.Background(), "u7", domain.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, u.Role)

	req, _ := fake.Last(http.MethodPatch, "/admin/users/u7")
	var body map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, map[string]any{"role": "staff"}, body)

	_, err = svc.UpdateRole(context.Background(), "u7", domain.Role("owner"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserService_SetActive(t *testing.T) {
	fake, api := setupAPI(t)
	fake.JSON("PATCH /admin/users/{id}", http.StatusOK, map[string]any{"id": "u7", "is_active": false})

	u, err := NewUserService(api).SetActive(context.Background(), "u7", false)
	require.NoError(t, err)
	assert.False(t, u.IsActive)

	req, _ := fake.Last(http.MethodPatch, "/admin/users/u7")
	assert.JSONEq(t, `{"is_active":false}`, string(req.Body))
}

func TestUserService_Delete(t *testing.T) {
	fake, api := setupAPI(t)
	fake.JSON("DELETE /admin/users/{id}", http.StatusNoContent, nil)

	require.NoError(t, NewUserService(api).Delete(context.Background(), "u7"))
	assert.Equal(t, 1, fake.Count(http.MethodDelete, "/admin/users/u7"))
}

func TestUserService_Delete_NotFound(t *testing.T) {
	_, api := setupAPI(t)

	err := NewUserService(api).Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deleting user missing")
}
