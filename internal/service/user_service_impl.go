package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/envelope"
)

const usersPath = "/admin/users"

type userService struct {
	api      API
	observer UseCaseObserver
}

func NewUserService(api API, observers ...UseCaseObserver) UserService {
	return &userService{api: api, observer: useCaseObserverOrNoop(observers)}
}

func (s *userService) List(ctx context.Context, f UserFilter) (envelope.Page[domain.User], error) {
	return fetchPage[domain.User](ctx, s.api, usersPath, f.Params())
}

func (s *userService) Get(ctx context.Context, id string) (*domain.User, error) {
	if err := requireID("user", id); err != nil {
		return nil, err
	}
	body, err := s.api.Get(ctx, itemPath(usersPath, id), nil)
	if err != nil {
		return nil, err
	}
	return decodeOne[domain.User](body)
}

func (s *userService) UpdateRole(ctx context.Context, id string, role domain.Role) (u *domain.User, err error) {
	done := observe(ctx, s.observer, "update-user-role", map[string]any{"user_id": id, "role": string(role)})
	defer done(&err)

	if err := requireID("user", id); err != nil {
		return nil, err
	}
	if !domain.ValidRoles[string(role)] {
		return nil, invalid("unknown role %q", role)
	}
	return s.patch(ctx, id, map[string]any{"role": role})
}

func (s *userService) SetActive(ctx context.Context, id string, active bool) (u *domain.User, err error) {
	done := observe(ctx, s.observer, "set-user-active", map[string]any{"user_id": id, "active": active})
	defer done(&err)

	if err := requireID("user", id); err != nil {
		return nil, err
	}
	return s.patch(ctx, id, map[string]any{"is_active": active})
}

func (s *userService) Delete(ctx context.Context, id string) (err error) {
	done := observe(ctx, s.observer, "delete-user", map[string]any{"user_id": id})
	defer done(&err)

	if err := requireID("user", id); err != nil {
		return err
	}
	if _, err := s.api.Delete(ctx, itemPath(usersPath, id)); err != nil {
		return fmt.Errorf("deleting user %s: %w", id, err)
	}
	return nil
}

func (s *userService) patch(ctx context.Context, id string, fields map[string]any) (*domain.User, error) {
	body, err := s.api.Patch(ctx, itemPath(usersPath, id), fields)
	if err != nil {
		return nil, fmt.Errorf("updating user %s: %w", id, err)
	}
	return decodeOne[domain.User](body)
}
