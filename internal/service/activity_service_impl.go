package service

import (
	"context"

	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/envelope"
)

const activitiesPath = "/admin/activities"

type activityService struct {
	api      API
	observer UseCaseObserver
}

func NewActivityService(api API, observers ...UseCaseObserver) ActivityService {
	return &activityService{api: api, observer: useCaseObserverOrNoop(observers)}
}

func (s *activityService) List(ctx context.Context, f ActivityFilter) (page envelope.Page[domain.Activity], err error) {
	done := observe(ctx, s.observer, "list-activities", map[string]any{
		"window":  string(f.Window.Kind),
		"user_id": f.UserID,
		"type":    string(f.Type),
	})
	defer done(&err)

	return fetchPage[domain.Activity](ctx, s.api, activitiesPath, f.Params())
}
