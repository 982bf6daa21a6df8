package service

import (
	"context"
	"io"

	"github.com/alexanderramin/carbonadmin/internal/domain"
	"github.com/alexanderramin/carbonadmin/internal/envelope"
	"github.com/alexanderramin/carbonadmin/internal/query"
)

// API is the request surface of apiclient.Client the services depend on.
type API interface {
	Get(ctx context.Context, path string, params query.Params) ([]byte, error)
	Post(ctx context.Context, path string, body any) ([]byte, error)
	Put(ctx context.Context, path string, body any) ([]byte, error)
	Patch(ctx context.Context, path string, body any) ([]byte, error)
	Delete(ctx context.Context, path string) ([]byte, error)
	Upload(ctx context.Context, path, field, filename string, r io.Reader) ([]byte, error)
}

// AuthService exchanges credentials for a session. It satisfies
// session.Authenticator.
type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (domain.Session, error)
}

type DashboardService interface {
	Load(ctx context.Context, w query.Window, leaderboardLimit int) *Dashboard
}

type ActivityService interface {
	List(ctx context.Context, f ActivityFilter) (envelope.Page[domain.Activity], error)
}

type UserService interface {
	List(ctx context.Context, f UserFilter) (envelope.Page[domain.User], error)
	Get(ctx context.Context, id string) (*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

type BlogService interface {
	List(ctx context.Context, f BlogFilter) (envelope.Page[domain.BlogPost], error)
	Get(ctx context.Context, id string) (*domain.BlogPost, error)
	Create(ctx context.Context, p *domain.BlogPost) (*domain.BlogPost, error)
	Update(ctx context.Context, p *domain.BlogPost) (*domain.BlogPost, error)
	Publish(ctx context.Context, id string) (*domain.BlogPost, error)
	Delete(ctx context.Context, id string) error
	UploadCover(ctx context.Context, path string) (string, error)
}

type RewardService interface {
	List(ctx context.Context, f RewardFilter) (envelope.Page[domain.Reward], error)
	Get(ctx context.Context, id string) (*domain.Reward, error)
	Create(ctx context.Context, r *domain.Reward) (*domain.Reward, error)
	Update(ctx context.Context, r *domain.Reward) (*domain.Reward, error)
	Delete(ctx context.Context, id string) error
	ListRedemptions(ctx context.Context, f RedemptionFilter) (envelope.Page[domain.Redemption], error)
	SetRedemptionStatus(ctx context.Context, id string, status domain.RedemptionStatus) (*domain.Redemption, error)
}
