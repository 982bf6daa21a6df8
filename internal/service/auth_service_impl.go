package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/alexanderramin/carbonadmin/internal/apiclient"
	"github.com/alexanderramin/carbonadmin/internal/domain"
)

const loginPath = "/auth/login"

type authService struct {
	api      API
	observer UseCaseObserver
}

func NewAuthService(api API, observers ...UseCaseObserver) AuthService {
	return &authService{api: api, observer: useCaseObserverOrNoop(observers)}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse accepts {token, data: principal}, with "user" as an
// alternative principal key, and the same pair nested under data.
type loginResponse struct {
	Token string          `json:"token"`
	Data  json.RawMessage `json:"data"`
	User  json.RawMessage `json:"user"`
}

func (s *authService) Authenticate(ctx context.Context, email, password string) (sess domain.Session, err error) {
	done := observe(ctx, s.observer, "login", map[string]any{"email": email})
	defer done(&err)

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Session{}, invalid("email and password are required")
	}

	body, err := s.api.Post(apiclient.Anonymous(ctx), loginPath, loginRequest{Email: email, Password: password})
	if err != nil {
		return domain.Session{}, err
	}
	return parseLogin(body)
}

func parseLogin(body []byte) (domain.Session, error) {
	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.Session{}, apiclient.DecodeError(err)
	}

	if resp.Token == "" && len(resp.Data) > 0 {
		var nested loginResponse
		if err := json.Unmarshal(resp.Data, &nested); err == nil && nested.Token != "" {
			resp = nested
		}
	}

	raw := resp.Data
	if isAbsent(raw) {
		raw = resp.User
	}
	if resp.Token == "" || isAbsent(raw) {
		return domain.Session{}, apiclient.DecodeError(errors.New("login response missing token or user"))
	}

	var p domain.Principal
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Session{}, apiclient.DecodeError(err)
	}
	return domain.Session{Token: resp.Token, Principal: &p}, nil
}

func isAbsent(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}
