package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quillpost/blog-api/internal/core/domain"
	"github.com/quillpost/blog-api/internal/core/ports"
)

var errBadToken = errors.New("bad token")

// stubSigner issues "token-<id>" and parses it back.
type stubSigner struct{}

func (stubSigner) Sign(id string) (string, time.Time, error) {
	return "token-" + id, time.Now().Add(time.Hour), nil
}

func (stubSigner) Parse(token string) (string, error) {
	id, ok := strings.CutPrefix(token, "token-")
	if !ok || id == "" {
		return "", errBadToken
	}
	return id, nil
}

func (stubSigner) TTL() time.Duration { return time.Hour }

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.Account, error)
	loginFn    func(ctx context.Context, email, password string) (*domain.Account, error)
	loggedOut  []string
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.Account, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(_ context.Context, accountID string) {
	s.loggedOut = append(s.loggedOut, accountID)
}

type stubUserService struct {
	ports.UserService
	getFn         func(ctx context.Context, id string) (*domain.Account, error)
	profileFn     func(ctx context.Context, username string) (*ports.Profile, error)
	updateFn      func(ctx context.Context, id string, u ports.ProfileUpdate) (*domain.Account, error)
	adminUpdateFn func(ctx context.Context, id string, u ports.AdminUpdate) (*domain.Account, error)
	listFn        func(ctx context.Context, in ports.ListAccountsInput) (*ports.ListAccountsResult, error)
	deleteFn      func(ctx context.Context, id string) error
}

func (s *stubUserService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) Profile(ctx context.Context, username string) (*ports.Profile, error) {
	return s.profileFn(ctx, username)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, id string, u ports.ProfileUpdate) (*domain.Account, error) {
	return s.updateFn(ctx, id, u)
}

func (s *stubUserService) AdminUpdate(ctx context.Context, id string, u ports.AdminUpdate) (*domain.Account, error) {
	return s.adminUpdateFn(ctx, id, u)
}

func (s *stubUserService) List(ctx context.Context, in ports.ListAccountsInput) (*ports.ListAccountsResult, error) {
	return s.listFn(ctx, in)
}

func (s *stubUserService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type stubSocialService struct {
	ports.SocialService
	followFn    func(ctx context.Context, followerID, followingID string) (*ports.FollowResult, error)
	followersFn func(ctx context.Context, id string, page, limit int) ([]ports.AccountSummary, error)
}

func (s *stubSocialService) Follow(ctx context.Context, followerID, followingID string) (*ports.FollowResult, error) {
	return s.followFn(ctx, followerID, followingID)
}

func (s *stubSocialService) Followers(ctx context.Context, id string, page, limit int) ([]ports.AccountSummary, error) {
	return s.followersFn(ctx, id, page, limit)
}

type stubModeration struct {
	banned []string
}

func (s *stubModeration) Ban(_ context.Context, id string) (*domain.Account, error) {
	s.banned = append(s.banned, id)
	return &domain.Account{ID: id, Banned: true}, nil
}

func (s *stubModeration) Unban(_ context.Context, id string) (*domain.Account, error) {
	return &domain.Account{ID: id}, nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newJSONContext builds a request context with an optional JSON body.
func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpCode(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}
