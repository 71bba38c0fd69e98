package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillpost/blog-api/internal/core/ports"
)

// UserHandler serves self-service profile routes and the follow graph.
type UserHandler struct {
	users  ports.UserService
	social ports.SocialService
}

func NewUserHandler(users ports.UserService, social ports.SocialService) *UserHandler {
	return &UserHandler{users: users, social: social}
}

// Me returns the authenticated account.
//
// @Summary      Current account
// @Tags         users
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  domain.Account
// @Failure      401  {object}  errorResponse
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	actor, err := ActingAccount(c)
	if err != nil {
		return err
	}
	account, err := h.users.Get(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// UpdateMe applies a partial update to the authenticated account.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.Account
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/users/me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	actor, err := ActingAccount(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, err := h.users.UpdateProfile(c.Request().Context(), actor.ID, ports.ProfileUpdate{
		FullName: req.FullName,
		Email:    req.Email,
		Username: req.Username,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Profile returns the public profile for a username.
//
// @Summary      Public profile
// @Tags         users
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  ports.Profile
// @Failure      404       {object}  errorResponse
// @Router       /api/users/profile/{username} [get]
func (h *UserHandler) Profile(c echo.Context) error {
	profile, err := h.users.Profile(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Follow makes the authenticated account follow :id. Following twice is a no-op.
//
// @Summary      Follow an account
// @Tags         social
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  ports.FollowResult
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id}/follow [post]
func (h *UserHandler) Follow(c echo.Context) error {
	actor, err := ActingAccount(c)
	if err != nil {
		return err
	}
	result, err := h.social.Follow(c.Request().Context(), actor.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Unfollow removes the follow edge to :id. Unfollowing twice is a no-op.
//
// @Summary      Unfollow an account
// @Tags         social
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  ports.FollowResult
// @Failure      400  {object}  errorResponse
// @Router       /api/users/{id}/follow [delete]
func (h *UserHandler) Unfollow(c echo.Context) error {
	actor, err := ActingAccount(c)
	if err != nil {
		return err
	}
	result, err := h.social.Unfollow(c.Request().Context(), actor.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Relation reports the follow edges between the authenticated account and :id.
//
// @Summary      Relation with an account
// @Tags         social
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  domain.RelationStatus
// @Router       /api/users/{id}/relation [get]
func (h *UserHandler) Relation(c echo.Context) error {
	actor, err := ActingAccount(c)
	if err != nil {
		return err
	}
	rel, err := h.social.Relation(c.Request().Context(), actor.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rel)
}

// Followers lists the accounts following :id, newest first.
//
// @Summary      Followers
// @Tags         social
// @Produce      json
// @Param        id     path      string  true   "Account id"
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  accountListResponse
// @Router       /api/users/{id}/followers [get]
func (h *UserHandler) Followers(c echo.Context) error {
	return h.list(c, h.social.Followers)
}

// Following lists the accounts :id follows, newest first.
//
// @Summary      Following
// @Tags         social
// @Produce      json
// @Param        id     path      string  true   "Account id"
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  accountListResponse
// @Router       /api/users/{id}/following [get]
func (h *UserHandler) Following(c echo.Context) error {
	return h.list(c, h.social.Following)
}

type listFunc func(ctx context.Context, accountID string, page, limit int) ([]ports.AccountSummary, error)

func (h *UserHandler) list(c echo.Context, fetch listFunc) error {
	page, limit, err := pagination(c)
	if err != nil {
		return err
	}
	items, err := fetch(c.Request().Context(), c.Param("id"), page, limit)
	if err != nil {
		return err
	}
	if items == nil {
		items = []ports.AccountSummary{}
	}
	return c.JSON(http.StatusOK, accountListResponse{Items: items})
}

// pagination reads ?page and ?limit. Zero values are left for the service to default.
func pagination(c echo.Context) (page, limit int, err error) {
	err = echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("limit", &limit).
		BindError()
	if err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "page and limit must be integers")
	}
	return page, limit, nil
}
