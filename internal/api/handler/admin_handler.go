package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/quillpost/blog-api/internal/core/domain"
	"github.com/quillpost/blog-api/internal/core/ports"
)

// AdminHandler serves account administration. Every route requires ADMIN.
type AdminHandler struct {
	users      ports.UserService
	moderation ports.ModerationService
}

func NewAdminHandler(users ports.UserService, moderation ports.ModerationService) *AdminHandler {
	return &AdminHandler{users: users, moderation: moderation}
}

// List returns a page of accounts.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Param        search  query     string  false  "Partial match on name, email or username"
// @Param        role    query     string  false  "USER or ADMIN"
// @Param        banned  query     bool    false  "Filter by ban flag"
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Success      200     {object}  ports.ListAccountsResult
// @Failure      400     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) List(c echo.Context) error {
	in := ports.ListAccountsInput{
		Search: c.QueryParam("search"),
		Role:   c.QueryParam("role"),
	}
	var err error
	if in.Page, in.Limit, err = pagination(c); err != nil {
		return err
	}
	if raw := c.QueryParam("banned"); raw != "" {
		banned, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "banned must be a boolean")
		}
		in.Banned = &banned
	}

	result, err := h.users.List(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Create adds an account with explicit roles.
//
// @Summary      Create account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        body  body      createAccountRequest  true  "Account details"
// @Success      201   {object}  domain.Account
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/admin/users [post]
func (h *AdminHandler) Create(c echo.Context) error {
	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, err := h.users.AdminCreate(c.Request().Context(), ports.CreateAccountInput{
		FullName:     req.FullName,
		Email:        req.Email,
		Password:     req.Password,
		Username:     req.Username,
		ProfileImage: req.ProfileImage,
		Roles:        req.Roles,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, account)
}

// Get returns one account by id.
//
// @Summary      Get account
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  domain.Account
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/users/{id} [get]
func (h *AdminHandler) Get(c echo.Context) error {
	account, err := h.users.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Update applies a partial update including role replacement.
//
// @Summary      Update account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id    path      string              true  "Account id"
// @Param        body  body      adminUpdateRequest  true  "Fields to change"
// @Success      200   {object}  domain.Account
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/admin/users/{id} [put]
func (h *AdminHandler) Update(c echo.Context) error {
	var req adminUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, err := h.users.AdminUpdate(c.Request().Context(), c.Param("id"), ports.AdminUpdate{
		FullName: req.FullName,
		Email:    req.Email,
		Username: req.Username,
		Roles:    req.Roles,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Delete removes an account and its follow edges.
//
// @Summary      Delete account
// @Tags         admin
// @Security     SessionCookie
// @Param        id  path  string  true  "Account id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/users/{id} [delete]
func (h *AdminHandler) Delete(c echo.Context) error {
	if err := h.users.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Ban sets the ban flag. Banning an already banned account succeeds.
//
// @Summary      Ban account
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  domain.Account
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/users/{id}/ban [patch]
func (h *AdminHandler) Ban(c echo.Context) error {
	actor, err := ActingAccount(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if id == actor.ID {
		return domain.ErrForbidden
	}
	account, err := h.moderation.Ban(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Unban clears the ban flag. Unbanning an account that is not banned succeeds.
//
// @Summary      Unban account
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  domain.Account
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/users/{id}/unban [patch]
func (h *AdminHandler) Unban(c echo.Context) error {
	account, err := h.moderation.Unban(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}
