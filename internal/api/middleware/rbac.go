package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/quillpost/blog-api/internal/api/handler"
	"github.com/quillpost/blog-api/internal/core/domain"
)

// RequireRole admits accounts holding at least one of roles. It must run after Auth.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account, err := handler.ActingAccount(c)
			if err != nil {
				return err
			}
			for _, r := range roles {
				if account.HasRole(r) {
					return next(c)
				}
			}
			return domain.ErrForbidden
		}
	}
}
