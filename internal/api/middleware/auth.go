package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillpost/blog-api/internal/api/handler"
	"github.com/quillpost/blog-api/internal/core/domain"
	"github.com/quillpost/blog-api/internal/core/ports"
)

// Auth validates the session token, loads the account it names and injects it
// into the request context. Banned accounts are rejected even with a valid token.
func Auth(signer ports.TokenSigner, accounts ports.AccountRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := handler.SessionToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
			}

			accountID, err := signer.Parse(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			account, err := accounts.FindByID(c.Request().Context(), accountID)
			if errors.Is(err, domain.ErrAccountNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if err != nil {
				return err
			}
			if account.Banned {
				return domain.ErrAccountBanned
			}

			handler.SetActingAccount(c, account)
			return next(c)
		}
	}
}
