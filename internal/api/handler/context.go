package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/quillpost/blog-api/internal/core/domain"
)

const accountKey = "account"

// SetActingAccount stores the authenticated account on the request context.
// Called by the Auth middleware.
func SetActingAccount(c echo.Context, account *domain.Account) {
	c.Set(accountKey, account)
}

// ActingAccount returns the account injected by the Auth middleware. A missing
// account means the route was registered without Auth, so it fails closed.
func ActingAccount(c echo.Context) (*domain.Account, error) {
	account, _ := c.Get(accountKey).(*domain.Account)
	if account == nil {
		return nil, domain.ErrUnauthorized
	}
	return account, nil
}
