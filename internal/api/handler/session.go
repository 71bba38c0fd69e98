package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quillpost/blog-api/internal/core/ports"
)

// SessionCookie is the name of the http-only cookie carrying the session token.
const SessionCookie = "jwt"

// SessionIssuer signs session tokens and manages the session cookie.
type SessionIssuer struct {
	signer ports.TokenSigner
	secure bool
}

// NewSessionIssuer returns an issuer. secure should be false only in local
// development, where the API is served over plain HTTP.
func NewSessionIssuer(signer ports.TokenSigner, secure bool) *SessionIssuer {
	return &SessionIssuer{signer: signer, secure: secure}
}

// Issue signs a token for accountID, sets the session cookie and returns the token.
func (s *SessionIssuer) Issue(c echo.Context, accountID string) (string, error) {
	token, expiresAt, err := s.signer.Sign(accountID)
	if err != nil {
		return "", err
	}
	c.SetCookie(s.cookie(token, expiresAt, int(s.signer.TTL().Seconds())))
	return token, nil
}

// Clear expires the session cookie.
func (s *SessionIssuer) Clear(c echo.Context) {
	c.SetCookie(s.cookie("", time.Unix(0, 0), -1))
}

// Subject returns the account id of the request's session, or "" when the
// request carries no valid token.
func (s *SessionIssuer) Subject(c echo.Context) string {
	token := SessionToken(c)
	if token == "" {
		return ""
	}
	id, err := s.signer.Parse(token)
	if err != nil {
		return ""
	}
	return id
}

func (s *SessionIssuer) cookie(value string, expires time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// SessionToken reads the token from the session cookie, falling back to a
// Bearer Authorization header for non-browser clients.
func SessionToken(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
