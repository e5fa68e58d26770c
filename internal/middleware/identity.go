package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/auth"
)

// SessionCookie carries the access token for page routes.
const SessionCookie = "session"

const sessionKey = "session"

// TokenFrom returns the bearer token, falling back to the session cookie.
func TokenFrom(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if ck, err := c.Cookie(SessionCookie); err == nil {
		return ck.Value
	}
	return ""
}

// SessionFrom returns the session resolved by Session, or an
// unauthenticated one.
func SessionFrom(c echo.Context) auth.Session {
	if s, ok := c.Get(sessionKey).(auth.Session); ok {
		return s
	}
	return auth.Session{State: auth.StateUnauthenticated}
}

// Actor names the caller for audit columns and rate-limit keys.
func Actor(c echo.Context) string {
	if s := SessionFrom(c); s.Email != "" {
		return s.Email
	}
	return "anon"
}
