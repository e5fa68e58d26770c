package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/auth"
)

// Resolver is satisfied by *auth.Gate.
type Resolver interface {
	Resolve(ctx context.Context, raw string) (auth.Session, error)
}

const lookupFailedKey = "session_lookup_failed"

// Session resolves the caller on every request and stores the result for
// RequireAdmin, AdminPage and handlers.  Nothing is cached between
// requests.
func Session(r Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			s, err := r.Resolve(ctx, TokenFrom(c))
			cancel()
			if err != nil {
				c.Logger().Errorf("session: %v", err)
				c.Set(lookupFailedKey, true)
			}
			c.Set(sessionKey, s)
			return next(c)
		}
	}
}

// RequireAdmin guards the admin API: 401 without a session, 403 for a
// session whose email is not an admin.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if failed, _ := c.Get(lookupFailedKey).(bool); failed {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "authorization unavailable"})
			}
			switch SessionFrom(c).State {
			case auth.StateAdmin:
				return next(c)
			case auth.StateNonAdmin:
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			default:
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
		}
	}
}

// AdminPage guards admin pages by redirecting everyone but admins to
// loginPath.
func AdminPage(loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !SessionFrom(c).IsAdmin {
				return c.Redirect(http.StatusFound, loginPath)
			}
			return next(c)
		}
	}
}
