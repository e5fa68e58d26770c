package router

import (
	"github.com/labstack/echo/v4"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/handler"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/middleware"
)

// publicPages are the client routes of the single page app.
var publicPages = []string{
	"/", "/trips", "/trip/:slug", "/about", "/contact",
	"/admin-login", "/terms", "/cancellation-policy",
}

// adminPages redirect to the login page unless the caller is an admin.
var adminPages = []string{"/admin", "/add-tour", "/edit-tour/:id"}

// RegisterPages serves the built app: static assets from /assets, the app
// shell for every known page and a not-found answer for everything else.
func RegisterPages(e *echo.Echo, p handler.Pages) {
	e.Static("/assets", p.Dir+"/assets")
	for _, path := range publicPages {
		e.GET(path, p.Index)
	}
	guard := middleware.AdminPage("/admin-login")
	for _, path := range adminPages {
		e.GET(path, p.Index, guard)
	}
	e.RouteNotFound("/*", p.NotFound)
}
