// Package router registers the HTTP routes of the site on an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/config"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/handler"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/middleware"
)

// RegisterRoutes registers the unauthenticated health check.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterPublic registers the trip catalog.  The list sits behind the
// Redis response cache; the detail is always live because it carries seat
// availability.
func RegisterPublic(e *echo.Echo, p *handler.PublicTourHandler, cache config.CacheConfig, rdb *redis.Client) {
	e.GET("/api/tours", p.List, middleware.ResponseCache(cache, rdb))
	e.GET("/api/tours/:slug", p.Detail)
}

// RegisterForms registers the public form endpoints behind the rate
// limiter.  The limiter is attached per route so unknown /api paths still
// reach the JSON not-found handler.
func RegisterForms(e *echo.Echo, f *handler.FormHandler, rl config.RateLimitConfig, rdb *redis.Client) {
	limit := middleware.RateLimit(rl, rdb)
	e.POST("/api/bookings", f.Booking, limit)
	e.POST("/api/enquiries", f.Enquiry, limit)
	e.POST("/api/contact", f.Contact, limit)
	e.POST("/api/newsletter", f.Newsletter, limit)
	e.POST("/api/send-email", f.SendEmail, limit)
}

// RegisterAuth registers the admin login endpoints.  Login is rate limited
// like the forms; session is open to everyone and reports the resolved
// state.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rl config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/api/auth")
	g.POST("/login", a.Login, middleware.RateLimit(rl, rdb))
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.GET("/session", a.Session)
}
