package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/config"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/handler"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/middleware"
)

// Admin bundles the handlers mounted under /api/admin.
type Admin struct {
	Tours     *handler.AdminTourHandler
	Bookings  *handler.AdminBookingHandler
	Dashboard echo.HandlerFunc
	Upload    echo.HandlerFunc
}

// RegisterAdmin registers the admin API.  Every route requires an admin
// session; tour writes also purge the cached public tour list.
func RegisterAdmin(e *echo.Echo, a Admin, cache config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/api/admin", middleware.RequireAdmin())
	g.GET("/dashboard", a.Dashboard)

	t := g.Group("/tours", middleware.PurgeOnWrite(cache, rdb))
	t.GET("", a.Tours.List)
	t.POST("", a.Tours.Create)
	t.GET("/:id", a.Tours.Get)
	t.PUT("/:id", a.Tours.Update)
	t.PATCH("/:id/draft", a.Tours.Draft)
	t.DELETE("/:id", a.Tours.Delete)

	b := g.Group("/bookings")
	b.GET("", a.Bookings.List)
	b.GET("/:id", a.Bookings.Get)
	b.PATCH("/:id", a.Bookings.Patch)
	b.PATCH("/:id/status", a.Bookings.Status)
	b.DELETE("/:id", a.Bookings.Delete)
	b.GET("/:id/payments", a.Bookings.ListPayments)
	b.POST("/:id/payments", a.Bookings.RecordPayment)
	b.GET("/:id/voucher.pdf", a.Bookings.Voucher)

	g.POST("/uploads", a.Upload)
}
