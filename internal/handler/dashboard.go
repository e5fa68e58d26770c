package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/model"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/stats"
)

// DashboardSource lists every tour, drafts included.
type DashboardSource interface {
	ListAll(ctx context.Context) ([]model.Tour, error)
}

// BookingSource lists bookings with their tour names.
type BookingSource interface {
	ListWithTour(ctx context.Context) ([]model.BookingWithTour, error)
}

// Dashboard returns the admin landing figures.
func Dashboard(tours DashboardSource, bookings BookingSource) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := withTimeout(c)
		defer cancel()
		ts, err := tours.ListAll(ctx)
		if err != nil {
			return serverError(c, "failed to load tours", err)
		}
		bs, err := bookings.ListWithTour(ctx)
		if err != nil {
			return serverError(c, "failed to load bookings", err)
		}
		plain := make([]model.Booking, len(bs))
		for i, b := range bs {
			plain[i] = b.Booking
		}
		return c.JSON(http.StatusOK, stats.Dashboard(ts, plain))
	}
}
