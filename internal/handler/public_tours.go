package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/catalog"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/markdown"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/model"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/repository"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/stats"
)

// PublicTourStore reads published tours.
type PublicTourStore interface {
	ListPublished(ctx context.Context) ([]model.Tour, error)
	GetBySlug(ctx context.Context, slug string) (model.Tour, error)
}

// TourBookings lists the bookings a tour's availability is computed from.
type TourBookings interface {
	ListByTour(ctx context.Context, tourID uint64) ([]model.Booking, error)
}

// PublicTourHandler serves the trip list and trip detail pages.
type PublicTourHandler struct {
	Tours    PublicTourStore
	Bookings TourBookings
}

func NewPublicTourHandler(tours PublicTourStore, bookings TourBookings) *PublicTourHandler {
	return &PublicTourHandler{Tours: tours, Bookings: bookings}
}

// TourDetail is a published tour plus what the detail page derives from it.
type TourDetail struct {
	model.Tour
	DescriptionHTML string                 `json:"description_html"`
	Availability    stats.AvailabilityInfo `json:"availability"`
}

// List returns published tours filtered and sorted per the query string.
func (h *PublicTourHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	tours, err := h.Tours.ListPublished(ctx)
	if err != nil {
		return serverError(c, "failed to load tours", err)
	}
	q := catalog.ParseTourQuery(c.QueryParams())
	return c.JSON(http.StatusOK, catalog.FilterTours(tours, q.Filter, q.Sort, q.Scheme))
}

// Detail returns one published tour with live seat availability.
func (h *PublicTourHandler) Detail(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	t, err := h.Tours.GetBySlug(ctx, c.Param("slug"))
	if errors.Is(err, repository.ErrTourNotFound) || (err == nil && t.IsDraft) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tour not found"})
	}
	if err != nil {
		return serverError(c, "failed to load tour", err)
	}
	bookings, err := h.Bookings.ListByTour(ctx, t.ID)
	if err != nil {
		return serverError(c, "failed to load availability", err)
	}
	html, err := markdown.ToHTML(t.Description)
	if err != nil {
		c.Logger().Warnf("tour %s: render description: %v", t.Slug, err)
	}
	return c.JSON(http.StatusOK, TourDetail{
		Tour:            t,
		DescriptionHTML: html,
		Availability:    stats.Availability(t.TotalCapacity, bookings),
	})
}
