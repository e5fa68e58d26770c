package handler

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/catalog"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/model"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/normalize"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/repository"
)

type TourStore interface {
	ListAll(ctx context.Context) ([]model.Tour, error)
	GetByID(ctx context.Context, id uint64) (model.Tour, error)
	Create(ctx context.Context, t *model.Tour) error
	Update(ctx context.Context, id uint64, t *model.Tour) error
	SetDraft(ctx context.Context, id uint64, draft bool) error
	Delete(ctx context.Context, id uint64, confirmed bool) error
}

// AdminTourHandler backs the add-tour and edit-tour screens and the quick
// actions of the admin tour table.
type AdminTourHandler struct {
	Tours TourStore
}

func NewAdminTourHandler(tours TourStore) *AdminTourHandler {
	return &AdminTourHandler{Tours: tours}
}

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a slug from a tour name.
func Slugify(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

type fieldError struct {
	field, msg string
}

func (e *fieldError) respond(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": e.msg, "field": e.field})
}

// tourFromInput converts an editor payload and checks the fields the
// database cannot default.
func tourFromInput(in normalize.TourInput) (model.Tour, *fieldError) {
	t := normalize.FromInput(in)
	if t.Slug == "" {
		t.Slug = Slugify(t.Name)
	}
	switch {
	case t.Name == "":
		return t, &fieldError{"name", "name is required"}
	case !slugRe.MatchString(t.Slug):
		return t, &fieldError{"slug", "slug must be lower-case words joined by dashes"}
	case t.Cost < 0:
		return t, &fieldError{"cost", "cost must not be negative"}
	case t.TotalCapacity < 1:
		return t, &fieldError{"total_capacity", "total_capacity must be at least 1"}
	case t.DepartureDate != "" && !validDate(t.DepartureDate):
		return t, &fieldError{"departure_date", "departure_date must be YYYY-MM-DD"}
	}
	return t, nil
}

func validDate(s string) bool {
	_, ok := catalog.ParseDate(s)
	return ok
}

func (h *AdminTourHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	tours, err := h.Tours.ListAll(ctx)
	if err != nil {
		return serverError(c, "failed to load tours", err)
	}
	q := catalog.ParseTourQuery(c.QueryParams())
	return c.JSON(http.StatusOK, catalog.FilterTours(tours, q.Filter, q.Sort, q.Scheme))
}

// Get returns a tour shaped for the editor: every list has at least one
// editable row.
func (h *AdminTourHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	t, err := h.Tours.GetByID(ctx, id)
	if errors.Is(err, repository.ErrTourNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tour not found"})
	}
	if err != nil {
		return serverError(c, "failed to load tour", err)
	}
	return c.JSON(http.StatusOK, normalize.ForEdit(t))
}

func (h *AdminTourHandler) Create(c echo.Context) error {
	var in normalize.TourInput
	if err := c.Bind(&in); err != nil {
		return invalidBody(c)
	}
	t, fe := tourFromInput(in)
	if fe != nil {
		return fe.respond(c)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := h.Tours.Create(ctx, &t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slug already in use", "field": "slug"})
		}
		return serverError(c, "failed to create tour", err)
	}
	return c.JSON(http.StatusCreated, t)
}

// Update replaces every field of the tour.
func (h *AdminTourHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	var in normalize.TourInput
	if err := c.Bind(&in); err != nil {
		return invalidBody(c)
	}
	t, fe := tourFromInput(in)
	if fe != nil {
		return fe.respond(c)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	switch err := h.Tours.Update(ctx, id, &t); {
	case errors.Is(err, repository.ErrTourNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tour not found"})
	case errors.Is(err, repository.ErrDuplicate):
		return c.JSON(http.StatusConflict, echo.Map{"error": "slug already in use", "field": "slug"})
	case err != nil:
		return serverError(c, "failed to update tour", err)
	}
	return c.JSON(http.StatusOK, t)
}

type draftReq struct {
	IsDraft *bool `json:"isDraft"`
}

// Draft sets isDraft from the body, or flips it when the body omits it.
func (h *AdminTourHandler) Draft(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	var req draftReq
	_ = c.Bind(&req)
	ctx, cancel := withTimeout(c)
	defer cancel()

	t, err := h.Tours.GetByID(ctx, id)
	if errors.Is(err, repository.ErrTourNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tour not found"})
	}
	if err != nil {
		return serverError(c, "failed to load tour", err)
	}
	draft := !t.IsDraft
	if req.IsDraft != nil {
		draft = *req.IsDraft
	}
	if err := h.Tours.SetDraft(ctx, id, draft); err != nil {
		return serverError(c, "failed to update tour", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "isDraft": draft})
}

func (h *AdminTourHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	switch err := h.Tours.Delete(ctx, id, confirmed(c)); {
	case errors.Is(err, repository.ErrNotConfirmed):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "confirmation_required"})
	case errors.Is(err, repository.ErrTourNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tour not found"})
	case err != nil:
		return serverError(c, "failed to delete tour", err)
	}
	return c.NoContent(http.StatusNoContent)
}
