package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/catalog"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/middleware"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/model"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/queue"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/repository"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/stats"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/voucher"
)

type BookingStore interface {
	GetByID(ctx context.Context, id uint64) (model.BookingWithTour, error)
	ListWithTour(ctx context.Context) ([]model.BookingWithTour, error)
	UpdateStatus(ctx context.Context, id uint64, status, by string) error
	Update(ctx context.Context, id uint64, u repository.BookingUpdate, by string) error
	Delete(ctx context.Context, id uint64, confirmed bool) error
}

type PaymentStore interface {
	Create(ctx context.Context, p *model.BookingPayment) error
	ListByBooking(ctx context.Context, bookingID uint64) ([]model.BookingPayment, error)
	SumByBooking(ctx context.Context, bookingID uint64) (float64, error)
}

// AdminBookingHandler backs the bookings tab of the admin dashboard.
type AdminBookingHandler struct {
	Bookings BookingStore
	Payments PaymentStore
	Events   queue.Publisher
}

func NewAdminBookingHandler(b BookingStore, p PaymentStore, events queue.Publisher) *AdminBookingHandler {
	if events == nil {
		events = queue.NoopPublisher{}
	}
	return &AdminBookingHandler{Bookings: b, Payments: p, Events: events}
}

func bookingNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
}

// load fetches booking id.  When ok is false the response has been
// written and err is what the handler should return.
func (h *AdminBookingHandler) load(ctx context.Context, c echo.Context, id uint64) (b model.BookingWithTour, ok bool, err error) {
	b, err = h.Bookings.GetByID(ctx, id)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return b, false, bookingNotFound(c)
	}
	if err != nil {
		return b, false, serverError(c, "failed to load booking", err)
	}
	return b, true, nil
}

// List returns bookings newest first, joined with their tour and filtered
// by the query string.
func (h *AdminBookingHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	all, err := h.Bookings.ListWithTour(ctx)
	if err != nil {
		return serverError(c, "failed to load bookings", err)
	}
	return c.JSON(http.StatusOK, catalog.FilterBookings(all, catalog.ParseBookingQuery(c.QueryParams())))
}

func (h *AdminBookingHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	b, ok, err := h.load(ctx, c, id)
	if !ok {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

type statusReq struct {
	Status string `json:"status"`
}

// Status moves a booking through the workflow and announces the change.
func (h *AdminBookingHandler) Status(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if !model.ValidBookingStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status", "field": "status"})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	b, ok, err := h.load(ctx, c, id)
	if !ok {
		return err
	}
	actor := middleware.Actor(c)
	if err := h.Bookings.UpdateStatus(ctx, id, req.Status, actor); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return bookingNotFound(c)
		}
		return serverError(c, "failed to update booking", err)
	}

	if b.Status != req.Status {
		ev := queue.BookingEvent{
			Type:           queue.EventBookingStatusChanged,
			BookingID:      id,
			TourID:         b.TourID,
			CustomerName:   b.CustomerName,
			Email:          b.Email,
			NumberOfPeople: b.NumberOfPeople.Int(),
			Amount:         b.PaymentAmount.Float64(),
			Status:         req.Status,
			PreviousStatus: b.Status,
			ChangedBy:      actor,
			OccurredAt:     time.Now().UTC(),
		}
		if b.TourName != nil {
			ev.TourName = *b.TourName
		}
		if err := h.Events.Publish(ctx, ev); err != nil {
			c.Logger().Warnf("booking %d: status event not published: %v", id, err)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": req.Status})
}

type bookingPatch struct {
	PaymentAmount  *model.Amount `json:"payment_amount"`
	DiscountAmount *model.Amount `json:"discount_amount"`
	PaymentStatus  *string       `json:"payment_status"`
	InternalNotes  *string       `json:"internal_notes"`
}

// Patch edits the commercial and internal fields of a booking.
func (h *AdminBookingHandler) Patch(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	var req bookingPatch
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if req.PaymentStatus != nil && !model.ValidPaymentStatus(*req.PaymentStatus) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown payment status", "field": "payment_status"})
	}
	if req.PaymentAmount != nil && *req.PaymentAmount < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_amount must not be negative", "field": "payment_amount"})
	}
	if req.DiscountAmount != nil && *req.DiscountAmount < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "discount_amount must not be negative", "field": "discount_amount"})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	u := repository.BookingUpdate{
		PaymentAmount:  req.PaymentAmount,
		DiscountAmount: req.DiscountAmount,
		PaymentStatus:  req.PaymentStatus,
		InternalNotes:  req.InternalNotes,
	}
	if err := h.Bookings.Update(ctx, id, u, middleware.Actor(c)); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return bookingNotFound(c)
		}
		return serverError(c, "failed to update booking", err)
	}
	b, ok, err := h.load(ctx, c, id)
	if !ok {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (h *AdminBookingHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	switch err := h.Bookings.Delete(ctx, id, confirmed(c)); {
	case errors.Is(err, repository.ErrNotConfirmed):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "confirmation_required"})
	case errors.Is(err, repository.ErrBookingNotFound):
		return bookingNotFound(c)
	case err != nil:
		return serverError(c, "failed to delete booking", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPayments returns a booking's payment ledger and its running total.
func (h *AdminBookingHandler) ListPayments(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	if _, ok, err := h.load(ctx, c, id); !ok {
		return err
	}
	list, err := h.Payments.ListByBooking(ctx, id)
	if err != nil {
		return serverError(c, "failed to load payments", err)
	}
	paid, err := h.Payments.SumByBooking(ctx, id)
	if err != nil {
		return serverError(c, "failed to load payments", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list, "paid_total": paid})
}

type paymentReq struct {
	Amount        model.Amount `json:"amount"`
	PaymentMethod string       `json:"payment_method"`
	Notes         string       `json:"notes"`
}

// PaymentStatusFor derives the payment status after a payment: paid once
// the ledger covers the net amount owed, partial before that.
func PaymentStatusFor(paid, net float64) string {
	if paid >= net && paid > 0 {
		return model.PaymentPaid
	}
	if paid > 0 {
		return model.PaymentPartial
	}
	return model.PaymentPending
}

// RecordPayment appends to the ledger and updates payment_status.  The
// booking's payment_amount, which is the price, is left alone.  Refunded
// bookings keep their status.
func (h *AdminBookingHandler) RecordPayment(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	var req paymentReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive", "field": "amount"})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	b, ok, err := h.load(ctx, c, id)
	if !ok {
		return err
	}
	p := model.BookingPayment{
		BookingID:     id,
		Amount:        req.Amount.Float64(),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Notes:         strings.TrimSpace(req.Notes),
	}
	if err := h.Payments.Create(ctx, &p); err != nil {
		return serverError(c, "failed to record payment", err)
	}
	paid, err := h.Payments.SumByBooking(ctx, id)
	if err != nil {
		return serverError(c, "failed to load payments", err)
	}

	status := b.PaymentStatus
	if status != model.PaymentRefunded {
		status = PaymentStatusFor(paid, stats.NetAmount(b.Booking, b.TourCost))
		if status != b.PaymentStatus {
			if err := h.Bookings.Update(ctx, id, repository.BookingUpdate{PaymentStatus: &status}, middleware.Actor(c)); err != nil {
				return serverError(c, "failed to update payment status", err)
			}
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"payment": p, "paid_total": paid, "payment_status": status})
}

// Voucher streams the booking voucher as a PDF.
func (h *AdminBookingHandler) Voucher(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	b, ok, err := h.load(ctx, c, id)
	if !ok {
		return err
	}
	paid, err := h.Payments.SumByBooking(ctx, id)
	if err != nil {
		return serverError(c, "failed to load payments", err)
	}
	pdf, err := voucher.Render(b, paid)
	if err != nil {
		return serverError(c, "failed to render voucher", err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`inline; filename="booking-%d.pdf"`, id))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
