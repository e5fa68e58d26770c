package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/email"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/forms"
)

// FormService is satisfied by *forms.Service.
type FormService interface {
	SubmitBooking(ctx context.Context, req forms.BookingRequest) (forms.BookingReceipt, error)
	SubmitEnquiry(ctx context.Context, req forms.EnquiryRequest) (forms.Receipt, error)
	SubmitContact(ctx context.Context, req forms.ContactRequest) (forms.Receipt, error)
	SubscribeNewsletter(ctx context.Context, req forms.NewsletterRequest) (forms.NewsletterReceipt, error)
	SendEmail(ctx context.Context, p email.Payload, remoteIP string) error
}

// FormHandler accepts the public forms.
type FormHandler struct {
	Forms FormService
}

func NewFormHandler(f FormService) *FormHandler { return &FormHandler{Forms: f} }

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
}

func (h *FormHandler) Booking(c echo.Context) error {
	var req forms.BookingRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	req.RemoteIP = c.RealIP()
	ctx, cancel := withTimeout(c)
	defer cancel()

	rec, err := h.Forms.SubmitBooking(ctx, req)
	if err != nil {
		return flowError(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *FormHandler) Enquiry(c echo.Context) error {
	var req forms.EnquiryRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	req.RemoteIP = c.RealIP()
	ctx, cancel := withTimeout(c)
	defer cancel()

	rec, err := h.Forms.SubmitEnquiry(ctx, req)
	if err != nil {
		return flowError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *FormHandler) Contact(c echo.Context) error {
	var req forms.ContactRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	req.RemoteIP = c.RealIP()
	ctx, cancel := withTimeout(c)
	defer cancel()

	rec, err := h.Forms.SubmitContact(ctx, req)
	if err != nil {
		return flowError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

// Newsletter answers 200 for both new and repeat signups; the body tells
// them apart.
func (h *FormHandler) Newsletter(c echo.Context) error {
	var req forms.NewsletterRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	req.RemoteIP = c.RealIP()
	ctx, cancel := withTimeout(c)
	defer cancel()

	rec, err := h.Forms.SubscribeNewsletter(ctx, req)
	if err != nil {
		return flowError(c, err)
	}
	status := http.StatusCreated
	if rec.AlreadySubscribed {
		status = http.StatusOK
	}
	return c.JSON(status, rec)
}

type sendEmailResp struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SendEmail is the generic email function.  It always answers with
// {success, error?}.
func (h *FormHandler) SendEmail(c echo.Context) error {
	var p email.Payload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, sendEmailResp{Error: "invalid body"})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	err := h.Forms.SendEmail(ctx, p, c.RealIP())
	if err == nil {
		return c.JSON(http.StatusOK, sendEmailResp{Success: true})
	}
	fe, ok := forms.AsFlowError(err)
	switch {
	case ok && fe.Kind == forms.KindInvalid:
		return c.JSON(http.StatusBadRequest, sendEmailResp{Error: fe.Err.Error()})
	case ok && fe.Kind == forms.KindVerification:
		return c.JSON(http.StatusForbidden, sendEmailResp{Error: "verification_required"})
	}
	c.Logger().Errorf("send-email %s: %v", p.Type, err)
	return c.JSON(http.StatusBadGateway, sendEmailResp{Error: "email could not be sent"})
}
