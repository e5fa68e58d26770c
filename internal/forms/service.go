// Package forms runs the public form submissions: validate, check the
// reCAPTCHA token, then persist and notify.
package forms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/email"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/model"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/queue"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/recaptcha"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/repository"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/stats"
)

// TourStore looks up the tour a booking is for.
type TourStore interface {
	GetByID(ctx context.Context, id uint64) (model.Tour, error)
}

// BookingStore persists bookings, lists a tour's existing ones for the
// seat check and loads one for a resent acknowledgement.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	ListByTour(ctx context.Context, tourID uint64) ([]model.Booking, error)
	GetByID(ctx context.Context, id uint64) (model.BookingWithTour, error)
}

// NewsletterStore records newsletter signups.
type NewsletterStore interface {
	Subscribe(ctx context.Context, email string) (model.NewsletterSubscription, error)
	IsSubscribed(ctx context.Context, email string) (bool, error)
}

// Mailer is satisfied by *email.Dispatcher.
type Mailer interface {
	Dispatch(ctx context.Context, p email.Payload) error
}

// Deps wires a Service.
type Deps struct {
	Tours      TourStore
	Bookings   BookingStore
	Newsletter NewsletterStore
	Verifier   recaptcha.Verifier
	Mailer     Mailer
	Events     queue.Publisher
}

type Service struct {
	d Deps
}

func NewService(d Deps) *Service {
	if d.Events == nil {
		d.Events = queue.NoopPublisher{}
	}
	return &Service{d: d}
}

// BookingRequest is the public booking form.
type BookingRequest struct {
	TourID                uint64      `json:"tour_id"`
	CustomerName          string      `json:"customer_name"`
	Email                 string      `json:"email"`
	MobileNumber          string      `json:"mobile_number"`
	EmergencyContactName  string      `json:"emergency_contact_name"`
	EmergencyContactPhone string      `json:"emergency_contact_phone"`
	DietaryRequirements   string      `json:"dietary_requirements"`
	SpecialRequests       string      `json:"special_requests"`
	NumberOfPeople        model.Count `json:"number_of_people"`
	RecaptchaToken        string      `json:"recaptchaToken"`
	RemoteIP              string      `json:"-"`
}

// BookingReceipt is returned once the booking row exists.  A failed
// notification leaves EmailSent false but is not an error.
type BookingReceipt struct {
	Booking    model.PublicBooking `json:"booking"`
	EmailSent  bool                `json:"email_sent"`
	EmailError string              `json:"email_error,omitempty"`
}

// EnquiryRequest asks about a trip without booking it.
type EnquiryRequest struct {
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	Message        string      `json:"message"`
	TourName       string      `json:"tourName"`
	TourSlug       string      `json:"tourSlug"`
	NumberOfPeople model.Count `json:"numberOfPeople"`
	RecaptchaToken string      `json:"recaptchaToken"`
	RemoteIP       string      `json:"-"`
}

// ContactRequest is the general contact form.
type ContactRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Subject        string `json:"subject"`
	Message        string `json:"message"`
	RecaptchaToken string `json:"recaptchaToken"`
	RemoteIP       string `json:"-"`
}

// NewsletterRequest only needs an address.
type NewsletterRequest struct {
	Email          string `json:"email"`
	RecaptchaToken string `json:"recaptchaToken"`
	RemoteIP       string `json:"-"`
}

// NewsletterReceipt distinguishes a fresh signup from a repeat one.
type NewsletterReceipt struct {
	Email             string `json:"email"`
	AlreadySubscribed bool   `json:"already_subscribed"`
}

// Receipt acknowledges a mail-only submission.
type Receipt struct {
	Stage Stage `json:"stage"`
}

func (s *Service) verify(ctx context.Context, token, ip string) error {
	if strings.TrimSpace(token) == "" {
		return &FlowError{Stage: StageVerifying, Kind: KindVerification, Field: "recaptchaToken", Err: recaptcha.ErrMissingToken}
	}
	if err := s.d.Verifier.Verify(ctx, token, ip); err != nil {
		if errors.Is(err, recaptcha.ErrRejected) || errors.Is(err, recaptcha.ErrReplayed) || errors.Is(err, recaptcha.ErrMissingToken) {
			return &FlowError{Stage: StageVerifying, Kind: KindVerification, Field: "recaptchaToken", Err: err}
		}
		return &FlowError{Stage: StageVerifying, Kind: KindRemote, Err: err}
	}
	return nil
}

// SubmitBooking stores a pending booking and then notifies the office and
// the customer.  The booking is kept even when notification fails.
func (s *Service) SubmitBooking(ctx context.Context, req BookingRequest) (BookingReceipt, error) {
	var c checker
	if req.TourID == 0 {
		c.err = invalid(StageValidating, "tour_id", "is required")
	}
	c.required("customer_name", req.CustomerName)
	c.email("email", req.Email)
	c.phone("mobile_number", req.MobileNumber)
	c.positive("number_of_people", req.NumberOfPeople.Int())
	if c.err != nil {
		return BookingReceipt{}, c.err
	}

	if err := s.verify(ctx, req.RecaptchaToken, req.RemoteIP); err != nil {
		return BookingReceipt{}, err
	}

	tour, err := s.d.Tours.GetByID(ctx, req.TourID)
	if errors.Is(err, repository.ErrTourNotFound) {
		return BookingReceipt{}, invalid(StageSubmitting, "tour_id", "tour not found")
	}
	if err != nil {
		return BookingReceipt{}, remote(err)
	}
	if tour.IsDraft {
		return BookingReceipt{}, invalid(StageSubmitting, "tour_id", "tour is not open for booking")
	}
	existing, err := s.d.Bookings.ListByTour(ctx, tour.ID)
	if err != nil {
		return BookingReceipt{}, remote(err)
	}
	avail := stats.Availability(tour.TotalCapacity, existing)
	if !avail.CanBook {
		return BookingReceipt{}, invalid(StageSubmitting, "tour_id", "tour is fully booked")
	}
	people := req.NumberOfPeople.Int()
	if people > avail.Remaining {
		return BookingReceipt{}, invalid(StageSubmitting, "number_of_people", fmt.Sprintf("only %d seats left", avail.Remaining))
	}

	b := model.Booking{
		TourID:                &tour.ID,
		CustomerName:          strings.TrimSpace(req.CustomerName),
		Email:                 strings.TrimSpace(req.Email),
		MobileNumber:          strings.TrimSpace(req.MobileNumber),
		EmergencyContactName:  strings.TrimSpace(req.EmergencyContactName),
		EmergencyContactPhone: strings.TrimSpace(req.EmergencyContactPhone),
		DietaryRequirements:   strings.TrimSpace(req.DietaryRequirements),
		SpecialRequests:       strings.TrimSpace(req.SpecialRequests),
		NumberOfPeople:        model.Count(people),
		PaymentAmount:         model.Amount(float64(tour.Cost) * float64(people)),
		PaymentStatus:         model.PaymentPending,
		Status:                model.BookingPending,
	}
	if err := s.d.Bookings.Create(ctx, &b); err != nil {
		return BookingReceipt{}, remote(err)
	}

	if err := s.d.Events.Publish(ctx, queue.BookingEvent{
		Type:           queue.EventBookingCreated,
		BookingID:      b.ID,
		TourID:         b.TourID,
		TourName:       tour.Name,
		CustomerName:   b.CustomerName,
		Email:          b.Email,
		NumberOfPeople: people,
		Amount:         b.PaymentAmount.Float64(),
		Status:         b.Status,
		OccurredAt:     time.Now().UTC(),
	}); err != nil {
		log.Warnf("forms: booking %d event not published: %v", b.ID, err)
	}

	receipt := BookingReceipt{Booking: b.Public(), EmailSent: true}
	err = s.d.Mailer.Dispatch(ctx, bookingPayload(b, tour.Name, tour.Slug, tour.DepartureDate))
	if err != nil {
		log.Errorf("forms: booking %d saved but notification failed: %v", b.ID, err)
		receipt.EmailSent = false
		receipt.EmailError = "notification email could not be sent"
	}
	return receipt, nil
}

// SubmitEnquiry mails a trip enquiry to the office.
func (s *Service) SubmitEnquiry(ctx context.Context, req EnquiryRequest) (Receipt, error) {
	var c checker
	c.required("name", req.Name)
	c.email("email", req.Email)
	c.phone("phone", req.Phone)
	if c.err != nil {
		return Receipt{}, c.err
	}
	return s.mail(ctx, req.RecaptchaToken, req.RemoteIP, email.Payload{
		Type:           email.KindEnquiry,
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		Message:        req.Message,
		TourName:       req.TourName,
		TourSlug:       req.TourSlug,
		NumberOfPeople: req.NumberOfPeople,
	})
}

// SubmitContact mails the contact form to the office.
func (s *Service) SubmitContact(ctx context.Context, req ContactRequest) (Receipt, error) {
	var c checker
	c.required("name", req.Name)
	c.email("email", req.Email)
	c.required("message", req.Message)
	if c.err != nil {
		return Receipt{}, c.err
	}
	return s.mail(ctx, req.RecaptchaToken, req.RemoteIP, email.Payload{
		Type:    email.KindContact,
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Subject: strings.TrimSpace(req.Subject),
		Message: req.Message,
	})
}

func (s *Service) mail(ctx context.Context, token, ip string, p email.Payload) (Receipt, error) {
	if err := s.verify(ctx, token, ip); err != nil {
		return Receipt{}, err
	}
	if err := s.d.Mailer.Dispatch(ctx, p); err != nil {
		return Receipt{}, remote(err)
	}
	return Receipt{Stage: StageDone}, nil
}

// SubscribeNewsletter stores a lower-cased address.  A repeat signup is
// reported through AlreadySubscribed and sends no mail.
func (s *Service) SubscribeNewsletter(ctx context.Context, req NewsletterRequest) (NewsletterReceipt, error) {
	var c checker
	c.email("email", req.Email)
	if c.err != nil {
		return NewsletterReceipt{}, c.err
	}
	if err := s.verify(ctx, req.RecaptchaToken, req.RemoteIP); err != nil {
		return NewsletterReceipt{}, err
	}

	sub, err := s.d.Newsletter.Subscribe(ctx, req.Email)
	if errors.Is(err, repository.ErrDuplicate) {
		return NewsletterReceipt{Email: strings.ToLower(strings.TrimSpace(req.Email)), AlreadySubscribed: true}, nil
	}
	if err != nil {
		return NewsletterReceipt{}, remote(err)
	}

	if err := s.d.Mailer.Dispatch(ctx, email.Payload{Type: email.KindNewsletter, Email: sub.Email}); err != nil {
		log.Warnf("forms: welcome mail to %s failed: %v", sub.Email, err)
	}
	return NewsletterReceipt{Email: sub.Email}, nil
}

// SendEmail serves the generic email function: it verifies the token and
// dispatches p by type.  "verify-recaptcha" only checks the token.  Booking
// and newsletter mail only goes to records that already exist: a booking
// acknowledgement is rebuilt from the stored booking, whose email must
// match, and a welcome mail needs a current subscription.
func (s *Service) SendEmail(ctx context.Context, p email.Payload, remoteIP string) error {
	switch p.Type {
	case email.KindContact, email.KindEnquiry, email.KindBooking, email.KindNewsletter, email.KindVerifyRecaptcha:
	default:
		return invalid(StageValidating, "type", "unknown type")
	}
	if p.Type != email.KindVerifyRecaptcha {
		var c checker
		if p.Type == email.KindContact || p.Type == email.KindEnquiry {
			c.required("name", p.Name)
		}
		c.email("email", p.Email)
		if c.err == nil && p.Type == email.KindBooking && p.BookingID == 0 {
			c.err = invalid(StageValidating, "bookingId", "is required")
		}
		if c.err != nil {
			return c.err
		}
	}
	if err := s.verify(ctx, p.RecaptchaToken, remoteIP); err != nil {
		return err
	}

	switch p.Type {
	case email.KindVerifyRecaptcha:
		return nil
	case email.KindBooking:
		b, err := s.d.Bookings.GetByID(ctx, p.BookingID)
		if errors.Is(err, repository.ErrBookingNotFound) || (err == nil && !strings.EqualFold(b.Email, strings.TrimSpace(p.Email))) {
			return invalid(StageSubmitting, "bookingId", "no booking for this address")
		}
		if err != nil {
			return remote(err)
		}
		p = bookingPayload(b.Booking, deref(b.TourName), deref(b.TourSlug), "")
	case email.KindNewsletter:
		ok, err := s.d.Newsletter.IsSubscribed(ctx, p.Email)
		if err != nil {
			return remote(err)
		}
		if !ok {
			return invalid(StageSubmitting, "email", "address is not subscribed")
		}
		p = email.Payload{Type: email.KindNewsletter, Email: strings.ToLower(strings.TrimSpace(p.Email))}
	}
	if err := s.d.Mailer.Dispatch(ctx, p); err != nil {
		return remote(err)
	}
	return nil
}

func bookingPayload(b model.Booking, tourName, tourSlug, departure string) email.Payload {
	return email.Payload{
		Type:           email.KindBooking,
		Name:           b.CustomerName,
		Email:          b.Email,
		Phone:          b.MobileNumber,
		Message:        b.SpecialRequests,
		TourName:       tourName,
		TourSlug:       tourSlug,
		DepartureDate:  departure,
		NumberOfPeople: b.NumberOfPeople,
		BookingID:      b.ID,
		TotalAmount:    b.PaymentAmount.Float64(),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
