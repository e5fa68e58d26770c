package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/markdown"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/model"
)

// Kind selects what a Payload is about.
type Kind string

const (
	KindContact         Kind = "contact"
	KindEnquiry         Kind = "enquiry"
	KindBooking         Kind = "booking"
	KindNewsletter      Kind = "newsletter"
	KindVerifyRecaptcha Kind = "verify-recaptcha"
)

// ErrUnknownKind is returned for a payload type the dispatcher cannot mail.
var ErrUnknownKind = errors.New("email: unknown payload type")

// Payload is the body accepted by the send-email endpoint.  Type picks
// the message; the other fields are filled as the form provides them.
type Payload struct {
	Type           Kind        `json:"type"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	Message        string      `json:"message"`
	Subject        string      `json:"subject"`
	RecaptchaToken string      `json:"recaptchaToken"`
	TourName       string      `json:"tourName"`
	TourSlug       string      `json:"tourSlug"`
	DepartureDate  string      `json:"departureDate"`
	NumberOfPeople model.Count `json:"numberOfPeople"`
	BookingID      uint64      `json:"bookingId"`
	TotalAmount    float64     `json:"totalAmount"`
}

// Dispatcher turns payloads into mail.  Office notifications go to
// adminTo with the customer as Reply-To.
type Dispatcher struct {
	sender  Sender
	adminTo string
}

func NewDispatcher(sender Sender, adminTo string) *Dispatcher {
	return &Dispatcher{sender: sender, adminTo: adminTo}
}

// Dispatch sends every message belonging to p.  Bookings produce an office
// notification and a customer acknowledgement; the first failure stops
// the sequence.
func (d *Dispatcher) Dispatch(ctx context.Context, p Payload) error {
	msgs, err := d.compose(p)
	if err != nil {
		return err
	}
	for _, m := range msgs {
		if _, err := d.sender.Send(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) compose(p Payload) ([]SendRequest, error) {
	switch p.Type {
	case KindContact:
		subject := "New contact message from " + p.Name
		if p.Subject != "" {
			subject = "Contact: " + p.Subject
		}
		return d.office(p, subject, contactBody(p))
	case KindEnquiry:
		return d.office(p, "Trip enquiry: "+orDash(p.TourName), enquiryBody(p))
	case KindBooking:
		office, err := d.office(p, fmt.Sprintf("New booking #%d: %s", p.BookingID, orDash(p.TourName)), bookingBody(p))
		if err != nil {
			return nil, err
		}
		ack, err := d.customer(p, "We received your booking", bookingAckBody(p))
		if err != nil {
			return nil, err
		}
		return append(office, ack...), nil
	case KindNewsletter:
		return d.customer(p, "Welcome to Omys Sacred Journeys", newsletterBody())
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, p.Type)
}

func (d *Dispatcher) office(p Payload, subject, md string) ([]SendRequest, error) {
	html, err := markdown.ToHTML(md)
	if err != nil {
		return nil, err
	}
	return []SendRequest{{To: []string{d.adminTo}, Subject: subject, HTML: html, ReplyTo: p.Email}}, nil
}

func (d *Dispatcher) customer(p Payload, subject, md string) ([]SendRequest, error) {
	html, err := markdown.ToHTML(md)
	if err != nil {
		return nil, err
	}
	return []SendRequest{{To: []string{p.Email}, Subject: subject, HTML: html}}, nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func contactBody(p Payload) string {
	return fmt.Sprintf("**Name:** %s\n**Email:** %s\n**Phone:** %s\n\n%s\n",
		p.Name, p.Email, orDash(p.Phone), orDash(p.Message))
}

func enquiryBody(p Payload) string {
	return fmt.Sprintf("**Trip:** %s\n**Name:** %s\n**Email:** %s\n**Phone:** %s\n**Travellers:** %d\n\n%s\n",
		orDash(p.TourName), p.Name, p.Email, orDash(p.Phone), p.NumberOfPeople.Int(), orDash(p.Message))
}

func bookingBody(p Payload) string {
	return fmt.Sprintf("**Booking:** #%d\n**Trip:** %s\n**Departure:** %s\n**Name:** %s\n**Email:** %s\n**Phone:** %s\n**Travellers:** %d\n**Amount:** %.2f\n\n%s\n",
		p.BookingID, orDash(p.TourName), orDash(p.DepartureDate), p.Name, p.Email, orDash(p.Phone),
		p.NumberOfPeople.Int(), p.TotalAmount, orDash(p.Message))
}

func bookingAckBody(p Payload) string {
	return fmt.Sprintf("Namaste %s,\n\nThank you for booking **%s** for %d traveller(s). "+
		"Your booking reference is **#%d**. Our team will contact you shortly to confirm your seats and payment.\n",
		p.Name, orDash(p.TourName), p.NumberOfPeople.Int(), p.BookingID)
}

func newsletterBody() string {
	return "Thank you for subscribing. We will write to you about new yatras and departure dates.\n"
}
