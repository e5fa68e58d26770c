package model

import (
	"time"
)

// Booking workflow statuses.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
	BookingRefunded  = "refunded"
)

// Payment statuses.
const (
	PaymentPending  = "pending"
	PaymentPartial  = "partial"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// BookingStatuses lists every valid workflow status.
var BookingStatuses = []string{BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted, BookingRefunded}

// PaymentStatuses lists every valid payment status.
var PaymentStatuses = []string{PaymentPending, PaymentPartial, PaymentPaid, PaymentRefunded}

// ValidBookingStatus reports whether s is a known workflow status.
func ValidBookingStatus(s string) bool { return contains(BookingStatuses, s) }

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool { return contains(PaymentStatuses, s) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Booking records a customer's reservation request against a tour.  It is
// created by the public booking form in pending status and then moved
// through the workflow by an admin.
//
// InternalNotes, LastModifiedBy and LastModifiedAt are admin-only and must
// never be written into public responses (see PublicBooking).
type Booking struct {
	ID                    uint64     `json:"id"`
	TourID                *uint64    `json:"tour_id"`
	CustomerName          string     `json:"customer_name"`
	Email                 string     `json:"email"`
	MobileNumber          string     `json:"mobile_number"`
	EmergencyContactName  string     `json:"emergency_contact_name"`
	EmergencyContactPhone string     `json:"emergency_contact_phone"`
	DietaryRequirements   string     `json:"dietary_requirements"`
	SpecialRequests       string     `json:"special_requests"`
	NumberOfPeople        Count      `json:"number_of_people"`
	PaymentAmount         Amount     `json:"payment_amount"`
	DiscountAmount        Amount     `json:"discount_amount"`
	PaymentStatus         string     `json:"payment_status"`
	Status                string     `json:"status"`
	BookingDate           time.Time  `json:"booking_date"`
	LastModifiedBy        string     `json:"last_modified_by,omitempty"`
	LastModifiedAt        *time.Time `json:"last_modified_at,omitempty"`
	InternalNotes         string     `json:"internal_notes,omitempty"`
}

// BookingWithTour is the admin listing shape: a booking plus the parent
// tour's display fields (nil tour fields when the tour was deleted).
type BookingWithTour struct {
	Booking
	TourName *string `json:"tour_name"`
	TourSlug *string `json:"tour_slug"`
	TourCost *int64  `json:"tour_cost"`
}

// PublicBooking is what a customer sees after submitting the booking form.
type PublicBooking struct {
	ID             uint64    `json:"id"`
	TourID         *uint64   `json:"tour_id"`
	CustomerName   string    `json:"customer_name"`
	Email          string    `json:"email"`
	NumberOfPeople int       `json:"number_of_people"`
	PaymentAmount  float64   `json:"payment_amount"`
	Status         string    `json:"status"`
	BookingDate    time.Time `json:"booking_date"`
}

// Public strips admin-only fields.
func (b Booking) Public() PublicBooking {
	return PublicBooking{
		ID:             b.ID,
		TourID:         b.TourID,
		CustomerName:   b.CustomerName,
		Email:          b.Email,
		NumberOfPeople: b.NumberOfPeople.Int(),
		PaymentAmount:  b.PaymentAmount.Float64(),
		Status:         b.Status,
		BookingDate:    b.BookingDate,
	}
}

// BookingPayment is one received payment.  Rows are append-only.
type BookingPayment struct {
	ID            uint64    `json:"id"`
	BookingID     uint64    `json:"booking_id"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewsletterSubscription is a unique, lower-cased email address.
type NewsletterSubscription struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
