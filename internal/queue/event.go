// Package queue carries booking lifecycle events over RabbitMQ and keeps
// an append-only log of them.
package queue

import "time"

// Event types.
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
)

// BookingEvent is published when a booking is created from the public form
// or moved to another status by an admin.  It carries enough to log or
// notify without querying the database.
type BookingEvent struct {
	Type           string    `json:"type"`
	BookingID      uint64    `json:"booking_id"`
	TourID         *uint64   `json:"tour_id,omitempty"`
	TourName       string    `json:"tour_name"`
	CustomerName   string    `json:"customer_name"`
	Email          string    `json:"email"`
	NumberOfPeople int       `json:"number_of_people"`
	Amount         float64   `json:"amount"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	ChangedBy      string    `json:"changed_by,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
