package catalog

import (
	"net/url"
	"strings"
	"time"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/model"
)

// BookingFilter narrows the admin booking list.  Status and PaymentStatus
// match exactly; "" and "all" skip the check.
type BookingFilter struct {
	Search        string
	Status        string
	PaymentStatus string
	DateFrom      *time.Time
	DateTo        *time.Time
}

// BookingResult is the outcome of FilterBookings.
type BookingResult struct {
	Items    []model.BookingWithTour `json:"items"`
	Total    int                     `json:"total"`
	Filtered int                     `json:"filtered"`
}

// FilterBookings keeps the bookings matching f in their original order.
func FilterBookings(bookings []model.BookingWithTour, f BookingFilter) BookingResult {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	from, to := dayBounds(f.DateFrom, f.DateTo)

	out := make([]model.BookingWithTour, 0, len(bookings))
	for _, b := range bookings {
		if search != "" &&
			!strings.Contains(strings.ToLower(b.CustomerName), search) &&
			!strings.Contains(strings.ToLower(b.Email), search) &&
			!strings.Contains(b.MobileNumber, search) {
			continue
		}
		if !exactOrAll(f.Status, b.Status) || !exactOrAll(f.PaymentStatus, b.PaymentStatus) {
			continue
		}
		if (from != nil || to != nil) && !inBounds(b.BookingDate, from, to) {
			continue
		}
		out = append(out, b)
	}
	return BookingResult{Items: out, Total: len(bookings), Filtered: len(out)}
}

func exactOrAll(want, got string) bool {
	return want == "" || want == "all" || want == got
}

// ParseBookingQuery builds a BookingFilter from admin list parameters.
func ParseBookingQuery(q url.Values) BookingFilter {
	search := q.Get("q")
	if search == "" {
		search = q.Get("search")
	}
	return BookingFilter{
		Search:        search,
		Status:        q.Get("status"),
		PaymentStatus: q.Get("payment_status"),
		DateFrom:      dateParam(q.Get("date_from")),
		DateTo:        dateParam(q.Get("date_to")),
	}
}
