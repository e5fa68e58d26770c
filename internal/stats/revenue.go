package stats

import "github.com/propixxels/omys-sacred-journeys-sub000/internal/model"

// Revenue sums payment minus discount over confirmed bookings only.
func Revenue(bookings []model.Booking) float64 {
	total := 0.0
	for _, b := range bookings {
		if b.Status != model.BookingConfirmed {
			continue
		}
		total += b.PaymentAmount.Float64() - b.DiscountAmount.Float64()
	}
	return total
}

// NetAmount is what a customer owes on a booking.  With a tour attached
// it is the tour cost times the party size, otherwise the recorded
// payment amount; the discount is taken off either way.
func NetAmount(b model.Booking, tourCost *int64) float64 {
	if tourCost != nil {
		return float64(*tourCost)*float64(b.NumberOfPeople.Int()) - b.DiscountAmount.Float64()
	}
	return b.PaymentAmount.Float64() - b.DiscountAmount.Float64()
}

// DashboardSummary is the admin landing page figures.
type DashboardSummary struct {
	Tours          int            `json:"tours"`
	PublishedTours int            `json:"published_tours"`
	DraftTours     int            `json:"draft_tours"`
	Bookings       int            `json:"bookings"`
	ByStatus       map[string]int `json:"by_status"`
	ByPayment      map[string]int `json:"by_payment_status"`
	Revenue        float64        `json:"revenue"`
}

// Dashboard builds the summary.  Every known status is present in the
// maps, with zero when nothing is in it.
func Dashboard(tours []model.Tour, bookings []model.Booking) DashboardSummary {
	s := DashboardSummary{
		Tours:     len(tours),
		Bookings:  len(bookings),
		ByStatus:  make(map[string]int, len(model.BookingStatuses)),
		ByPayment: make(map[string]int, len(model.PaymentStatuses)),
		Revenue:   Revenue(bookings),
	}
	for _, st := range model.BookingStatuses {
		s.ByStatus[st] = 0
	}
	for _, st := range model.PaymentStatuses {
		s.ByPayment[st] = 0
	}
	for _, t := range tours {
		if t.IsDraft {
			s.DraftTours++
		} else {
			s.PublishedTours++
		}
	}
	for _, b := range bookings {
		s.ByStatus[b.Status]++
		s.ByPayment[b.PaymentStatus]++
	}
	return s
}
