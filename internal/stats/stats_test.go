package stats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/model"
)

func TestAvailabilityCountsConfirmedOnly(t *testing.T) {
	var bookings []model.Booking
	body := `[
		{"status":"confirmed","number_of_people":2},
		{"status":"confirmed","number_of_people":3},
		{"status":"confirmed","number_of_people":"5"},
		{"status":"confirmed","number_of_people":null},
		{"status":"pending","number_of_people":9},
		{"status":"cancelled","number_of_people":4}
	]`
	require.NoError(t, json.Unmarshal([]byte(body), &bookings))

	info := Availability(50, bookings)
	assert.Equal(t, 10, info.Confirmed)
	assert.Equal(t, 40, info.Remaining)
	assert.Equal(t, LevelAvailable, info.Level)
	assert.True(t, info.CanBook)
}

func TestAvailabilityLevels(t *testing.T) {
	confirmed := func(n int) model.Booking {
		return model.Booking{Status: model.BookingConfirmed, NumberOfPeople: model.Count(n)}
	}
	cases := []struct {
		capacity int
		party    int
		level    string
		canBook  bool
	}{
		{20, 9, LevelAvailable, true},
		{20, 10, LevelLow, true},
		{20, 19, LevelLow, true},
		{20, 20, LevelFull, false},
		{20, 25, LevelFull, false},
	}
	for _, tc := range cases {
		info := Availability(tc.capacity, []model.Booking{confirmed(tc.party)})
		assert.Equal(t, tc.level, info.Level, "party=%d", tc.party)
		assert.Equal(t, tc.canBook, info.CanBook, "party=%d", tc.party)
	}
}

func TestRevenueIgnoresUnconfirmed(t *testing.T) {
	bookings := []model.Booking{
		{Status: model.BookingConfirmed, PaymentAmount: 50000, DiscountAmount: 5000},
		{Status: model.BookingConfirmed, PaymentAmount: 20000},
		{Status: model.BookingCompleted, PaymentAmount: 99999},
	}
	base := Revenue(bookings)
	assert.Equal(t, 65000.0, base)

	withPending := append(bookings, model.Booking{Status: model.BookingPending, PaymentAmount: 120000})
	assert.Equal(t, base, Revenue(withPending))
}

func TestNetAmount(t *testing.T) {
	b := model.Booking{NumberOfPeople: 3, PaymentAmount: 1000, DiscountAmount: 500}
	cost := int64(20000)
	assert.Equal(t, 59500.0, NetAmount(b, &cost))
	assert.Equal(t, 500.0, NetAmount(b, nil))
}

func TestDashboard(t *testing.T) {
	tours := []model.Tour{{IsDraft: true}, {}, {}}
	bookings := []model.Booking{
		{Status: model.BookingConfirmed, PaymentStatus: model.PaymentPaid, PaymentAmount: 1000},
		{Status: model.BookingPending, PaymentStatus: model.PaymentPending, PaymentAmount: 700},
	}
	s := Dashboard(tours, bookings)
	assert.Equal(t, 3, s.Tours)
	assert.Equal(t, 2, s.PublishedTours)
	assert.Equal(t, 1, s.DraftTours)
	assert.Equal(t, 1, s.ByStatus[model.BookingConfirmed])
	assert.Equal(t, 0, s.ByStatus[model.BookingRefunded])
	assert.Equal(t, 1, s.ByPayment[model.PaymentPending])
	assert.Equal(t, 1000.0, s.Revenue)
}
