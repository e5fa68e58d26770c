// Package stats derives seat availability and revenue figures from booking
// lists.
package stats

import "github.com/propixxels/omys-sacred-journeys-sub000/internal/model"

// Availability levels.
const (
	LevelAvailable = "available"
	LevelLow       = "low"
	LevelFull      = "full"
)

// lowThreshold is the largest remaining seat count still shown as "low".
const lowThreshold = 10

// AvailabilityInfo is the seat picture for one tour.
type AvailabilityInfo struct {
	Capacity  int    `json:"capacity"`
	Confirmed int    `json:"confirmed"`
	Remaining int    `json:"remaining"`
	Level     string `json:"level"`
	CanBook   bool   `json:"can_book"`
}

// Availability counts the people on confirmed bookings against
// totalCapacity.  Remaining may go negative when a tour is oversold.
func Availability(totalCapacity int, bookings []model.Booking) AvailabilityInfo {
	confirmed := 0
	for _, b := range bookings {
		if b.Status != model.BookingConfirmed {
			continue
		}
		confirmed += b.NumberOfPeople.Int()
	}
	remaining := totalCapacity - confirmed

	info := AvailabilityInfo{
		Capacity:  totalCapacity,
		Confirmed: confirmed,
		Remaining: remaining,
		CanBook:   remaining > 0,
	}
	switch {
	case remaining <= 0:
		info.Level = LevelFull
	case remaining <= lowThreshold:
		info.Level = LevelLow
	default:
		info.Level = LevelAvailable
	}
	return info
}
