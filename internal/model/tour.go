package model

import "time"

// Trip types.
const (
	TripDomestic      = "domestic"
	TripInternational = "international"
)

// DefaultCapacity is the seat count applied when a tour has no explicit
// total_capacity.
const DefaultCapacity = 50

// Tour is a sellable travel package as consumed by handlers and the catalog
// engine.  Every structured field has already been resolved by the
// normalize package; nothing in here is raw JSON.
//
// Fields:
//
//	ID            – tours.id
//	Slug          – unique human readable key used in /trip/:slug
//	Cost          – base price per person (whole currency units)
//	DepartureDate – YYYY-MM-DD
//	NextDeparture – optional follow-up departure (YYYY-MM-DD)
//	IsDraft       – drafts are hidden from public listings
//	TotalCapacity – seats on offer; confirmed bookings consume them
type Tour struct {
	ID                    uint64         `json:"id"`
	Slug                  string         `json:"slug"`
	Name                  string         `json:"name"`
	Duration              string         `json:"duration"`
	Destinations          string         `json:"destinations"`
	Description           string         `json:"description"`
	Cost                  int64          `json:"cost"`
	CostDetails           string         `json:"cost_details"`
	Pricing               Pricing        `json:"pricing"`
	DepartureDate         string         `json:"departure_date"`
	NextDeparture         *string        `json:"next_departure,omitempty"`
	ImageURL              string         `json:"image_url"`
	Gallery               []string       `json:"gallery"`
	Highlights            []string       `json:"highlights"`
	Itinerary             []ItineraryDay `json:"itinerary"`
	Accommodation         Accommodation  `json:"accommodation"`
	Meals                 Meals          `json:"meals"`
	Transport             Transport      `json:"transport"`
	SpiritualArrangements []string       `json:"spiritualArrangements"`
	Inclusions            []string       `json:"inclusions"`
	Exclusions            []string       `json:"exclusions"`
	IsDraft               bool           `json:"isDraft"`
	TotalCapacity         int            `json:"total_capacity"`
	TripType              string         `json:"trip_type"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}

// ItineraryDay is one day of a tour programme.
type ItineraryDay struct {
	Day        int      `json:"day"`
	Title      string   `json:"title"`
	Activities []string `json:"activities"`
}

// Accommodation describes where travellers stay.
type Accommodation struct {
	Hotels    []string `json:"hotels"`
	RoomType  string   `json:"roomType"`
	Amenities []string `json:"amenities"`
}

// Meals describes the meal plan.
type Meals struct {
	Included string `json:"included"`
	Special  string `json:"special"`
	Note     string `json:"note"`
}

// Transport describes pickup/drop and vehicle arrangements.
type Transport struct {
	Pickup  string `json:"pickup"`
	Drop    string `json:"drop"`
	Vehicle string `json:"vehicle"`
	Luggage string `json:"luggage"`
}

// Pricing holds the free-text price variants shown next to the base cost.
type Pricing struct {
	Double    string `json:"double"`
	Single    string `json:"single"`
	Child     string `json:"child"`
	Group     string `json:"group"`
	EarlyBird string `json:"earlyBird"`
}
