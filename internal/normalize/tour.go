package normalize

import (
	"encoding/json"
	"strings"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/model"
)

// Accommodation resolves v into an Accommodation record.
func Accommodation(v any) model.Accommodation {
	if a, ok := v.(model.Accommodation); ok {
		return model.Accommodation{
			Hotels:    List(a.Hotels, nil),
			RoomType:  a.RoomType,
			Amenities: List(a.Amenities, nil),
		}
	}
	m := Object(v, nil)
	return model.Accommodation{
		Hotels:    List(m["hotels"], nil),
		RoomType:  text(m["roomType"]),
		Amenities: List(m["amenities"], nil),
	}
}

// Meals resolves v into a Meals record.
func Meals(v any) model.Meals {
	if m, ok := v.(model.Meals); ok {
		return m
	}
	m := Object(v, nil)
	return model.Meals{
		Included: text(m["included"]),
		Special:  text(m["special"]),
		Note:     text(m["note"]),
	}
}

// Transport resolves v into a Transport record.
func Transport(v any) model.Transport {
	if t, ok := v.(model.Transport); ok {
		return t
	}
	m := Object(v, nil)
	return model.Transport{
		Pickup:  text(m["pickup"]),
		Drop:    text(m["drop"]),
		Vehicle: text(m["vehicle"]),
		Luggage: text(m["luggage"]),
	}
}

// Pricing resolves v into a Pricing record.  Older rows spell the early
// bird key as early_bird or early-bird.
func Pricing(v any) model.Pricing {
	if p, ok := v.(model.Pricing); ok {
		return p
	}
	m := Object(v, nil)
	early := text(m["earlyBird"])
	if early == "" {
		early = text(m["early_bird"])
	}
	if early == "" {
		early = text(m["early-bird"])
	}
	return model.Pricing{
		Double:    text(m["double"]),
		Single:    text(m["single"]),
		Child:     text(m["child"]),
		Group:     text(m["group"]),
		EarlyBird: early,
	}
}

// TripType returns t when it is a known trip type and domestic otherwise.
func TripType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case model.TripInternational:
		return model.TripInternational
	default:
		return model.TripDomestic
	}
}

// Tour converts a raw tours row into a display-ready Tour.
func Tour(row model.TourRow) model.Tour {
	t := model.Tour{
		ID:                    row.ID,
		Slug:                  row.Slug,
		Name:                  row.Name,
		Duration:              row.Duration.String,
		Destinations:          row.Destinations.String,
		Description:           row.Description.String,
		Cost:                  row.Cost.Int64,
		CostDetails:           row.CostDetails.String,
		Pricing:               Pricing(Decode(row.Pricing)),
		DepartureDate:         row.DepartureDate.String,
		ImageURL:              row.ImageURL.String,
		Gallery:               Gallery(Decode(row.Gallery)),
		Highlights:            List(Decode(row.Highlights), nil),
		Itinerary:             Itinerary(Decode(row.Itinerary)),
		Accommodation:         Accommodation(Decode(row.Accommodation)),
		Meals:                 Meals(Decode(row.Meals)),
		Transport:             Transport(Decode(row.Transport)),
		SpiritualArrangements: List(Decode(row.SpiritualArrangements), nil),
		Inclusions:            List(Decode(row.Inclusions), nil),
		Exclusions:            List(Decode(row.Exclusions), nil),
		IsDraft:               row.IsDraft,
		TotalCapacity:         model.DefaultCapacity,
		TripType:              TripType(row.TripType.String),
		CreatedAt:             row.CreatedAt,
		UpdatedAt:             row.UpdatedAt,
	}
	if row.NextDeparture.Valid && strings.TrimSpace(row.NextDeparture.String) != "" {
		nd := row.NextDeparture.String
		t.NextDeparture = &nd
	}
	if row.TotalCapacity.Valid {
		t.TotalCapacity = int(row.TotalCapacity.Int64)
	}
	return t
}

// TourForEdit is Tour followed by ForEdit.
func TourForEdit(row model.TourRow) model.Tour {
	return ForEdit(Tour(row))
}

// ForEdit pads every list of a Tour so the admin editor has at least one
// row to work with.  The gallery is left alone; an empty gallery is valid.
func ForEdit(t model.Tour) model.Tour {
	t.Highlights = Editable(t.Highlights)
	t.SpiritualArrangements = Editable(t.SpiritualArrangements)
	t.Inclusions = Editable(t.Inclusions)
	t.Exclusions = Editable(t.Exclusions)
	t.Accommodation.Hotels = Editable(t.Accommodation.Hotels)
	t.Accommodation.Amenities = Editable(t.Accommodation.Amenities)
	t.Itinerary = EditableItinerary(t.Itinerary)
	return t
}

// TourInput is the admin editor payload.  Scalars are typed; every
// structured field is kept raw so it goes through the same rules as a
// stored row.
type TourInput struct {
	Slug                  string          `json:"slug"`
	Name                  string          `json:"name"`
	Duration              string          `json:"duration"`
	Destinations          string          `json:"destinations"`
	Description           string          `json:"description"`
	Cost                  model.Count     `json:"cost"`
	CostDetails           string          `json:"cost_details"`
	Pricing               json.RawMessage `json:"pricing"`
	DepartureDate         string          `json:"departure_date"`
	NextDeparture         *string         `json:"next_departure"`
	ImageURL              string          `json:"image_url"`
	Gallery               json.RawMessage `json:"gallery"`
	Highlights            json.RawMessage `json:"highlights"`
	Itinerary             json.RawMessage `json:"itinerary"`
	Accommodation         json.RawMessage `json:"accommodation"`
	Meals                 json.RawMessage `json:"meals"`
	Transport             json.RawMessage `json:"transport"`
	SpiritualArrangements json.RawMessage `json:"spiritualArrangements"`
	Inclusions            json.RawMessage `json:"inclusions"`
	Exclusions            json.RawMessage `json:"exclusions"`
	IsDraft               bool            `json:"isDraft"`
	TotalCapacity         *model.Count    `json:"total_capacity"`
	TripType              string          `json:"trip_type"`
}

// FromInput builds a Tour from an editor payload.
func FromInput(in TourInput) model.Tour {
	t := model.Tour{
		Slug:                  strings.TrimSpace(in.Slug),
		Name:                  strings.TrimSpace(in.Name),
		Duration:              strings.TrimSpace(in.Duration),
		Destinations:          strings.TrimSpace(in.Destinations),
		Description:           in.Description,
		Cost:                  int64(in.Cost),
		CostDetails:           in.CostDetails,
		Pricing:               Pricing(rawValue(in.Pricing)),
		DepartureDate:         strings.TrimSpace(in.DepartureDate),
		ImageURL:              strings.TrimSpace(in.ImageURL),
		Gallery:               Gallery(rawValue(in.Gallery)),
		Highlights:            List(rawValue(in.Highlights), nil),
		Itinerary:             Itinerary(rawValue(in.Itinerary)),
		Accommodation:         Accommodation(rawValue(in.Accommodation)),
		Meals:                 Meals(rawValue(in.Meals)),
		Transport:             Transport(rawValue(in.Transport)),
		SpiritualArrangements: List(rawValue(in.SpiritualArrangements), nil),
		Inclusions:            List(rawValue(in.Inclusions), nil),
		Exclusions:            List(rawValue(in.Exclusions), nil),
		IsDraft:               in.IsDraft,
		TotalCapacity:         model.DefaultCapacity,
		TripType:              TripType(in.TripType),
	}
	if in.NextDeparture != nil && strings.TrimSpace(*in.NextDeparture) != "" {
		nd := strings.TrimSpace(*in.NextDeparture)
		t.NextDeparture = &nd
	}
	if in.TotalCapacity != nil {
		t.TotalCapacity = in.TotalCapacity.Int()
	}
	return t
}

func rawValue(m json.RawMessage) any {
	if len(m) == 0 {
		return nil
	}
	return Decode(m)
}
