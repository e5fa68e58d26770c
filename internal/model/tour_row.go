package model

import (
	"database/sql"
	"time"
)

// TourRow mirrors the `tours` table exactly as MySQL hands it back.  The JSON
// columns are kept as raw bytes because rows written by older front ends
// hold double-encoded strings, NULLs or plain garbage in them.  A TourRow is
// only ever turned into a Tour through normalize.Tour.
type TourRow struct {
	ID                    uint64
	Slug                  string
	Name                  string
	Duration              sql.NullString
	Destinations          sql.NullString
	Description           sql.NullString
	Cost                  sql.NullInt64
	CostDetails           sql.NullString
	Pricing               []byte // tours.pricing (JSON)
	DepartureDate         sql.NullString
	NextDeparture         sql.NullString
	ImageURL              sql.NullString
	Gallery               []byte // tours.gallery (JSON)
	Highlights            []byte // tours.highlights (JSON)
	Itinerary             []byte // tours.itinerary (JSON)
	Accommodation         []byte // tours.accommodation (JSON)
	Meals                 []byte // tours.meals (JSON)
	Transport             []byte // tours.transport (JSON)
	SpiritualArrangements []byte // tours.spiritual_arrangements (JSON)
	Inclusions            []byte // tours.inclusions (JSON)
	Exclusions            []byte // tours.exclusions (JSON)
	IsDraft               bool
	TotalCapacity         sql.NullInt64
	TripType              sql.NullString
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
