package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/model"
	"github.com/propixxels/omys-sacred-journeys-sub000/internal/normalize"
)

// TourRepo manages persistence for tours.  Rows leave this type only as
// normalized model.Tour values.
type TourRepo struct {
	db *sql.DB
}

// NewTourRepo constructs a TourRepo with the provided DB handle.
func NewTourRepo(db *sql.DB) *TourRepo {
	return &TourRepo{db: db}
}

const tourColumns = `id, slug, name, duration, destinations, description, cost, cost_details,
	pricing, departure_date, next_departure, image_url, gallery, highlights, itinerary,
	accommodation, meals, transport, spiritual_arrangements, inclusions, exclusions,
	is_draft, total_capacity, trip_type, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTour(s rowScanner) (model.Tour, error) {
	var r model.TourRow
	err := s.Scan(
		&r.ID, &r.Slug, &r.Name, &r.Duration, &r.Destinations, &r.Description, &r.Cost, &r.CostDetails,
		&r.Pricing, &r.DepartureDate, &r.NextDeparture, &r.ImageURL, &r.Gallery, &r.Highlights, &r.Itinerary,
		&r.Accommodation, &r.Meals, &r.Transport, &r.SpiritualArrangements, &r.Inclusions, &r.Exclusions,
		&r.IsDraft, &r.TotalCapacity, &r.TripType, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return model.Tour{}, err
	}
	return normalize.Tour(r), nil
}

func (r *TourRepo) list(ctx context.Context, where string) ([]model.Tour, error) {
	q := "SELECT " + tourColumns + " FROM tours " + where + " ORDER BY created_at DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Tour{}
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListPublished returns every non-draft tour, newest first.
func (r *TourRepo) ListPublished(ctx context.Context) ([]model.Tour, error) {
	return r.list(ctx, "WHERE is_draft = FALSE")
}

// ListAll returns drafts and published tours, newest first.
func (r *TourRepo) ListAll(ctx context.Context) ([]model.Tour, error) {
	return r.list(ctx, "")
}

// GetBySlug fetches one tour by its unique slug.
func (r *TourRepo) GetBySlug(ctx context.Context, slug string) (model.Tour, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+tourColumns+" FROM tours WHERE slug = ? LIMIT 1", slug)
	t, err := scanTour(row)
	return t, notFound(err, ErrTourNotFound)
}

// GetByID fetches one tour by primary key.
func (r *TourRepo) GetByID(ctx context.Context, id uint64) (model.Tour, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+tourColumns+" FROM tours WHERE id = ? LIMIT 1", id)
	t, err := scanTour(row)
	return t, notFound(err, ErrTourNotFound)
}

// tourArgs flattens the writable columns of t in tourWritable order.
func tourArgs(t *model.Tour) ([]any, error) {
	docs := []any{t.Pricing, t.Gallery, t.Highlights, t.Itinerary, t.Accommodation,
		t.Meals, t.Transport, t.SpiritualArrangements, t.Inclusions, t.Exclusions}
	enc := make([]any, len(docs))
	for i, d := range docs {
		b, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("encode tour column %d: %w", i, err)
		}
		enc[i] = b
	}
	var next any
	if t.NextDeparture != nil {
		next = *t.NextDeparture
	}
	args := []any{t.Slug, t.Name, t.Duration, t.Destinations, t.Description, t.Cost, t.CostDetails,
		enc[0], t.DepartureDate, next, t.ImageURL}
	args = append(args, enc[1:]...)
	args = append(args, t.IsDraft, t.TotalCapacity, t.TripType)
	return args, nil
}

const tourWritable = `slug, name, duration, destinations, description, cost, cost_details,
	pricing, departure_date, next_departure, image_url, gallery, highlights, itinerary,
	accommodation, meals, transport, spiritual_arrangements, inclusions, exclusions,
	is_draft, total_capacity, trip_type`

// Create inserts t and reloads it so the caller gets the stored shape and
// timestamps.  A taken slug yields ErrDuplicate.
func (r *TourRepo) Create(ctx context.Context, t *model.Tour) error {
	args, err := tourArgs(t)
	if err != nil {
		return err
	}
	q := "INSERT INTO tours (" + tourWritable + ") VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)"
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*t = stored
	return nil
}

// Update replaces every editable column of tour id with t.
func (r *TourRepo) Update(ctx context.Context, id uint64, t *model.Tour) error {
	args, err := tourArgs(t)
	if err != nil {
		return err
	}
	const q = `UPDATE tours SET slug=?, name=?, duration=?, destinations=?, description=?, cost=?,
		cost_details=?, pricing=?, departure_date=?, next_departure=?, image_url=?, gallery=?,
		highlights=?, itinerary=?, accommodation=?, meals=?, transport=?, spiritual_arrangements=?,
		inclusions=?, exclusions=?, is_draft=?, total_capacity=?, trip_type=?, updated_at=NOW()
		WHERE id=?`
	if _, err := r.db.ExecContext(ctx, q, append(args, id)...); err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	stored, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*t = stored
	return nil
}

// SetDraft flips the publication state of a tour.
func (r *TourRepo) SetDraft(ctx context.Context, id uint64, draft bool) error {
	res, err := r.db.ExecContext(ctx, "UPDATE tours SET is_draft=?, updated_at=NOW() WHERE id=?", draft, id)
	if err != nil {
		return err
	}
	return r.affected(ctx, res, id)
}

// Delete removes a tour.  Bookings keep their row with tour_id set to
// NULL by the foreign key.
func (r *TourRepo) Delete(ctx context.Context, id uint64, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM tours WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTourNotFound
	}
	return nil
}

// affected resolves a zero row count: MySQL reports 0 both for a missing
// row and for an update that changed nothing.
func (r *TourRepo) affected(ctx context.Context, res sql.Result, id uint64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var one int
	err = r.db.QueryRowContext(ctx, "SELECT 1 FROM tours WHERE id=?", id).Scan(&one)
	return notFound(err, ErrTourNotFound)
}
