package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/model"
)

// BookingRepo manages persistence for bookings.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the provided DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// BookingUpdate carries the admin-editable booking fields.  Nil fields
// are left unchanged.
type BookingUpdate struct {
	PaymentAmount  *model.Amount
	DiscountAmount *model.Amount
	PaymentStatus  *string
	InternalNotes  *string
}

const bookingColumns = `b.id, b.tour_id, b.customer_name, b.email, b.mobile_number,
	b.emergency_contact_name, b.emergency_contact_phone, b.dietary_requirements, b.special_requests,
	b.number_of_people, b.payment_amount, b.discount_amount, b.payment_status, b.status,
	b.booking_date, b.last_modified_by, b.last_modified_at, b.internal_notes`

const bookingJoin = `SELECT ` + bookingColumns + `, t.name, t.slug, t.cost
	FROM bookings b LEFT JOIN tours t ON t.id = b.tour_id`

func scanBooking(s rowScanner, extra ...any) (model.Booking, error) {
	var (
		b          model.Booking
		tourID     sql.NullInt64
		emName     sql.NullString
		emPhone    sql.NullString
		dietary    sql.NullString
		special    sql.NullString
		modifiedBy sql.NullString
		modifiedAt sql.NullTime
		notes      sql.NullString
	)
	dest := []any{
		&b.ID, &tourID, &b.CustomerName, &b.Email, &b.MobileNumber,
		&emName, &emPhone, &dietary, &special,
		&b.NumberOfPeople, &b.PaymentAmount, &b.DiscountAmount, &b.PaymentStatus, &b.Status,
		&b.BookingDate, &modifiedBy, &modifiedAt, &notes,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return model.Booking{}, err
	}
	if tourID.Valid {
		id := uint64(tourID.Int64)
		b.TourID = &id
	}
	b.EmergencyContactName = emName.String
	b.EmergencyContactPhone = emPhone.String
	b.DietaryRequirements = dietary.String
	b.SpecialRequests = special.String
	b.LastModifiedBy = modifiedBy.String
	if modifiedAt.Valid {
		at := modifiedAt.Time
		b.LastModifiedAt = &at
	}
	b.InternalNotes = notes.String
	return b, nil
}

func scanBookingWithTour(s rowScanner) (model.BookingWithTour, error) {
	var (
		name sql.NullString
		slug sql.NullString
		cost sql.NullInt64
	)
	b, err := scanBooking(s, &name, &slug, &cost)
	if err != nil {
		return model.BookingWithTour{}, err
	}
	out := model.BookingWithTour{Booking: b}
	if name.Valid {
		out.TourName = &name.String
	}
	if slug.Valid {
		out.TourSlug = &slug.String
	}
	if cost.Valid {
		out.TourCost = &cost.Int64
	}
	return out, nil
}

// Create inserts a booking and fills in its id.  BookingDate is set here
// when the caller left it zero.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	if b.BookingDate.IsZero() {
		b.BookingDate = time.Now().UTC()
	}
	const q = `INSERT INTO bookings (tour_id, customer_name, email, mobile_number,
		emergency_contact_name, emergency_contact_phone, dietary_requirements, special_requests,
		number_of_people, payment_amount, discount_amount, payment_status, status, booking_date)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	var tourID any
	if b.TourID != nil {
		tourID = *b.TourID
	}
	res, err := r.db.ExecContext(ctx, q, tourID, b.CustomerName, b.Email, b.MobileNumber,
		b.EmergencyContactName, b.EmergencyContactPhone, b.DietaryRequirements, b.SpecialRequests,
		b.NumberOfPeople, b.PaymentAmount, b.DiscountAmount, b.PaymentStatus, b.Status, b.BookingDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByID fetches one booking joined with its tour.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.BookingWithTour, error) {
	row := r.db.QueryRowContext(ctx, bookingJoin+" WHERE b.id = ? LIMIT 1", id)
	b, err := scanBookingWithTour(row)
	return b, notFound(err, ErrBookingNotFound)
}

// ListWithTour returns every booking joined with its tour, newest first.
func (r *BookingRepo) ListWithTour(ctx context.Context) ([]model.BookingWithTour, error) {
	rows, err := r.db.QueryContext(ctx, bookingJoin+" ORDER BY b.booking_date DESC, b.id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.BookingWithTour{}
	for rows.Next() {
		b, err := scanBookingWithTour(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListByTour returns the bookings of one tour.  It is read fresh on every
// availability check.
func (r *BookingRepo) ListByTour(ctx context.Context, tourID uint64) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings b WHERE b.tour_id = ? ORDER BY b.booking_date DESC", tourID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateStatus moves a booking through the workflow and stamps who did it.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status, by string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET status=?, last_modified_by=?, last_modified_at=NOW() WHERE id=?",
		status, by, id)
	if err != nil {
		return err
	}
	return r.affected(ctx, res, id)
}

// Update applies the non-nil fields of u and stamps who did it.
func (r *BookingRepo) Update(ctx context.Context, id uint64, u BookingUpdate, by string) error {
	sets := "last_modified_by=?, last_modified_at=NOW()"
	args := []any{by}
	if u.PaymentAmount != nil {
		sets += ", payment_amount=?"
		args = append(args, *u.PaymentAmount)
	}
	if u.DiscountAmount != nil {
		sets += ", discount_amount=?"
		args = append(args, *u.DiscountAmount)
	}
	if u.PaymentStatus != nil {
		sets += ", payment_status=?"
		args = append(args, *u.PaymentStatus)
	}
	if u.InternalNotes != nil {
		sets += ", internal_notes=?"
		args = append(args, *u.InternalNotes)
	}
	res, err := r.db.ExecContext(ctx, "UPDATE bookings SET "+sets+" WHERE id=?", append(args, id)...)
	if err != nil {
		return err
	}
	return r.affected(ctx, res, id)
}

// Delete removes a booking and its payments.
func (r *BookingRepo) Delete(ctx context.Context, id uint64, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM bookings WHERE id=?", id)
	if err != nil {
		return err
	}
	return r.affected(ctx, res, id)
}

// affected resolves a zero row count.  MySQL counts changed rows, so a
// repeated update within the same second reports 0 for a row that exists.
func (r *BookingRepo) affected(ctx context.Context, res sql.Result, id uint64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var one int
	err = r.db.QueryRowContext(ctx, "SELECT 1 FROM bookings WHERE id=?", id).Scan(&one)
	return notFound(err, ErrBookingNotFound)
}
