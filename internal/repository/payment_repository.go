package repository

import (
	"context"
	"database/sql"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/model"
)

// PaymentRepo appends to and reads the booking payments ledger.  Ledger
// rows are never updated or deleted individually.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo constructs a PaymentRepo with the provided DB handle.
func NewPaymentRepo(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

// Create appends p to the ledger and fills in its id and timestamp.
func (r *PaymentRepo) Create(ctx context.Context, p *model.BookingPayment) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO booking_payments (booking_id, amount, payment_method, notes) VALUES (?,?,?,?)",
		p.BookingID, p.Amount, p.PaymentMethod, p.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return r.db.QueryRowContext(ctx, "SELECT created_at FROM booking_payments WHERE id=?", p.ID).Scan(&p.CreatedAt)
}

// ListByBooking returns the payments of one booking, oldest first.
func (r *PaymentRepo) ListByBooking(ctx context.Context, bookingID uint64) ([]model.BookingPayment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, booking_id, amount, COALESCE(payment_method, ''), COALESCE(notes, ''), created_at
		FROM booking_payments WHERE booking_id=? ORDER BY created_at, id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.BookingPayment{}
	for rows.Next() {
		var p model.BookingPayment
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Amount, &p.PaymentMethod, &p.Notes, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SumByBooking totals the ledger of one booking.
func (r *PaymentRepo) SumByBooking(ctx context.Context, bookingID uint64) (float64, error) {
	var total model.Amount
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM booking_payments WHERE booking_id=?", bookingID).Scan(&total)
	return total.Float64(), err
}
