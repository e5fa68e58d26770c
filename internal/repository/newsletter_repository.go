package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/model"
)

// NewsletterRepo stores newsletter subscriptions.
type NewsletterRepo struct {
	db *sql.DB
}

// NewNewsletterRepo constructs a NewsletterRepo with the provided DB handle.
func NewNewsletterRepo(db *sql.DB) *NewsletterRepo {
	return &NewsletterRepo{db: db}
}

// Subscribe inserts email in lower case.  An address that is already
// subscribed yields ErrDuplicate and no new row.
func (r *NewsletterRepo) Subscribe(ctx context.Context, email string) (model.NewsletterSubscription, error) {
	s := model.NewsletterSubscription{Email: strings.ToLower(strings.TrimSpace(email))}
	res, err := r.db.ExecContext(ctx, "INSERT INTO newsletter_subscriptions (email) VALUES (?)", s.Email)
	if err != nil {
		if isDuplicate(err) {
			return s, ErrDuplicate
		}
		return s, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return s, err
	}
	s.ID = uint64(id)
	return s, nil
}

// IsSubscribed reports whether email has a subscription.
func (r *NewsletterRepo) IsSubscribed(ctx context.Context, email string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM newsletter_subscriptions WHERE email=? LIMIT 1",
		strings.ToLower(strings.TrimSpace(email))).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
