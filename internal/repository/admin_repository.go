package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/model"
)

// AdminRepo reads the admin_users table, which decides who may use the
// admin surface.
type AdminRepo struct {
	db *sql.DB
}

// NewAdminRepo constructs an AdminRepo with the provided DB handle.
func NewAdminRepo(db *sql.DB) *AdminRepo {
	return &AdminRepo{db: db}
}

// IsAdmin reports whether email has a row in admin_users.  It always hits
// the database.
func (r *AdminRepo) IsAdmin(ctx context.Context, email string) (bool, error) {
	var id uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM admin_users WHERE email=? LIMIT 1",
		strings.ToLower(strings.TrimSpace(email))).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Upsert provisions an admin row, refreshing name and password hash when
// the email already exists.
func (r *AdminRepo) Upsert(ctx context.Context, a *model.AdminUser) error {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO admin_users (email, name, password_hash) VALUES (?,?,?)
		ON DUPLICATE KEY UPDATE name=VALUES(name), password_hash=VALUES(password_hash)`,
		a.Email, a.Name, a.PasswordHash)
	return err
}
