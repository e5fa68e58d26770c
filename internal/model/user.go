package model

import "time"

// User is a login identity stored in the `users` table.  Having a user row
// only proves who someone is; admin capability comes from AdminUser.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique, lower-cased email address.
//	PasswordHash – bcrypt hashed password.
//	IsActive     – inactive users cannot log in.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// AdminUser is a row in `admin_users`, the authorization source of truth.
// A session is admin only while its email has a row here.  Rows are
// provisioned out of band (see cmd/seed-admin).
type AdminUser struct {
	ID           uint64    // admin_users.id
	Email        string    // admin_users.email
	Name         string    // admin_users.name
	PasswordHash string    // admin_users.password_hash
	CreatedAt    time.Time // admin_users.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is never stored, only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
