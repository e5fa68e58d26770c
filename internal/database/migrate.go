package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates every table the application uses.  Statements are
// idempotent so Migrate can run on each start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tours (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		slug VARCHAR(191) NOT NULL,
		name VARCHAR(255) NOT NULL,
		duration VARCHAR(100) NULL,
		destinations TEXT NULL,
		description TEXT NULL,
		cost BIGINT NULL,
		cost_details TEXT NULL,
		pricing JSON NULL,
		departure_date VARCHAR(32) NULL,
		next_departure VARCHAR(32) NULL,
		image_url VARCHAR(1024) NULL,
		gallery JSON NULL,
		highlights JSON NULL,
		itinerary JSON NULL,
		accommodation JSON NULL,
		meals JSON NULL,
		transport JSON NULL,
		spiritual_arrangements JSON NULL,
		inclusions JSON NULL,
		exclusions JSON NULL,
		is_draft BOOLEAN NOT NULL DEFAULT FALSE,
		total_capacity INT NULL DEFAULT 50,
		trip_type VARCHAR(20) NULL DEFAULT 'domestic',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_tours_slug (slug)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		tour_id BIGINT UNSIGNED NULL,
		customer_name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		mobile_number VARCHAR(50) NOT NULL,
		emergency_contact_name VARCHAR(255) NULL,
		emergency_contact_phone VARCHAR(50) NULL,
		dietary_requirements TEXT NULL,
		special_requests TEXT NULL,
		number_of_people INT NOT NULL DEFAULT 1,
		payment_amount DECIMAL(12,2) NULL,
		discount_amount DECIMAL(12,2) NULL DEFAULT 0,
		payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		booking_date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_modified_by VARCHAR(255) NULL,
		last_modified_at DATETIME NULL,
		internal_notes TEXT NULL,
		KEY idx_bookings_tour (tour_id),
		KEY idx_bookings_date (booking_date),
		CONSTRAINT fk_bookings_tour FOREIGN KEY (tour_id) REFERENCES tours(id) ON DELETE SET NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS booking_payments (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		booking_id BIGINT UNSIGNED NOT NULL,
		amount DECIMAL(12,2) NOT NULL,
		payment_method VARCHAR(50) NULL,
		notes TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_payments_booking (booking_id),
		CONSTRAINT fk_payments_booking FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS newsletter_subscriptions (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(191) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_newsletter_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(191) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS admin_users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(191) NOT NULL,
		name VARCHAR(255) NULL,
		password_hash VARCHAR(255) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_admin_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_refresh_token_hash (token_hash),
		KEY idx_refresh_user (user_id),
		CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates missing tables in dependency order.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
