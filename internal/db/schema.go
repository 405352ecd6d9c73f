package db

import (
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS routes (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	from_city VARCHAR(120) NOT NULL,
	to_city VARCHAR(120) NOT NULL,
	base_price DECIMAL(10,2) NOT NULL,
	currency VARCHAR(3) NOT NULL DEFAULT 'RON',
	departure_time VARCHAR(8) NOT NULL,
	arrival_time VARCHAR(8) NOT NULL,
	stations TEXT,
	active TINYINT(1) NOT NULL DEFAULT 1,
	available_days VARCHAR(32) NOT NULL DEFAULT '',
	student_discount DECIMAL(10,2) NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_cities (from_city, to_city)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS route_closed_dates (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	route_id BIGINT NOT NULL,
	date_key VARCHAR(10) NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_route_date (route_id, date_key),
	KEY idx_route (route_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_ref VARCHAR(20) NOT NULL,
	route_id BIGINT NOT NULL,
	from_city VARCHAR(120) NOT NULL,
	to_city VARCHAR(120) NOT NULL,
	date_key VARCHAR(10) NOT NULL,
	departure_time VARCHAR(8) NOT NULL,
	arrival_time VARCHAR(8) NOT NULL,
	first_name VARCHAR(120) NOT NULL,
	last_name VARCHAR(120) NOT NULL,
	email VARCHAR(255) NOT NULL,
	phone VARCHAR(50) NOT NULL,
	subtotal DECIMAL(10,2) NOT NULL,
	fees DECIMAL(10,2) NOT NULL,
	discount DECIMAL(10,2) NOT NULL DEFAULT 0,
	student_discount DECIMAL(10,2) NOT NULL DEFAULT 0,
	total DECIMAL(10,2) NOT NULL,
	currency VARCHAR(3) NOT NULL,
	promo_code VARCHAR(50) NOT NULL DEFAULT '',
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	payment_intent_id VARCHAR(255) NOT NULL DEFAULT '',
	stripe_customer_id VARCHAR(255) NOT NULL DEFAULT '',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_booking_ref (booking_ref),
	KEY idx_intent (payment_intent_id),
	KEY idx_status (status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS promo_codes (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	code VARCHAR(50) NOT NULL,
	discount_percent DECIMAL(5,2) NOT NULL DEFAULT 0,
	discount_fixed DECIMAL(10,2) NOT NULL DEFAULT 0,
	max_discount DECIMAL(10,2) NOT NULL DEFAULT 0,
	valid_from DATETIME NOT NULL,
	valid_until DATETIME NOT NULL,
	usage_limit BIGINT NOT NULL DEFAULT 0,
	usage_count BIGINT NOT NULL DEFAULT 0,
	active TINYINT(1) NOT NULL DEFAULT 1,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_code (code)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS tickets (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	ticket_id VARCHAR(50) NOT NULL,
	booking_ref VARCHAR(20) NOT NULL,
	qr_token VARCHAR(64) NOT NULL,
	from_city VARCHAR(120) NOT NULL,
	to_city VARCHAR(120) NOT NULL,
	date_key VARCHAR(10) NOT NULL,
	departure_time VARCHAR(8) NOT NULL,
	arrival_time VARCHAR(8) NOT NULL,
	passenger VARCHAR(255) NOT NULL,
	price DECIMAL(10,2) NOT NULL,
	currency VARCHAR(3) NOT NULL,
	is_used TINYINT(1) NOT NULL DEFAULT 0,
	used_at DATETIME NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_ticket_id (ticket_id),
	UNIQUE KEY uniq_booking_ref (booking_ref),
	UNIQUE KEY uniq_qr_token (qr_token)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(20) NOT NULL DEFAULT 'admin',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
}

// EnsureSchema creates missing tables. Statements are idempotent so
// running it on every start is safe.
func EnsureSchema(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db not available")
	}
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema bootstrap: %w", err)
		}
	}
	return nil
}
