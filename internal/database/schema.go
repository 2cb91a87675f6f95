package database

import (
	"context"
	"database/sql"
)

// schemaStatements creates the booking tables when they do not exist yet.
// The unique key on (resource_id, start_time, end_time) is the last line of
// defence against double bookings under concurrent requests; the insert path
// maps its violation to a slot-taken error.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS resource_types (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		published TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS time_slot_types (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		published TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS resources (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		resource_type_id BIGINT UNSIGNED NOT NULL,
		title VARCHAR(255) NOT NULL,
		time_slot_type_id BIGINT UNSIGNED NOT NULL,
		published TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_resources_type (resource_type_id),
		CONSTRAINT fk_resources_type FOREIGN KEY (resource_type_id) REFERENCES resource_types(id),
		CONSTRAINT fk_resources_slot_type FOREIGN KEY (time_slot_type_id) REFERENCES time_slot_types(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS time_slots (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		time_slot_type_id BIGINT UNSIGNED NOT NULL,
		title VARCHAR(255) NOT NULL,
		start_offset_sec INT NOT NULL,
		end_offset_sec INT NOT NULL,
		sorting INT NOT NULL DEFAULT 0,
		published TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_time_slots_type (time_slot_type_id),
		CONSTRAINT fk_time_slots_type FOREIGN KEY (time_slot_type_id) REFERENCES time_slot_types(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS members (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		first_name VARCHAR(255) NOT NULL,
		last_name VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_members_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		chain_id CHAR(36) NOT NULL,
		member_id BIGINT UNSIGNED NOT NULL,
		resource_id BIGINT UNSIGNED NOT NULL,
		time_slot_id BIGINT UNSIGNED NOT NULL,
		start_time DATETIME NOT NULL,
		end_time DATETIME NOT NULL,
		description TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_booking_interval (resource_id, start_time, end_time),
		KEY idx_bookings_chain (chain_id),
		KEY idx_bookings_member (member_id),
		CONSTRAINT fk_bookings_member FOREIGN KEY (member_id) REFERENCES members(id),
		CONSTRAINT fk_bookings_resource FOREIGN KEY (resource_id) REFERENCES resources(id),
		CONSTRAINT fk_bookings_slot FOREIGN KEY (time_slot_id) REFERENCES time_slots(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		member_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_refresh_hash (token_hash),
		KEY idx_refresh_member (member_id),
		CONSTRAINT fk_refresh_member FOREIGN KEY (member_id) REFERENCES members(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates any missing tables.  Statements run one by one so a
// failure reports the offending table instead of an opaque multi-statement
// error.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
