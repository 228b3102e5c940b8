package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates the tables the booking engine reads and writes.  users
// is owned by the identity service and is not created here.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS room_types (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name        VARCHAR(100)   NOT NULL,
		description TEXT           NULL,
		base_price  DECIMAL(10,2)  NULL,
		created_at  TIMESTAMP      NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		room_type_id BIGINT UNSIGNED NOT NULL,
		room_number  VARCHAR(20)     NOT NULL UNIQUE,
		floor        INT             NOT NULL DEFAULT 1,
		status       ENUM('available','maintenance','out_of_service') NOT NULL DEFAULT 'available',
		created_at   TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_rooms_type FOREIGN KEY (room_type_id) REFERENCES room_types(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id               BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		room_id          BIGINT UNSIGNED NOT NULL,
		user_id          BIGINT UNSIGNED NOT NULL,
		check_in_date    DATE            NOT NULL,
		check_out_date   DATE            NOT NULL,
		guests           INT             NOT NULL,
		total_price      DECIMAL(10,2)   NOT NULL,
		special_requests TEXT            NULL,
		status           ENUM('unpaid','confirmed','checked_in','checked_out','cancelled') NOT NULL DEFAULT 'unpaid',
		created_at       TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at       TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_bookings_room FOREIGN KEY (room_id) REFERENCES rooms(id),
		CONSTRAINT chk_bookings_range CHECK (check_in_date < check_out_date),
		CONSTRAINT chk_bookings_guests CHECK (guests > 0),
		INDEX idx_bookings_room_dates (room_id, status, check_in_date, check_out_date),
		INDEX idx_bookings_user_created (user_id, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates missing tables.  Existing tables are left as-is.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
