package repositories

import (
	"database/sql"
	"fmt"
)

// EnsureSchema creates the ledger tables when they do not exist yet.
// Called once at startup for the MySQL store.
func EnsureSchema(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db is not available")
	}

	ddls := []string{`
CREATE TABLE IF NOT EXISTS routes (
	id VARCHAR(36) NOT NULL PRIMARY KEY,
	start_point VARCHAR(255) NOT NULL,
	destination VARCHAR(255) NOT NULL,
	timing CHAR(5) NOT NULL,
	days VARCHAR(64) NOT NULL,
	rider_id VARCHAR(64) NOT NULL,
	capacity INT NOT NULL,
	available_seats INT NOT NULL,
	cost_per_seat BIGINT NULL,
	status VARCHAR(16) NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	seq BIGINT AUTO_INCREMENT,
	UNIQUE KEY uniq_seq (seq),
	KEY idx_rider (rider_id),
	KEY idx_status (status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`, `
CREATE TABLE IF NOT EXISTS bookings (
	id VARCHAR(36) NOT NULL PRIMARY KEY,
	route_id VARCHAR(36) NOT NULL,
	buddy_id VARCHAR(64) NOT NULL,
	rider_id VARCHAR(64) NOT NULL,
	status VARCHAR(16) NOT NULL,
	requested_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	KEY idx_route (route_id),
	KEY idx_buddy (buddy_id),
	KEY idx_rider (rider_id),
	KEY idx_route_buddy (route_id, buddy_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`}

	for _, ddl := range ddls {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
