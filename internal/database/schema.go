package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order by Migrate.  Every statement is idempotent.
//
// order_seats carries one row per sold seat; its unique key is the
// durable guarantee that a seat is sold at most once per showtime and
// ticket class, even when several server processes share the database.
// Seat, showtime and class columns use a binary collation: they are
// opaque strings compared exactly, so "a1" and "A1" are different seats.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name          VARCHAR(120)    NOT NULL DEFAULT '',
		email         VARCHAR(190)    NOT NULL,
		password_hash VARCHAR(255)    NOT NULL,
		membership    VARCHAR(16)     NOT NULL DEFAULT 'guest',
		role          VARCHAR(16)     NOT NULL DEFAULT 'CUSTOMER',
		created_at    DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS orders (
		id              BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		movie_id        BIGINT UNSIGNED NOT NULL,
		movie_title     VARCHAR(255)    NOT NULL,
		showtime        VARCHAR(64)     COLLATE utf8mb4_bin NOT NULL,
		ticket_class    VARCHAR(16)     COLLATE utf8mb4_bin NOT NULL,
		customer_name   VARCHAR(120)    NOT NULL,
		customer_email  VARCHAR(190)    NOT NULL,
		membership      VARCHAR(16)     NOT NULL,
		ticket_subtotal BIGINT          NOT NULL,
		admin_fee       BIGINT          NOT NULL,
		total           BIGINT          NOT NULL,
		snack_included  BOOLEAN         NOT NULL DEFAULT FALSE,
		payment_method  VARCHAR(255)    NOT NULL DEFAULT 'N/A',
		created_at      DATETIME(3)     NOT NULL,
		KEY idx_orders_showtime (movie_id, showtime, ticket_class),
		KEY idx_orders_email (customer_email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS order_seats (
		order_id     BIGINT UNSIGNED NOT NULL,
		movie_id     BIGINT UNSIGNED NOT NULL,
		showtime     VARCHAR(64)     COLLATE utf8mb4_bin NOT NULL,
		ticket_class VARCHAR(16)     COLLATE utf8mb4_bin NOT NULL,
		seat_id      VARCHAR(64)     COLLATE utf8mb4_bin NOT NULL,
		position     INT             NOT NULL,
		PRIMARY KEY (order_id, position),
		UNIQUE KEY uq_order_seats_sold (movie_id, showtime, ticket_class, seat_id),
		CONSTRAINT fk_order_seats_order FOREIGN KEY (order_id) REFERENCES orders (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	// Brings tables created with the earlier narrow, case-insensitive
	// columns in line with the definitions above.
	`ALTER TABLE orders
		MODIFY showtime       VARCHAR(64)  COLLATE utf8mb4_bin NOT NULL,
		MODIFY ticket_class   VARCHAR(16)  COLLATE utf8mb4_bin NOT NULL,
		MODIFY payment_method VARCHAR(255) NOT NULL DEFAULT 'N/A'`,
	`ALTER TABLE order_seats
		MODIFY showtime     VARCHAR(64) COLLATE utf8mb4_bin NOT NULL,
		MODIFY ticket_class VARCHAR(16) COLLATE utf8mb4_bin NOT NULL,
		MODIFY seat_id      VARCHAR(64) COLLATE utf8mb4_bin NOT NULL`,
}

// Migrate creates the tables the booking core needs.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
