package database

// schema.go creates the durable collections on boot. The interesting
// statement is the reservations table: active_flag is a stored
// generated column that is 'A' while the reservation still blocks its
// slot and NULL otherwise. MySQL unique keys ignore NULL values, so
// uniq_active_slot rejects a second active reservation for the same
// (table, date, slot) while allowing any number of terminal ones.
// This is the storage-level backstop behind the booking service's
// per-table lock.

import (
	"context"
	"database/sql"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS sections (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name        VARCHAR(100) NOT NULL,
		description VARCHAR(255) NOT NULL DEFAULT '',
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uniq_section_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS tables (
		id              BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		section_id      BIGINT UNSIGNED NOT NULL,
		number          INT UNSIGNED NOT NULL,
		seats           INT UNSIGNED NOT NULL,
		override_status VARCHAR(16) NOT NULL DEFAULT '',
		occupied_until  DATETIME NULL,
		created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uniq_section_number (section_id, number),
		CONSTRAINT fk_tables_section FOREIGN KEY (section_id) REFERENCES sections (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS timeslots (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		weekday    VARCHAR(9) NOT NULL,
		open_hour  INT UNSIGNED NOT NULL,
		close_hour INT UNSIGNED NOT NULL,
		is_open    TINYINT(1) NOT NULL DEFAULT 1,
		PRIMARY KEY (id),
		UNIQUE KEY uniq_weekday (weekday)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS closures (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		closed_on  DATE NOT NULL,
		reason     VARCHAR(255) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uniq_closed_on (closed_on)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS reservations (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		table_id    BIGINT UNSIGNED NOT NULL,
		section_id  BIGINT UNSIGNED NOT NULL,
		user_id     BIGINT UNSIGNED NOT NULL,
		guests      INT UNSIGNED NOT NULL,
		slot_date   DATE NOT NULL,
		time_slot   VARCHAR(16) NOT NULL,
		status      ENUM('PENDING','CONFIRMED','CANCELLED','COMPLETED') NOT NULL DEFAULT 'PENDING',
		qr_code     MEDIUMTEXT NULL,
		notified    TINYINT(1) NOT NULL DEFAULT 0,
		active_flag CHAR(1) GENERATED ALWAYS AS
			(CASE WHEN status IN ('PENDING','CONFIRMED') THEN 'A' ELSE NULL END) STORED,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uniq_active_slot (table_id, slot_date, time_slot, active_flag),
		KEY idx_slot (slot_date, time_slot),
		CONSTRAINT fk_res_table FOREIGN KEY (table_id) REFERENCES tables (id),
		CONSTRAINT fk_res_section FOREIGN KEY (section_id) REFERENCES sections (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS meals (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name        VARCHAR(100) NOT NULL,
		price_cents INT UNSIGNED NOT NULL,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS orders (
		id                 BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		table_id           BIGINT UNSIGNED NOT NULL,
		reservation_id     BIGINT UNSIGNED NULL,
		user_id            BIGINT UNSIGNED NULL,
		status             ENUM('PENDING','IN_PROGRESS','SERVED','PAID','CANCELLED') NOT NULL DEFAULT 'PENDING',
		payment_intent_id  VARCHAR(100) NOT NULL DEFAULT '',
		payment_identifier VARCHAR(64) NOT NULL DEFAULT '',
		payment_status     ENUM('AWAITING_PAYMENT','PAID','FAILED') NOT NULL DEFAULT 'AWAITING_PAYMENT',
		created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_payment_identifier (payment_identifier),
		KEY idx_orders_table (table_id),
		CONSTRAINT fk_orders_table FOREIGN KEY (table_id) REFERENCES tables (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS order_items (
		id       BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		order_id BIGINT UNSIGNED NOT NULL,
		meal_id  BIGINT UNSIGNED NOT NULL,
		quantity INT UNSIGNED NOT NULL,
		PRIMARY KEY (id),
		KEY idx_items_order (order_id),
		CONSTRAINT fk_items_order FOREIGN KEY (order_id) REFERENCES orders (id) ON DELETE CASCADE,
		CONSTRAINT fk_items_meal FOREIGN KEY (meal_id) REFERENCES meals (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS waitlist (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name       VARCHAR(100) NOT NULL,
		contact    VARCHAR(255) NOT NULL,
		guests     INT UNSIGNED NOT NULL,
		slot_date  DATE NOT NULL,
		time_slot  VARCHAR(16) NOT NULL,
		status     ENUM('WAITING','NOTIFIED','SEATED','CANCELLED') NOT NULL DEFAULT 'WAITING',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_waitlist_status (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate executes the schema statements in order. Every statement is
// idempotent (CREATE TABLE IF NOT EXISTS) so Migrate can run on every
// boot.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
