package database

import (
	"gorm.io/gorm"
)

// Migrate creates the schema. On postgres it also installs the exclusion
// constraint that makes overlapping pending/confirmed bookings impossible to
// commit, whatever the application does. The booking service additionally
// serializes check-then-insert per accommodation, so sqlite stays correct too.
func Migrate(db *gorm.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS accommodations (
			id TEXT PRIMARY KEY,
			supplier_id TEXT NOT NULL,
			title TEXT NOT NULL,
			max_guests INTEGER NOT NULL,
			base_price_per_night DECIMAL(12,2) NOT NULL,
			currency TEXT NOT NULL DEFAULT 'USD',
			cancellation_policy TEXT NOT NULL DEFAULT 'moderate',
			instant_book BOOLEAN NOT NULL DEFAULT FALSE,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id TEXT PRIMARY KEY,
			guest_id TEXT NOT NULL,
			accommodation_id TEXT NOT NULL,
			check_in_date DATE NOT NULL,
			check_out_date DATE NOT NULL,
			nights INTEGER NOT NULL,
			total_guests INTEGER NOT NULL,
			adults INTEGER NOT NULL,
			children INTEGER NOT NULL DEFAULT 0,
			infants INTEGER NOT NULL DEFAULT 0,
			base_price_per_night DECIMAL(12,2) NOT NULL,
			total_base_price DECIMAL(12,2) NOT NULL,
			service_fee DECIMAL(12,2) NOT NULL,
			cleaning_fee DECIMAL(12,2) NOT NULL,
			tax_amount DECIMAL(12,2) NOT NULL,
			discount_amount DECIMAL(12,2) NOT NULL DEFAULT 0,
			total_price DECIMAL(12,2) NOT NULL,
			currency TEXT NOT NULL DEFAULT 'USD',
			status TEXT NOT NULL DEFAULT 'pending',
			payment_status TEXT NOT NULL DEFAULT 'pending',
			cancellation_reason TEXT,
			cancelled_at TIMESTAMP,
			cancelled_by TEXT,
			special_requests TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			confirmed_at TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_accommodation ON bookings (accommodation_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_guest ON bookings (guest_id)`,
		`CREATE TABLE IF NOT EXISTS booking_fee_configs (
			id TEXT PRIMARY KEY,
			service_fee_percentage DECIMAL(5,2) NOT NULL,
			service_fee_minimum DECIMAL(12,2),
			service_fee_maximum DECIMAL(12,2),
			cleaning_fee_percentage DECIMAL(5,2) NOT NULL,
			tax_rate DECIMAL(6,4) NOT NULL,
			active BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS booking_payments (
			id TEXT PRIMARY KEY,
			booking_id TEXT NOT NULL,
			amount DECIMAL(12,2) NOT NULL,
			currency TEXT NOT NULL,
			method TEXT NOT NULL,
			provider TEXT NOT NULL,
			transaction_id TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			failure_reason TEXT,
			refund_amount DECIMAL(12,2),
			refund_reason TEXT,
			created_at TIMESTAMP NOT NULL,
			paid_at TIMESTAMP,
			refunded_at TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_booking_payments_booking ON booking_payments (booking_id)`,
		`CREATE TABLE IF NOT EXISTS disputes (
			id TEXT PRIMARY KEY,
			booking_id TEXT NOT NULL,
			initiator_id TEXT NOT NULL,
			reason TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'open',
			resolution TEXT,
			resolved_by TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	if IsPostgres(db) {
		pgStmts := []string{
			`CREATE EXTENSION IF NOT EXISTS btree_gist`,
			// One reservation per night per accommodation, enforced at commit
			// time regardless of application-level checks.
			`DO $$ BEGIN
				ALTER TABLE bookings ADD CONSTRAINT idx_no_double_booking
					EXCLUDE USING gist (
						accommodation_id WITH =,
						daterange(check_in_date, check_out_date, '[)') WITH &&
					) WHERE (status IN ('pending', 'confirmed'));
			EXCEPTION WHEN duplicate_table OR duplicate_object THEN NULL;
			END $$`,
			// At most one succeeded, not-yet-refunded payment per booking.
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_paid_payment
				ON booking_payments (booking_id) WHERE (status = 'paid')`,
		}
		for _, stmt := range pgStmts {
			if err := db.Exec(stmt).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
