package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// InitializeDBSchema creates the tables and indexes the service relies on.
// The partial unique index on the provider ledger is what closes the
// check-then-act race between availability check and write: the second
// concurrent booking for the same provider/day fails on insert.
func InitializeDBSchema(db *sqlx.DB) error {
	_, err := db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS provider_ledger (
	booking_id VARCHAR(16) PRIMARY KEY,
	provider_id UUID NOT NULL,
	customer_id UUID NOT NULL,
	package_id UUID NOT NULL,
	package_name VARCHAR(255) NOT NULL,
	event_date DATE NOT NULL,
	price BIGINT NOT NULL,
	commission BIGINT NOT NULL,
	deposit BIGINT NOT NULL,
	remaining BIGINT NOT NULL,
	status VARCHAR(16) NOT NULL,
	payment_reference VARCHAR(255) NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL
);`)
	if err != nil {
		return fmt.Errorf("failed to create provider_ledger table: %w", err)
	}

	_, err = db.ExecContext(context.Background(), `
CREATE INDEX IF NOT EXISTS idx_provider_ledger_provider
	ON provider_ledger (provider_id);`)
	if err != nil {
		return fmt.Errorf("failed to create provider_ledger provider index: %w", err)
	}

	_, err = db.ExecContext(context.Background(), `
CREATE UNIQUE INDEX IF NOT EXISTS uq_provider_ledger_payment_ref
	ON provider_ledger (payment_reference);`)
	if err != nil {
		return fmt.Errorf("failed to create provider_ledger payment reference index: %w", err)
	}

	_, err = db.ExecContext(context.Background(), `
CREATE UNIQUE INDEX IF NOT EXISTS uq_provider_ledger_active_day
	ON provider_ledger (provider_id, event_date)
	WHERE status = 'active';`)
	if err != nil {
		return fmt.Errorf("failed to create provider_ledger active day index: %w", err)
	}

	_, err = db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS customer_ledger (
	booking_id VARCHAR(16) PRIMARY KEY,
	provider_id UUID NOT NULL,
	customer_id UUID NOT NULL,
	package_id UUID NOT NULL,
	package_name VARCHAR(255) NOT NULL,
	event_date DATE NOT NULL,
	price BIGINT NOT NULL,
	commission BIGINT NOT NULL,
	deposit BIGINT NOT NULL,
	remaining BIGINT NOT NULL,
	status VARCHAR(16) NOT NULL,
	payment_reference VARCHAR(255) NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL
);`)
	if err != nil {
		return fmt.Errorf("failed to create customer_ledger table: %w", err)
	}

	_, err = db.ExecContext(context.Background(), `
CREATE INDEX IF NOT EXISTS idx_customer_ledger_customer
	ON customer_ledger (customer_id);`)
	if err != nil {
		return fmt.Errorf("failed to create customer_ledger customer index: %w", err)
	}

	_, err = db.ExecContext(context.Background(), `
CREATE INDEX IF NOT EXISTS idx_customer_ledger_provider_day
	ON customer_ledger (provider_id, event_date);`)
	if err != nil {
		return fmt.Errorf("failed to create customer_ledger provider/day index: %w", err)
	}

	_, err = db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS providers (
	provider_id UUID PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	average_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
	published_work_count INTEGER NOT NULL DEFAULT 0,
	badges JSONB NOT NULL DEFAULT '[]',
	version BIGINT NOT NULL DEFAULT 0
);`)
	if err != nil {
		return fmt.Errorf("failed to create providers table: %w", err)
	}

	_, err = db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS packages (
	package_id UUID PRIMARY KEY,
	provider_id UUID NOT NULL,
	name VARCHAR(255) NOT NULL,
	price BIGINT NOT NULL,
	event_type VARCHAR(64) NOT NULL
);`)
	if err != nil {
		return fmt.Errorf("failed to create packages table: %w", err)
	}

	_, err = db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS reconciliation_tasks (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	booking_id VARCHAR(16) NOT NULL,
	reason TEXT NOT NULL,
	payload JSONB NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	resolved_at TIMESTAMP WITH TIME ZONE
);`)
	if err != nil {
		return fmt.Errorf("failed to create reconciliation_tasks table: %w", err)
	}

	return nil
}
