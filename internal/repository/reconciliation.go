package repository

import (
	"context"
	"encoding/json"
	"fmt"

	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/jmoiron/sqlx"
)

// ReconciliationTask is the durable record of a ledger divergence. It is
// written before the divergence error ever reaches a caller, so a failed
// compensation is never silently dropped.
type ReconciliationTask struct {
	BookingID string
	Reason    string
	Payload   interface{}
}

type ReconciliationRepo struct {
	db     *sqlx.DB
	getter *trmsqlx.CtxGetter
}

func NewReconciliationRepo(db *sqlx.DB, getter *trmsqlx.CtxGetter) *ReconciliationRepo {
	return &ReconciliationRepo{db: db, getter: getter}
}

func (r *ReconciliationRepo) Record(ctx context.Context, task ReconciliationTask) error {
	payloadJSON, err := json.Marshal(task.Payload)
	if err != nil {
		return fmt.Errorf("marshal reconciliation payload: %w", err)
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, `
		INSERT INTO reconciliation_tasks (booking_id, reason, payload)
		VALUES ($1, $2, $3)`,
		task.BookingID, task.Reason, payloadJSON)
	if err != nil {
		return fmt.Errorf("record reconciliation task for %s: %w", task.BookingID, err)
	}
	return nil
}

func (r *ReconciliationRepo) CountUnresolved(ctx context.Context, bookingID string) (int, error) {
	var count int
	err := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reconciliation_tasks
		WHERE booking_id = $1 AND resolved_at IS NULL`, bookingID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count reconciliation tasks for %s: %w", bookingID, err)
	}
	return count, nil
}
