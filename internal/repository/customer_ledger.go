package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"decorconnect/internal/entities"
)

// CustomerLedgerRepo owns the customer-side copy of every reservation. The
// two ledgers are written without a shared transaction, so this repo also
// serves the drift scan in the availability check.
type CustomerLedgerRepo struct {
	db     *sqlx.DB
	getter *trmsqlx.CtxGetter
}

func NewCustomerLedgerRepo(db *sqlx.DB, getter *trmsqlx.CtxGetter) *CustomerLedgerRepo {
	return &CustomerLedgerRepo{db: db, getter: getter}
}

func (r *CustomerLedgerRepo) Insert(ctx context.Context, res entities.Reservation) error {
	query := `
		INSERT INTO customer_ledger (` + reservationColumns + `
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)`

	_, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query,
		res.BookingID,
		res.ProviderID,
		res.CustomerID,
		res.PackageID,
		res.PackageName,
		res.EventDate,
		res.Price,
		res.Commission,
		res.Deposit,
		res.Remaining,
		res.Status,
		res.PaymentReference,
		res.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert customer ledger entry: %w", err)
	}
	return nil
}

func (r *CustomerLedgerRepo) Delete(ctx context.Context, bookingID string) error {
	_, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx,
		`DELETE FROM customer_ledger WHERE booking_id = $1`, bookingID)
	if err != nil {
		return fmt.Errorf("delete customer ledger entry %s: %w", bookingID, err)
	}
	return nil
}

func (r *CustomerLedgerRepo) UpdateStatus(ctx context.Context, bookingID string, status entities.ReservationStatus) error {
	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx,
		`UPDATE customer_ledger SET status = $1 WHERE booking_id = $2`, status, bookingID)
	if err != nil {
		return fmt.Errorf("update customer ledger status for %s: %w", bookingID, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: booking %s in customer ledger", entities.ErrNotFound, bookingID)
	}
	return nil
}

func (r *CustomerLedgerRepo) GetByBookingID(ctx context.Context, bookingID string) (*entities.Reservation, error) {
	row := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM customer_ledger WHERE booking_id = $1`, bookingID)

	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %s in customer ledger", entities.ErrNotFound, bookingID)
		}
		return nil, fmt.Errorf("get customer ledger entry %s: %w", bookingID, err)
	}
	return res, nil
}

// FindBlockingForProviderOnDate scans the customer ledger for entries that
// reference the provider on the given day. The ledgers may have drifted, so
// the availability check consults this copy in addition to the provider's.
func (r *CustomerLedgerRepo) FindBlockingForProviderOnDate(ctx context.Context, providerID uuid.UUID, date entities.Date) (*entities.Reservation, error) {
	terminal := entities.NonBlockingStatuses()
	row := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+reservationColumns+`
		 FROM customer_ledger
		 WHERE provider_id = $1 AND event_date = $2 AND status NOT IN ($3, $4)
		 LIMIT 1`,
		providerID, date, terminal[0], terminal[1])

	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan customer ledger for %s on %s: %w", providerID, date, err)
	}
	return res, nil
}

func (r *CustomerLedgerRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entities.Reservation, error) {
	rows, err := r.getter.DefaultTrOrDB(ctx, r.db).QueryContext(ctx,
		`SELECT `+reservationColumns+`
		 FROM customer_ledger
		 WHERE customer_id = $1
		 ORDER BY event_date, booking_id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list customer ledger for %s: %w", customerID, err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

func (r *CustomerLedgerRepo) BookingIDExists(ctx context.Context, bookingID string) (bool, error) {
	var exists bool
	err := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM customer_ledger WHERE booking_id = $1)`, bookingID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("probe customer ledger for %s: %w", bookingID, err)
	}
	return exists, nil
}
