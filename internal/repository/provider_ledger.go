package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"decorconnect/internal/entities"
)

// ErrDuplicatePaymentReference means a reservation for this payment already
// exists. The caller resolves it by returning the stored reservation.
var ErrDuplicatePaymentReference = errors.New("payment reference already recorded")

const reservationColumns = `
	booking_id, provider_id, customer_id, package_id, package_name,
	event_date, price, commission, deposit, remaining,
	status, payment_reference, created_at`

// ProviderLedgerRepo owns the provider-side copy of every reservation.
type ProviderLedgerRepo struct {
	db     *sqlx.DB
	getter *trmsqlx.CtxGetter
}

func NewProviderLedgerRepo(db *sqlx.DB, getter *trmsqlx.CtxGetter) *ProviderLedgerRepo {
	return &ProviderLedgerRepo{db: db, getter: getter}
}

func (r *ProviderLedgerRepo) Insert(ctx context.Context, res entities.Reservation) error {
	query := `
		INSERT INTO provider_ledger (` + reservationColumns + `
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
		return mapProviderLedgerError(err)
	}

	return nil
}

func mapProviderLedgerError(err error) error {
	pqErr := &pq.Error{}
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		switch pqErr.Constraint {
		case "uq_provider_ledger_active_day":
			return fmt.Errorf("%w: %v", entities.ErrDateConflict, err)
		case "uq_provider_ledger_payment_ref":
			return fmt.Errorf("%w: %v", ErrDuplicatePaymentReference, err)
		}
	}
	return fmt.Errorf("insert provider ledger entry: %w", err)
}

func (r *ProviderLedgerRepo) Delete(ctx context.Context, bookingID string) error {
	_, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx,
		`DELETE FROM provider_ledger WHERE booking_id = $1`, bookingID)
	if err != nil {
		return fmt.Errorf("delete provider ledger entry %s: %w", bookingID, err)
	}
	return nil
}

func (r *ProviderLedgerRepo) UpdateStatus(ctx context.Context, bookingID string, status entities.ReservationStatus) error {
	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx,
		`UPDATE provider_ledger SET status = $1 WHERE booking_id = $2`, status, bookingID)
	if err != nil {
		return fmt.Errorf("update provider ledger status for %s: %w", bookingID, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: booking %s in provider ledger", entities.ErrNotFound, bookingID)
	}
	return nil
}

func (r *ProviderLedgerRepo) GetByBookingID(ctx context.Context, bookingID string) (*entities.Reservation, error) {
	row := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM provider_ledger WHERE booking_id = $1`, bookingID)

	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %s in provider ledger", entities.ErrNotFound, bookingID)
		}
		return nil, fmt.Errorf("get provider ledger entry %s: %w", bookingID, err)
	}
	return res, nil
}

func (r *ProviderLedgerRepo) GetByPaymentReference(ctx context.Context, paymentReference string) (*entities.Reservation, error) {
	row := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM provider_ledger WHERE payment_reference = $1`, paymentReference)

	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: payment reference %s", entities.ErrNotFound, paymentReference)
		}
		return nil, fmt.Errorf("get provider ledger entry by payment reference: %w", err)
	}
	return res, nil
}

// FindBlockingOnDate returns the reservation occupying the provider's day,
// if any. Every non-terminal status blocks, so mid-cancellation entries
// still count as conflicts.
func (r *ProviderLedgerRepo) FindBlockingOnDate(ctx context.Context, providerID uuid.UUID, date entities.Date) (*entities.Reservation, error) {
	terminal := entities.NonBlockingStatuses()
	row := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+reservationColumns+`
		 FROM provider_ledger
		 WHERE provider_id = $1 AND event_date = $2 AND status NOT IN ($3, $4)
		 LIMIT 1`,
		providerID, date, terminal[0], terminal[1])

	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan provider ledger for %s on %s: %w", providerID, date, err)
	}
	return res, nil
}

func (r *ProviderLedgerRepo) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]entities.Reservation, error) {
	rows, err := r.getter.DefaultTrOrDB(ctx, r.db).QueryContext(ctx,
		`SELECT `+reservationColumns+`
		 FROM provider_ledger
		 WHERE provider_id = $1
		 ORDER BY event_date, booking_id`, providerID)
	if err != nil {
		return nil, fmt.Errorf("list provider ledger for %s: %w", providerID, err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

// CountForProvider counts reservations that still contribute to reputation,
// i.e. everything that was not cancelled.
func (r *ProviderLedgerRepo) CountForProvider(ctx context.Context, providerID uuid.UUID) (int, error) {
	var count int
	err := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM provider_ledger WHERE provider_id = $1 AND status <> $2`,
		providerID, entities.ReservationCancelled).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count provider ledger for %s: %w", providerID, err)
	}
	return count, nil
}

func (r *ProviderLedgerRepo) BookingIDExists(ctx context.Context, bookingID string) (bool, error) {
	var exists bool
	err := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM provider_ledger WHERE booking_id = $1)`, bookingID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("probe provider ledger for %s: %w", bookingID, err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*entities.Reservation, error) {
	var res entities.Reservation
	err := row.Scan(
		&res.BookingID,
		&res.ProviderID,
		&res.CustomerID,
		&res.PackageID,
		&res.PackageName,
		&res.EventDate,
		&res.Price,
		&res.Commission,
		&res.Deposit,
		&res.Remaining,
		&res.Status,
		&res.PaymentReference,
		&res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func collectReservations(rows *sql.Rows) ([]entities.Reservation, error) {
	var reservations []entities.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reservations, nil
}
