package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"decorconnect/internal/entities"
	"decorconnect/internal/pricing"
	"decorconnect/internal/repository"
)

// WithRetry re-runs f on Postgres serialization failures (40001). The
// booking path uses the provider ledger's unique indexes to arbitrate
// races, so genuine conflicts come back as ErrDateConflict, not retries.
func WithRetry(attempts int, f func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		var lastErr error
		for i := 0; i < attempts; i++ {
			err := f(ctx)
			if err == nil {
				return nil
			}

			pgErr := &pq.Error{}
			if errors.As(err, &pgErr); pgErr.Code == "40001" {
				log.FromContext(ctx).
					WithField("attempt", i+1).
					WithField("error", err).
					Info("serialization failure, retrying")
				lastErr = err
				continue
			}

			return err
		}
		return lastErr
	}
}

// CreateReservation is the single entry point of the booking core, called
// with the payment layer's confirmation payload. Replaying the same payment
// reference returns the reservation created the first time.
func (u *ReservationsUsecase) CreateReservation(ctx context.Context, confirmation entities.PaymentConfirmation) (*entities.Reservation, error) {
	if err := validateConfirmation(confirmation); err != nil {
		return nil, err
	}

	existing, err := u.providerLedger.GetByPaymentReference(ctx, confirmation.PaymentReference)
	if err == nil {
		log.FromContext(ctx).
			WithField("payment_reference", confirmation.PaymentReference).
			WithField("booking_id", existing.BookingID).
			Info("payment reference already processed, returning existing reservation")
		return existing, nil
	}
	if !errors.Is(err, entities.ErrNotFound) {
		return nil, fmt.Errorf("idempotency lookup: %w", err)
	}

	pkg, err := u.packages.Get(ctx, confirmation.PackageID)
	if err != nil {
		return nil, err
	}
	if pkg.ProviderID != confirmation.ProviderID {
		return nil, fmt.Errorf("%w: package %s does not belong to provider %s",
			entities.ErrValidation, confirmation.PackageID, confirmation.ProviderID)
	}
	if confirmation.Amount != pkg.Price {
		return nil, fmt.Errorf("%w: paid amount %d does not match package price %d",
			entities.ErrValidation, confirmation.Amount, pkg.Price)
	}

	availability, err := u.CheckAvailability(ctx, confirmation.ProviderID, confirmation.EventDate)
	if err != nil {
		return nil, err
	}
	if !availability.Available {
		return nil, fmt.Errorf("%w: provider %s on %s (conflicting booking %s)",
			entities.ErrDateConflict, confirmation.ProviderID, confirmation.EventDate, availability.ConflictingBookingID)
	}

	breakdown, err := pricing.Calculate(pkg.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrValidation, err)
	}

	bookingID, err := u.idGenerator.Generate(ctx)
	if err != nil {
		return nil, err
	}

	res := entities.Reservation{
		BookingID:        bookingID,
		ProviderID:       confirmation.ProviderID,
		CustomerID:       confirmation.CustomerID,
		PackageID:        pkg.ID,
		PackageName:      pkg.Name,
		EventDate:        confirmation.EventDate,
		Price:            breakdown.Price,
		Commission:       breakdown.Commission,
		Deposit:          breakdown.Deposit,
		Remaining:        breakdown.Remaining,
		Status:           entities.ReservationActive,
		PaymentReference: confirmation.PaymentReference,
		CreatedAt:        time.Now().UTC(),
	}

	err = WithRetry(3, func(ctx context.Context) error {
		return u.writer.Write(ctx, res)
	})(ctx)
	if err != nil {
		// Two concurrent deliveries of the same confirmation can both pass
		// the lookup above; the unique payment reference index arbitrates.
		if errors.Is(err, repository.ErrDuplicatePaymentReference) {
			return u.providerLedger.GetByPaymentReference(ctx, confirmation.PaymentReference)
		}
		return nil, err
	}

	return &res, nil
}

func validateConfirmation(c entities.PaymentConfirmation) error {
	if c.PaymentReference == "" {
		return fmt.Errorf("%w: payment reference is required", entities.ErrValidation)
	}
	if c.ProviderID == uuid.Nil {
		return fmt.Errorf("%w: provider id is required", entities.ErrValidation)
	}
	if c.CustomerID == uuid.Nil {
		return fmt.Errorf("%w: customer id is required", entities.ErrValidation)
	}
	if c.PackageID == uuid.Nil {
		return fmt.Errorf("%w: package id is required", entities.ErrValidation)
	}
	if c.EventDate.IsZero() {
		return fmt.Errorf("%w: event date is required", entities.ErrValidation)
	}
	if c.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", entities.ErrValidation)
	}
	return nil
}
