package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"decorconnect/internal/entities"
)

// CheckAvailability scans both ledger copies for a blocking reservation on
// the provider's calendar day. The double scan is deliberate: the two
// ledgers are not written under one transaction, so either may be the more
// current one, and both must agree before a day is confirmed free.
func (u *ReservationsUsecase) CheckAvailability(ctx context.Context, providerID uuid.UUID, date entities.Date) (entities.Availability, error) {
	if providerID == uuid.Nil {
		return entities.Availability{}, fmt.Errorf("%w: provider id is required", entities.ErrValidation)
	}
	if date.IsZero() {
		return entities.Availability{}, fmt.Errorf("%w: event date is required", entities.ErrValidation)
	}

	conflict, err := u.providerLedger.FindBlockingOnDate(ctx, providerID, date)
	if err != nil {
		return entities.Availability{}, fmt.Errorf("scan provider ledger: %w", err)
	}
	if conflict != nil {
		return entities.Availability{
			Available:            false,
			ConflictingBookingID: conflict.BookingID,
		}, nil
	}

	conflict, err = u.customerLedger.FindBlockingForProviderOnDate(ctx, providerID, date)
	if err != nil {
		return entities.Availability{}, fmt.Errorf("scan customer ledger: %w", err)
	}
	if conflict != nil {
		return entities.Availability{
			Available:            false,
			ConflictingBookingID: conflict.BookingID,
		}, nil
	}

	return entities.Availability{Available: true}, nil
}
