package booking

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"

	"decorconnect/internal/entities"
)

// CancelReservation flips the reservation to cancelled on both ledger
// copies. The actor must be one of the two parties; authorization beyond
// that is the caller's concern.
func (u *ReservationsUsecase) CancelReservation(ctx context.Context, bookingID string, actorID uuid.UUID) error {
	if bookingID == "" {
		return fmt.Errorf("%w: booking id is required", entities.ErrValidation)
	}
	if actorID == uuid.Nil {
		return fmt.Errorf("%w: actor id is required", entities.ErrValidation)
	}

	res, err := u.providerLedger.GetByBookingID(ctx, bookingID)
	if err != nil {
		return err
	}

	if res.ProviderID != actorID && res.CustomerID != actorID {
		return fmt.Errorf("%w: actor %s is not a party to booking %s",
			entities.ErrValidation, actorID, bookingID)
	}

	if res.Status == entities.ReservationCancelled {
		log.FromContext(ctx).
			WithField("booking_id", bookingID).
			Info("reservation already cancelled")
		return nil
	}

	return u.writer.Cancel(ctx, *res, actorID)
}

// CompleteReservation marks a fulfilled reservation done on both copies,
// freeing nothing on the calendar (the day has passed) but keeping it in
// the reputation counts.
func (u *ReservationsUsecase) CompleteReservation(ctx context.Context, bookingID string) error {
	if bookingID == "" {
		return fmt.Errorf("%w: booking id is required", entities.ErrValidation)
	}

	res, err := u.providerLedger.GetByBookingID(ctx, bookingID)
	if err != nil {
		return err
	}

	if res.Status == entities.ReservationCompleted {
		return nil
	}
	if res.Status == entities.ReservationCancelled {
		return fmt.Errorf("%w: booking %s is cancelled", entities.ErrValidation, bookingID)
	}

	return u.writer.Complete(ctx, *res)
}
