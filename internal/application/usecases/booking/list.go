package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"decorconnect/internal/entities"
)

// ListReservations returns the owner's own ledger copy. No join is needed:
// each party's history lives in its own ledger.
func (u *ReservationsUsecase) ListReservations(ctx context.Context, ownerID uuid.UUID, role entities.OwnerRole) ([]entities.Reservation, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: owner id is required", entities.ErrValidation)
	}

	switch role {
	case entities.OwnerRoleProvider:
		return u.providerLedger.ListByProvider(ctx, ownerID)
	case entities.OwnerRoleCustomer:
		return u.customerLedger.ListByCustomer(ctx, ownerID)
	default:
		return nil, fmt.Errorf("%w: unknown owner role %q", entities.ErrValidation, role)
	}
}

// GetReservation resolves a booking id from the provider ledger, which is
// the copy written first and therefore the more authoritative one.
func (u *ReservationsUsecase) GetReservation(ctx context.Context, bookingID string) (*entities.Reservation, error) {
	if bookingID == "" {
		return nil, fmt.Errorf("%w: booking id is required", entities.ErrValidation)
	}
	return u.providerLedger.GetByBookingID(ctx, bookingID)
}
