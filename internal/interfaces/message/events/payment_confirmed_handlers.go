package events

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"decorconnect/internal/entities"
	"decorconnect/internal/idempotency"
)

// CreateReservationHandler turns a confirmed payment into a reservation.
// The payment reference makes the usecase idempotent, so broker redelivery
// is harmless. Business rejections are logged and acked: redelivering a
// booking for an occupied day will never make the day free.
func (h *Handler) CreateReservationHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"create_reservation_handler",
		func(ctx context.Context, event *entities.PaymentConfirmed_v1) error {
			ctx = idempotency.WithKey(ctx, event.PaymentReference)

			reservation, err := h.reservations.CreateReservation(ctx, entities.PaymentConfirmation{
				PaymentReference: event.PaymentReference,
				ProviderID:       event.ProviderID,
				CustomerID:       event.CustomerID,
				PackageID:        event.PackageID,
				EventDate:        event.EventDate,
				Amount:           event.Amount,
			})
			if err != nil {
				if errors.Is(err, entities.ErrDateConflict) ||
					errors.Is(err, entities.ErrValidation) ||
					errors.Is(err, entities.ErrNotFound) {
					log.FromContext(ctx).
						WithField("payment_reference", event.PaymentReference).
						WithField("error", err).
						Warn("payment confirmation rejected")
					return nil
				}
				return err
			}

			log.FromContext(ctx).
				WithField("booking_id", reservation.BookingID).
				WithField("payment_reference", event.PaymentReference).
				Info("reservation created from payment confirmation")
			return nil
		})
}
