package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"decorconnect/internal/entities"
)

func (h *Handler) RecomputeBadgesOnCancelledHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"recompute_badges_on_cancelled_handler",
		func(ctx context.Context, event *entities.ReservationCancelled_v1) error {
			set, err := h.reputation.Recompute(ctx, event.ProviderID)
			if err != nil {
				return fmt.Errorf("recompute badges for %s: %w", event.ProviderID, err)
			}

			log.FromContext(ctx).
				WithField("provider_id", event.ProviderID).
				WithField("badges", set).
				Info("badges recomputed after cancellation")
			return nil
		})
}

func (h *Handler) NotifyReservationCancelledHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"notify_reservation_cancelled_handler",
		func(ctx context.Context, event *entities.ReservationCancelled_v1) error {
			return h.notifications.PushReservationCancelled(ctx, *event)
		})
}

// LogDivergenceHandler makes sure every divergence shows up in the
// operational log stream; the durable reconciliation task was already
// written by the ledger writer.
func (h *Handler) LogDivergenceHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"log_divergence_handler",
		func(ctx context.Context, event *entities.LedgerDivergenceDetected_v1) error {
			log.FromContext(ctx).
				WithField("booking_id", event.BookingID).
				WithField("payment_reference", event.PaymentReference).
				WithField("provider_written", event.ProviderWritten).
				WithField("customer_written", event.CustomerWritten).
				WithField("reason", event.Reason).
				Error("ledger divergence detected")
			return nil
		})
}
