package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"decorconnect/internal/entities"
)

// RecomputeBadgesOnConfirmedHandler keeps the derived badge set in step
// with the reservation count. It runs after the dual write is durably
// committed; the outbox guarantees the ordering.
func (h *Handler) RecomputeBadgesOnConfirmedHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"recompute_badges_on_confirmed_handler",
		func(ctx context.Context, event *entities.ReservationConfirmed_v1) error {
			set, err := h.reputation.Recompute(ctx, event.ProviderID)
			if err != nil {
				return fmt.Errorf("recompute badges for %s: %w", event.ProviderID, err)
			}

			log.FromContext(ctx).
				WithField("provider_id", event.ProviderID).
				WithField("badges", set).
				Info("badges recomputed after confirmation")
			return nil
		})
}

// NotifyReservationConfirmedHandler pushes the confirmation to the
// notification gateway, which fans it out to connected clients. Transport
// is the gateway's concern, not ours.
func (h *Handler) NotifyReservationConfirmedHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"notify_reservation_confirmed_handler",
		func(ctx context.Context, event *entities.ReservationConfirmed_v1) error {
			return h.notifications.PushReservationConfirmed(ctx, *event)
		})
}
