package events

import (
	"context"

	"github.com/google/uuid"

	"decorconnect/internal/entities"
)

//go:generate mockgen -destination=mocks/mock_reservations_service.go -package=mocks decorconnect/internal/interfaces/message/events ReservationsService
type ReservationsService interface {
	CreateReservation(ctx context.Context, confirmation entities.PaymentConfirmation) (*entities.Reservation, error)
}

//go:generate mockgen -destination=mocks/mock_badge_recomputer.go -package=mocks decorconnect/internal/interfaces/message/events BadgeRecomputer
type BadgeRecomputer interface {
	Recompute(ctx context.Context, providerID uuid.UUID) ([]entities.Badge, error)
}

//go:generate mockgen -destination=mocks/mock_notifications_service.go -package=mocks decorconnect/internal/interfaces/message/events NotificationsService
type NotificationsService interface {
	PushReservationConfirmed(ctx context.Context, event entities.ReservationConfirmed_v1) error
	PushReservationCancelled(ctx context.Context, event entities.ReservationCancelled_v1) error
}

type Handler struct {
	reservations  ReservationsService
	reputation    BadgeRecomputer
	notifications NotificationsService
}

func NewHandler(
	reservations ReservationsService,
	reputation BadgeRecomputer,
	notifications NotificationsService,
) *Handler {
	return &Handler{
		reservations:  reservations,
		reputation:    reputation,
		notifications: notifications,
	}
}
