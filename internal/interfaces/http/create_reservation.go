package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"decorconnect/internal/entities"
	"decorconnect/internal/idempotency"
)

type CreateReservationRequest struct {
	PaymentReference string        `json:"payment_reference"`
	ProviderID       uuid.UUID     `json:"provider_id"`
	CustomerID       uuid.UUID     `json:"customer_id"`
	PackageID        uuid.UUID     `json:"package_id"`
	EventDate        entities.Date `json:"event_date"`
	Amount           int64         `json:"amount"`
}

func (s *Server) CreateReservationHandler(c echo.Context) error {
	var request CreateReservationRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	ctx := idempotency.WithKey(c.Request().Context(), request.PaymentReference)

	reservation, err := s.reservations.CreateReservation(ctx, entities.PaymentConfirmation{
		PaymentReference: request.PaymentReference,
		ProviderID:       request.ProviderID,
		CustomerID:       request.CustomerID,
		PackageID:        request.PackageID,
		EventDate:        request.EventDate,
		Amount:           request.Amount,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, reservation)
}
