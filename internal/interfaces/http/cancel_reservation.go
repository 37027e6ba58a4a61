package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CancelReservationRequest struct {
	ActorID uuid.UUID `json:"actor_id"`
}

func (s *Server) CancelReservationHandler(c echo.Context) error {
	bookingID := c.Param("booking_id")
	if bookingID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "booking_id is required"})
	}

	var request CancelReservationRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	err := s.reservations.CancelReservation(c.Request().Context(), bookingID, request.ActorID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) CompleteReservationHandler(c echo.Context) error {
	bookingID := c.Param("booking_id")
	if bookingID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "booking_id is required"})
	}

	err := s.reservations.CompleteReservation(c.Request().Context(), bookingID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
