package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"decorconnect/internal/entities"
)

func (s *Server) ListReservationsHandler(c echo.Context) error {
	ownerID, err := uuid.Parse(c.QueryParam("owner_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "owner_id is not a valid UUID"})
	}

	role := entities.OwnerRole(c.QueryParam("role"))

	reservations, err := s.reservations.ListReservations(c.Request().Context(), ownerID, role)
	if err != nil {
		return errorResponse(c, err)
	}

	if reservations == nil {
		reservations = []entities.Reservation{}
	}

	return c.JSON(http.StatusOK, reservations)
}

func (s *Server) GetReservationHandler(c echo.Context) error {
	bookingID := c.Param("booking_id")
	if bookingID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "booking_id is required"})
	}

	reservation, err := s.reservations.GetReservation(c.Request().Context(), bookingID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, reservation)
}
