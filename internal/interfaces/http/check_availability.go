package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"decorconnect/internal/entities"
)

func (s *Server) CheckAvailabilityHandler(c echo.Context) error {
	providerID, err := uuid.Parse(c.QueryParam("provider_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "provider_id is not a valid UUID"})
	}

	eventDate, err := entities.ParseDate(c.QueryParam("event_date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "event_date must be YYYY-MM-DD"})
	}

	availability, err := s.reservations.CheckAvailability(c.Request().Context(), providerID, eventDate)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, availability)
}
