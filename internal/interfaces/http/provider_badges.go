package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"decorconnect/internal/entities"
)

type ProviderBadgesResponse struct {
	ProviderID uuid.UUID        `json:"provider_id"`
	Badges     []entities.Badge `json:"badges"`
}

func (s *Server) ProviderBadgesHandler(c echo.Context) error {
	providerID, err := uuid.Parse(c.Param("provider_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "provider_id is not a valid UUID"})
	}

	provider, err := s.providers.Get(c.Request().Context(), providerID)
	if err != nil {
		return errorResponse(c, err)
	}

	badges := provider.Badges
	if badges == nil {
		badges = []entities.Badge{}
	}

	return c.JSON(http.StatusOK, ProviderBadgesResponse{
		ProviderID: provider.ID,
		Badges:     badges,
	})
}
