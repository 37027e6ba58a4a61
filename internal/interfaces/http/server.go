package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"decorconnect/internal/application/usecases/booking"
	"decorconnect/internal/entities"
)

type ProvidersReader interface {
	Get(ctx context.Context, providerID uuid.UUID) (*entities.Provider, error)
}

type Server struct {
	e *echo.Echo

	reservations *booking.ReservationsUsecase
	providers    ProvidersReader
}

func NewServer(
	e *echo.Echo,
	reservations *booking.ReservationsUsecase,
	providers ProvidersReader,
	routerIsRunning func() bool,
) *Server {
	srv := &Server{
		e:            e,
		reservations: reservations,
		providers:    providers,
	}

	e.GET("/availability", srv.CheckAvailabilityHandler)
	e.POST("/reservations", srv.CreateReservationHandler)
	e.GET("/reservations", srv.ListReservationsHandler)
	e.GET("/reservations/:booking_id", srv.GetReservationHandler)
	e.POST("/reservations/:booking_id/cancel", srv.CancelReservationHandler)
	e.POST("/reservations/:booking_id/complete", srv.CompleteReservationHandler)
	e.GET("/providers/:provider_id/badges", srv.ProviderBadgesHandler)

	e.GET("/health", func(c echo.Context) error {
		if !routerIsRunning() {
			return c.String(http.StatusServiceUnavailable, "router is not running")
		}
		return c.String(http.StatusOK, "ok")
	})

	// logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log.FromContext(c.Request().Context()).
				WithField("path", c.Request().URL.Path).
				Info("Handling a request")

			err := next(c)

			if err != nil {
				log.FromContext(c.Request().Context()).
					WithField("error", err).
					Error("Request handling error")
			}

			return err
		}
	})
	return srv
}

func (s *Server) Start() error {
	err := s.e.Start(":8080")
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// statusFromError maps the error taxonomy to HTTP statuses. An availability
// conflict is an ordinary negative outcome (409), not a server error; a
// ledger divergence is.
func statusFromError(err error) int {
	divergence := &entities.LedgerDivergenceError{}
	switch {
	case errors.Is(err, entities.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrDateConflict):
		return http.StatusConflict
	case errors.Is(err, entities.ErrIDGenerationExhausted),
		errors.Is(err, entities.ErrReservationPersist):
		return http.StatusServiceUnavailable
	case errors.As(err, &divergence):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func errorResponse(c echo.Context, err error) error {
	return c.JSON(statusFromError(err), map[string]string{"error": err.Error()})
}
