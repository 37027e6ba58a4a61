package app

import (
	"context"
	"os"
	"time"

	commonHTTP "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"decorconnect/internal/application/usecases/booking"
	"decorconnect/internal/application/usecases/reputation"
	"decorconnect/internal/bookingid"
	"decorconnect/internal/interfaces/http"
	"decorconnect/internal/interfaces/message/events"
	"decorconnect/internal/outbox"
	"decorconnect/internal/repository"
)

type App struct {
	watermillLogger watermill.LoggerAdapter
	logger          zerolog.Logger
	router          *message.Router
	forwarder       *outbox.Forwarder
	srv             *http.Server
	db              *sqlx.DB
}

func NewApp(
	watermillLogger watermill.LoggerAdapter,
	notificationsClient events.NotificationsService,
	redisClient *redis.Client,
	db *sqlx.DB,
) (*App, error) {
	trManager := manager.Must(trmsqlx.NewDefaultFactory(db))
	trGetter := trmsqlx.DefaultCtxGetter

	providerLedger := repository.NewProviderLedgerRepo(db, trGetter)
	customerLedger := repository.NewCustomerLedgerRepo(db, trGetter)
	providersRepo := repository.NewProvidersRepo(db, trGetter)
	packagesRepo := repository.NewPackagesRepo(db, trGetter)
	reconciliationRepo := repository.NewReconciliationRepo(db, trGetter)

	idGenerator := bookingid.NewGenerator(booking.DualLedgerProbe{
		Provider: providerLedger,
		Customer: customerLedger,
	})

	eventSink := booking.NewOutboxEventSink(trManager, trGetter, watermillLogger)

	reservationsUsecase := booking.NewReservationsUsecase(
		providerLedger,
		customerLedger,
		packagesRepo,
		reconciliationRepo,
		idGenerator,
		eventSink,
	)
	reputationUsecase := reputation.NewRecomputeUsecase(providersRepo, providerLedger)

	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, err
	}

	router.AddMiddleware(middleware.Recoverer)
	router.AddMiddleware(events.CorrelationIDMiddleware)
	router.AddMiddleware(events.LoggingMiddleware)
	router.AddMiddleware(events.MetricsMiddleware)

	router.AddMiddleware(middleware.Retry{
		MaxRetries:      10,
		InitialInterval: time.Millisecond * 100,
		MaxInterval:     time.Second,
		Multiplier:      2,
		Logger:          watermillLogger,
	}.Middleware)

	// skip marshalling errors before retrying
	router.AddMiddleware(events.SkipMarshallingErrorsMiddleware)

	processor, err := cqrs.NewEventProcessorWithConfig(
		router,
		events.NewEventProcessorConfig(redisClient, watermillLogger),
	)
	if err != nil {
		return nil, err
	}

	handler := events.NewHandler(reservationsUsecase, reputationUsecase, notificationsClient)
	err = processor.AddHandlers(
		handler.CreateReservationHandler(),
		handler.RecomputeBadgesOnConfirmedHandler(),
		handler.NotifyReservationConfirmedHandler(),
		handler.RecomputeBadgesOnCancelledHandler(),
		handler.NotifyReservationCancelledHandler(),
		handler.LogDivergenceHandler(),
	)
	if err != nil {
		return nil, err
	}

	forwarder, err := outbox.NewForwarder(db, redisClient, watermillLogger)
	if err != nil {
		return nil, err
	}

	e := commonHTTP.NewEcho()
	srv := http.NewServer(
		e,
		reservationsUsecase,
		providersRepo,
		router.IsRunning,
	)

	return &App{
		watermillLogger: watermillLogger,
		logger:          zerolog.New(os.Stdout),
		router:          router,
		forwarder:       forwarder,
		srv:             srv,
		db:              db,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := repository.InitializeDBSchema(a.db)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info().Msg("starting router")

		return a.router.Run(ctx)
	})

	g.Go(func() error {
		a.logger.Info().Msg("starting outbox forwarder")

		return a.forwarder.Run(ctx)
	})

	g.Go(func() error {
		<-a.router.Running()
		a.logger.Info().Msg("router is running")

		a.logger.Info().Msg("starting server")
		return a.srv.Start()
	})

	g.Go(func() error {
		<-ctx.Done()

		err := a.srv.Stop(context.Background())
		if err != nil {
			a.logger.Err(err).Msg("error stopping server")
		}

		return err
	})

	return g.Wait()
}
