package booking

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	trmanager "github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/avito-tech/go-transaction-manager/trm/v2/settings"

	"decorconnect/internal/entities"
	"decorconnect/internal/interfaces/message/events"
	"decorconnect/internal/interfaces/message/outbox"
)

// OutboxEventSink publishes through the transactional outbox: the event row
// is committed in Postgres and the forwarder moves it to the broker, so a
// committed write never loses its event.
type OutboxEventSink struct {
	trManager       *trmanager.Manager
	trGetter        *trmsqlx.CtxGetter
	watermillLogger watermill.LoggerAdapter
}

func NewOutboxEventSink(
	trManager *trmanager.Manager,
	trGetter *trmsqlx.CtxGetter,
	watermillLogger watermill.LoggerAdapter,
) *OutboxEventSink {
	return &OutboxEventSink{
		trManager:       trManager,
		trGetter:        trGetter,
		watermillLogger: watermillLogger,
	}
}

func (s *OutboxEventSink) Publish(ctx context.Context, event entities.Event) error {
	return s.trManager.DoWithSettings(
		ctx,
		trmsql.MustSettings(
			settings.Must(settings.WithCancelable(true)),
			trmsql.WithTxOptions(&sql.TxOptions{Isolation: sql.LevelReadCommitted}),
		),
		func(ctx context.Context) error {
			tr := s.trGetter.DefaultTrOrDB(ctx, nil)
			if tr == nil {
				return fmt.Errorf("failed to get transaction from context")
			}

			publisher, err := outbox.NewPublisher(tr, s.watermillLogger)
			if err != nil {
				return fmt.Errorf("failed to create event publisher: %w", err)
			}

			eb, err := events.NewEventBus(publisher, s.watermillLogger)
			if err != nil {
				return fmt.Errorf("failed to create event bus: %w", err)
			}

			return eb.Publish(ctx, event)
		},
	)
}
