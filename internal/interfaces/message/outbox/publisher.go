package outbox

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	watermillSQL "github.com/ThreeDotsLabs/watermill-sql/v2/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"

	"decorconnect/internal/infrastructure/event_publisher"
	"decorconnect/internal/observability"
)

// Topic is the single Postgres-backed topic the forwarder drains; every
// event envelope carries its destination topic inside.
const Topic = "events_to_forward"

// NewPublisher writes events into the outbox table through the caller's
// transaction, so an event only exists if the write it accompanies
// committed.
func NewPublisher(
	tx watermillSQL.ContextExecutor,
	logger watermill.LoggerAdapter,
) (message.Publisher, error) {
	publisher, err := watermillSQL.NewPublisher(
		tx,
		watermillSQL.PublisherConfig{
			SchemaAdapter: watermillSQL.DefaultPostgreSQLSchema{},
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}

	// Correlation id and trace context go into metadata before the message
	// is stored, so the forwarder carries them to the broker untouched.
	var decorated message.Publisher = event_publisher.CorrelationPublisherDecorator{Publisher: publisher}
	decorated = observability.PublisherWithTracing{Publisher: decorated}

	return forwarder.NewPublisher(decorated, forwarder.PublisherConfig{
		ForwarderTopic: Topic,
	}), nil
}
