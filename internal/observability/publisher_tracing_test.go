package observability

import (
	"context"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

type capturePublisher struct {
	published []*message.Message
}

func (c *capturePublisher) Publish(topic string, messages ...*message.Message) error {
	c.published = append(c.published, messages...)
	return nil
}

func (c *capturePublisher) Close() error {
	return nil
}

func TestPublisherWithTracing_InjectsTraceContext(t *testing.T) {
	tp := ConfigureTraceProvider("")
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})

	ctx, span := otel.Tracer("publisher-test").Start(context.Background(), "publish reservation event")
	defer span.End()

	msg := message.NewMessage("message-1", []byte(`{}`))
	msg.SetContext(ctx)

	capture := &capturePublisher{}
	require.NoError(t, PublisherWithTracing{Publisher: capture}.Publish("events.ReservationConfirmed_v1", msg))

	require.Len(t, capture.published, 1)
	traceparent := capture.published[0].Metadata.Get("traceparent")
	require.NotEmpty(t, traceparent, "trace context must travel in message metadata")
	assert.Contains(t, traceparent, span.SpanContext().TraceID().String())
}
