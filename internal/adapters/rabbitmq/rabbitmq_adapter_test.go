package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"realty-service/internal/constants"
	"realty-service/internal/contextkeys"
	"realty-service/internal/contracts"
	"realty-service/internal/core/domain"
	"realty-service/pkg/rabbitmq/rabbitmq_consumer"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	routingKey string
	msg        amqp.Publishing
	err        error
	calls      int
}

func (f *fakeProducer) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	f.calls++
	f.routingKey = routingKey
	f.msg = msg
	return f.err
}

type fakeIngest struct {
	got *domain.Act
	err error
}

func (f *fakeIngest) Execute(ctx context.Context, act *domain.Act) error {
	f.got = act
	return f.err
}

func sampleEvent(t domain.DealEventType) domain.DealEvent {
	return domain.DealEvent{
		EventID:    "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
		Type:       t,
		DealID:     7,
		NeedID:     3,
		OfferID:    5,
		OccurredAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPublishDealEvent(t *testing.T) {
	producer := &fakeProducer{}
	adapter, err := NewDealEventPublisherAdapter(producer)
	require.NoError(t, err)

	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-1")
	require.NoError(t, adapter.PublishDealEvent(ctx, sampleEvent(domain.DealCreated)))

	assert.Equal(t, constants.RoutingKeyDealCreated, producer.routingKey)
	assert.Equal(t, "trace-1", producer.msg.Headers[constants.HeaderTraceID])
	assert.Equal(t, contracts.DealChangedEvent, producer.msg.Headers[constants.HeaderEventType])
	assert.Equal(t, uint8(amqp.Persistent), producer.msg.DeliveryMode)

	var dto DealEventDTO
	require.NoError(t, json.Unmarshal(producer.msg.Body, &dto))
	assert.Equal(t, int64(7), dto.DealID)
	assert.Equal(t, "deal.created", dto.EventType)
	assert.Equal(t, "2026-05-01T12:00:00Z", dto.OccurredAt)
}

func TestPublishDealEventRoutingAndErrors(t *testing.T) {
	producer := &fakeProducer{}
	adapter, _ := NewDealEventPublisherAdapter(producer)

	require.NoError(t, adapter.PublishDealEvent(context.Background(), sampleEvent(domain.DealDeleted)))
	assert.Equal(t, constants.RoutingKeyDealDeleted, producer.routingKey)
	assert.NotContains(t, producer.msg.Headers, constants.HeaderTraceID)

	assert.Error(t, adapter.PublishDealEvent(context.Background(), sampleEvent("deal.archived")))

	broken := sampleEvent(domain.DealCreated)
	broken.DealID = 0
	producer.calls = 0
	assert.Error(t, adapter.PublishDealEvent(context.Background(), broken))
	assert.Zero(t, producer.calls, "invalid event must not be published")

	producer.err = errors.New("channel closed")
	err := adapter.PublishDealEvent(context.Background(), sampleEvent(domain.DealCreated))
	assert.ErrorIs(t, err, producer.err)

	_, err = NewDealEventPublisherAdapter(nil)
	assert.Error(t, err)
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopDealEventPublisher{}.PublishDealEvent(context.Background(), sampleEvent(domain.DealCreated)))
}

func actDelivery(body string) amqp.Delivery {
	return amqp.Delivery{
		MessageId: "cal-42",
		Body:      []byte(body),
		Headers: amqp.Table{
			constants.HeaderEventType:    contracts.ActScheduledEvent,
			constants.HeaderEventVersion: contracts.CurrentEventVersion,
			constants.HeaderTraceID:      "trace-2",
		},
	}
}

func TestHandleDeliveryStoresAct(t *testing.T) {
	ingest := &fakeIngest{}
	adapter := &ActConsumerAdapter{useCase: ingest, logger: contextkeys.NoopLogger()}

	err := adapter.handleDelivery(actDelivery(`{"date_time":"2026-03-01T09:30:00Z","duration":30,"act_type":"Показ","comment":"первый показ"}`))
	require.NoError(t, err)
	require.NotNil(t, ingest.got)
	assert.Equal(t, domain.ActTypeShowing, ingest.got.Type)
	assert.Equal(t, 30, ingest.got.Duration)
	assert.Equal(t, "первый показ", ingest.got.Comment)
	assert.True(t, ingest.got.DateTime.Equal(time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)))
	assert.Equal(t, "cal-42", ingest.got.ExternalID)
}

func TestHandleDeliveryRedeliveryKeepsMessageID(t *testing.T) {
	ingest := &fakeIngest{}
	adapter := &ActConsumerAdapter{useCase: ingest, logger: contextkeys.NoopLogger()}
	body := `{"date_time":"2026-03-01T09:30:00Z","duration":30,"act_type":"Показ"}`

	first := actDelivery(body)
	require.NoError(t, adapter.handleDelivery(first))
	firstID := ingest.got.ExternalID

	again := actDelivery(body)
	again.Redelivered = true
	require.NoError(t, adapter.handleDelivery(again))
	assert.Equal(t, firstID, ingest.got.ExternalID)
	assert.NotEmpty(t, firstID)
}

func TestHandleDeliveryErrorClassification(t *testing.T) {
	valid := `{"date_time":"2026-03-01T09:30:00Z","duration":30,"act_type":"Показ"}`

	t.Run("schema violation is permanent", func(t *testing.T) {
		ingest := &fakeIngest{}
		adapter := &ActConsumerAdapter{useCase: ingest, logger: contextkeys.NoopLogger()}
		err := adapter.handleDelivery(actDelivery(`{"duration":30}`))
		assert.True(t, rabbitmq_consumer.IsPermanent(err))
		assert.Nil(t, ingest.got)
	})

	t.Run("missing headers is permanent", func(t *testing.T) {
		adapter := &ActConsumerAdapter{useCase: &fakeIngest{}, logger: contextkeys.NoopLogger()}
		err := adapter.handleDelivery(amqp.Delivery{Body: []byte(valid)})
		assert.True(t, rabbitmq_consumer.IsPermanent(err))
	})

	t.Run("validation error is permanent", func(t *testing.T) {
		verr := domain.NewValidationError()
		verr.Add("duration", "must be positive")
		adapter := &ActConsumerAdapter{useCase: &fakeIngest{err: verr}, logger: contextkeys.NoopLogger()}
		assert.True(t, rabbitmq_consumer.IsPermanent(adapter.handleDelivery(actDelivery(valid))))
	})

	t.Run("storage error is retried", func(t *testing.T) {
		storeErr := errors.New("connection reset")
		adapter := &ActConsumerAdapter{useCase: &fakeIngest{err: storeErr}, logger: contextkeys.NoopLogger()}
		err := adapter.handleDelivery(actDelivery(valid))
		assert.ErrorIs(t, err, storeErr)
		assert.False(t, rabbitmq_consumer.IsPermanent(err))
	})
}

func TestPkgLoggerBridgeFields(t *testing.T) {
	fields := toFields([]interface{}{"queue", "acts.incoming", 42, "skipped", "next_in", 5 * time.Second, "dangling"})
	assert.Equal(t, "acts.incoming", fields["queue"])
	assert.Equal(t, "skipped", fields["42"])
	assert.Equal(t, "5s", fields["next_in"])
	assert.Equal(t, "dangling", fields["extra"])
	assert.Len(t, fields, 4)

	assert.Nil(t, toFields(nil))
}
