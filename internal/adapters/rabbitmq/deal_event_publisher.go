package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"realty-service/internal/constants"
	"realty-service/internal/contextkeys"
	"realty-service/internal/contracts"
	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// messagePublisher - то, что нужно адаптеру от rabbitmq_producer.Publisher
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// DealEventDTO - тело сообщения deal.created / deal.deleted
type DealEventDTO struct {
	EventID    string `json:"event_id"`
	EventType  string `json:"event_type"`
	DealID     int64  `json:"deal_id"`
	NeedID     int64  `json:"need_id"`
	OfferID    int64  `json:"offer_id"`
	OccurredAt string `json:"occurred_at"`
}

// DealEventPublisherAdapter публикует события о сделках в обменник сервиса
type DealEventPublisherAdapter struct {
	producer messagePublisher
}

func NewDealEventPublisherAdapter(producer messagePublisher) (*DealEventPublisherAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	return &DealEventPublisherAdapter{producer: producer}, nil
}

func routingKeyFor(t domain.DealEventType) (string, error) {
	switch t {
	case domain.DealCreated:
		return constants.RoutingKeyDealCreated, nil
	case domain.DealDeleted:
		return constants.RoutingKeyDealDeleted, nil
	}
	return "", fmt.Errorf("unknown deal event type %q", t)
}

func (a *DealEventPublisherAdapter) PublishDealEvent(ctx context.Context, event domain.DealEvent) error {
	routingKey, err := routingKeyFor(event.Type)
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: %w", err)
	}

	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "DealEventPublisherAdapter",
		"routing_key": routingKey,
		"deal_id":     event.DealID,
		"event_id":    event.EventID,
	})

	body, err := json.Marshal(DealEventDTO{
		EventID:    event.EventID,
		EventType:  string(event.Type),
		DealID:     event.DealID,
		NeedID:     event.NeedID,
		OfferID:    event.OfferID,
		OccurredAt: event.OccurredAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to marshal deal event: %w", err)
	}

	// битое событие не должно уйти потребителям
	if err := contracts.ValidateEvent(contracts.DealChangedEvent, contracts.CurrentEventVersion, body); err != nil {
		adapterLogger.Error("Deal event violates its contract", err, nil)
		return fmt.Errorf("rabbitmq adapter: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		MessageId:    event.EventID,
		Headers: amqp.Table{
			constants.HeaderEventType:    contracts.DealChangedEvent,
			constants.HeaderEventVersion: contracts.CurrentEventVersion,
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers[constants.HeaderTraceID] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish deal event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish deal event %s: %w", event.EventID, err)
	}

	adapterLogger.Info("Deal event published", nil)
	return nil
}

// NoopDealEventPublisher используется, когда брокер выключен
type NoopDealEventPublisher struct{}

func (NoopDealEventPublisher) PublishDealEvent(ctx context.Context, event domain.DealEvent) error {
	contextkeys.LoggerFromContext(ctx).Debug("Messaging disabled, deal event dropped", port.Fields{
		"event_type": string(event.Type),
		"deal_id":    event.DealID,
	})
	return nil
}
