package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"realty-service/internal/constants"
	"realty-service/internal/contextkeys"
	"realty-service/internal/contracts"
	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"
	"realty-service/internal/core/port/usecases_port"
	"realty-service/pkg/rabbitmq/rabbitmq_common"
	"realty-service/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ActScheduledDTO - входящее сообщение из внешнего календаря
type ActScheduledDTO struct {
	DateTime time.Time `json:"date_time"`
	Duration int       `json:"duration"`
	ActType  string    `json:"act_type"`
	Comment  string    `json:"comment"`
}

// ActConsumerAdapter - входящий адаптер: слушает очередь мероприятий и вызывает use case
type ActConsumerAdapter struct {
	consumer rabbitmq_consumer.Consumer
	useCase  usecases_port.IngestActUseCasePort
	logger   port.LoggerPort
}

func NewActConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	useCase usecases_port.IngestActUseCasePort,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*ActConsumerAdapter, error) {
	adapter := &ActConsumerAdapter{
		useCase: useCase,
		logger:  logger,
	}

	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewDistributingConsumer(consumerCfg, adapter.handleDelivery, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for acts: %w", err)
	}
	adapter.consumer = consumer
	return adapter, nil
}

// handleDelivery: ошибки контракта неповторяемы, ошибки хранилища идут на ретрай
func (a *ActConsumerAdapter) handleDelivery(d amqp.Delivery) error {
	traceID, _ := d.Headers[constants.HeaderTraceID].(string)
	if traceID == "" {
		traceID = uuid.NewString()
	}

	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"message_id":   d.MessageId,
		"adapter_name": "ActConsumerAdapter",
	})
	ctx := contextkeys.ContextWithLogger(context.Background(), msgLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	eventType, _ := d.Headers[constants.HeaderEventType].(string)
	eventVersion, _ := d.Headers[constants.HeaderEventVersion].(string)
	if err := contracts.ValidateEvent(eventType, eventVersion, d.Body); err != nil {
		msgLogger.Error("Message failed schema validation. Rejecting.", err, nil)
		return rabbitmq_consumer.Permanent(err)
	}

	var dto ActScheduledDTO
	if err := json.Unmarshal(d.Body, &dto); err != nil {
		return rabbitmq_consumer.Permanent(fmt.Errorf("failed to unmarshal act message: %w", err))
	}

	act := &domain.Act{
		DateTime: dto.DateTime,
		Duration: dto.Duration,
		Type:     domain.ActType(dto.ActType),
		Comment:  dto.Comment,

		// повторная доставка того же сообщения не создает второй акт
		ExternalID: d.MessageId,
	}
	if err := a.useCase.Execute(ctx, act); err != nil {
		if _, ok := domain.IsValidationError(err); ok || errors.Is(err, domain.ErrInvalidReference) {
			return rabbitmq_consumer.Permanent(err)
		}
		return err
	}
	return nil
}

// Start реализует EventListenerPort
func (a *ActConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

// Close реализует EventListenerPort
func (a *ActConsumerAdapter) Close() error {
	return a.consumer.Close()
}
