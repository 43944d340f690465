package rabbitmq_consumer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"realty-service/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler обрабатывает одно сообщение. ack/nack/retry решает пакет.
type MessageHandler func(delivery amqp.Delivery) error

// permanentError помечает ошибку, для которой повтор бессмысленен
// (битое сообщение, нарушение контракта)
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent оборачивает ошибку обработчика: сообщение сразу уходит в финальную DLQ
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent сообщает, помечена ли ошибка как неповторяемая
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

type deliveryAction int

const (
	actionAck deliveryAction = iota
	actionDrop
	actionRetry
	actionDeadLetter
)

// decideAction - что делать с сообщением после обработчика
func decideAction(handlerErr error, retryEnabled bool, deaths int64, maxRetries int) deliveryAction {
	switch {
	case handlerErr == nil:
		return actionAck
	case !retryEnabled:
		return actionDrop
	case IsPermanent(handlerErr):
		return actionDeadLetter
	case deaths < int64(maxRetries):
		return actionRetry
	default:
		return actionDeadLetter
	}
}

// DistributingConsumer обрабатывает каждое сообщение в отдельной горутине
type DistributingConsumer struct {
	baseConsumer *baseConsumer
	handler      MessageHandler
}

// NewDistributingConsumer создает нового потребителя
func NewDistributingConsumer(cfg ConsumerConfig, handler MessageHandler, connManager *rabbitmq_common.ConnectionManager) (*DistributingConsumer, error) {
	if handler == nil {
		return nil, fmt.Errorf("distributing Consumer: message handler is required")
	}

	bc, err := newBaseConsumer(cfg, connManager)
	if err != nil {
		return nil, fmt.Errorf("distributing Consumer: %w", err)
	}

	return &DistributingConsumer{
		baseConsumer: bc,
		handler:      handler,
	}, nil
}

// StartConsuming блокируется до отмены ctx или закрытия соединения
func (c *DistributingConsumer) StartConsuming(ctx context.Context) error {
	bc := c.baseConsumer
	if bc.channel == nil || bc.connection == nil || bc.connection.IsClosed() {
		return fmt.Errorf("distributing Consumer: not connected")
	}

	msgs, err := bc.channel.Consume(
		bc.actualQueueName,
		bc.config.ConsumerTag,
		false, // auto-ack
		bc.config.ExclusiveConsumer,
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("distributing Consumer %s: failed to register a consumer on queue '%s': %w", bc.config.ConsumerTag, bc.actualQueueName, err)
	}

	bc.Logger.Info("[*] Waiting for messages on queue", "queue_name", bc.actualQueueName)

	go func() {
		for {
			// сначала неблокирующая проверка, чтобы не брать новую работу после отмены
			select {
			case <-ctx.Done():
				return
			default:
			}

			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					bc.Logger.Info("Deliveries channel closed by RabbitMQ", "consumer_tag", bc.config.ConsumerTag)
					return
				}
				bc.wg.Add(1)
				go func(delivery amqp.Delivery) {
					defer bc.wg.Done()
					c.process(delivery)
				}(d)
			}
		}
	}()

	notifyClose := bc.connection.NotifyClose(make(chan *amqp.Error, 1))

	select {
	case <-ctx.Done():
		bc.Logger.Info("Context cancelled. Shutting down consumer.", "consumer_tag", bc.config.ConsumerTag)
		return nil
	case amqpErr := <-notifyClose:
		bc.Logger.Error(amqpErr, "Connection closed for consumer.", "consumer_tag", bc.config.ConsumerTag)
		if amqpErr == nil {
			return fmt.Errorf("distributing Consumer %s: connection closed", bc.config.ConsumerTag)
		}
		return amqpErr
	}
}

func (c *DistributingConsumer) process(delivery amqp.Delivery) {
	bc := c.baseConsumer

	handlerErr := c.handler(delivery)
	if handlerErr != nil {
		bc.Logger.Error(handlerErr, "Handler error for message",
			"consumer_tag", bc.config.ConsumerTag,
			"delivery_tag", delivery.DeliveryTag)
	}

	deaths := deathCount(delivery.Headers, bc.actualQueueName)
	switch decideAction(handlerErr, bc.config.EnableRetryMechanism, deaths, bc.config.MaxRetries) {
	case actionAck:
		_ = delivery.Ack(false)
	case actionDrop:
		_ = delivery.Nack(false, false)
	case actionRetry:
		bc.Logger.Info("Retrying message", "delivery_tag", delivery.DeliveryTag, "death_count", deaths)
		_ = delivery.Nack(false, false)
	case actionDeadLetter:
		err := bc.finalDlxPublisher.Publish(
			context.Background(),
			bc.config.FinalDLQRoutingKey,
			amqp.Publishing{
				ContentType:  delivery.ContentType,
				Body:         delivery.Body,
				Headers:      delivery.Headers,
				Timestamp:    time.Now(),
				DeliveryMode: amqp.Persistent,
			},
		)
		if err != nil {
			bc.Logger.Error(err, "Failed to publish to final DLX. Nacking to trigger retry loop again.",
				"delivery_tag", delivery.DeliveryTag)
			_ = delivery.Nack(false, false)
			return
		}
		bc.Logger.Info("Message moved to final DLQ", "delivery_tag", delivery.DeliveryTag)
		_ = delivery.Ack(false)
	}
}

// Close закрывает потребителя
func (c *DistributingConsumer) Close() error {
	c.baseConsumer.Logger.Info("Closing consumer")
	return c.baseConsumer.Close()
}
