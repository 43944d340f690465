package rabbitmq_producer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"realty-service/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrNotConfirmed - брокер ответил nack на опубликованное сообщение
var ErrNotConfirmed = errors.New("producer: message was nacked by broker")

// PublisherConfig конфигурация для производителя
type PublisherConfig struct {
	rabbitmq_common.Config
	ExchangeName       string // пустая строка - default exchange
	ExchangeType       string // direct, fanout, topic, headers
	DurableExchange    bool
	AutoDeleteExchange bool
	ExchangeArgs       amqp.Table

	// если false, обменник должен уже существовать
	DeclareExchangeIfMissing bool

	// ждать подтверждения брокера на каждое сообщение
	ConfirmDelivery bool

	Logger rabbitmq_common.Logger
}

func (c *PublisherConfig) validate() error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid base config: %w", err)
	}
	if !c.DeclareExchangeIfMissing {
		return nil
	}
	if c.ExchangeName == "" && c.ExchangeType != "" {
		return fmt.Errorf("producer: exchange name is required when ExchangeType is set")
	}
	if c.ExchangeType == "" && c.ExchangeName != "" {
		return fmt.Errorf("producer: exchange type is required when ExchangeName is set")
	}
	return nil
}

// Publisher публикует сообщения в один обменник.
// amqp.Channel не потокобезопасен для публикации, поэтому Publish сериализован.
// Закрытый канал открывается заново при следующей публикации.
type Publisher struct {
	config      PublisherConfig
	connManager *rabbitmq_common.ConnectionManager
	channel     *amqp.Channel
	mu          sync.Mutex

	Logger rabbitmq_common.Logger
}

// NewPublisher открывает канал из connManager и, если нужно, объявляет обменник
func NewPublisher(cfg PublisherConfig, connManager *rabbitmq_common.ConnectionManager) (*Publisher, error) {
	if connManager == nil {
		return nil, fmt.Errorf("producer: connection manager cannot be nil")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	p := &Publisher{config: cfg, connManager: connManager, Logger: logger}
	if err := p.openChannel(); err != nil {
		return nil, err
	}
	return p, nil
}

// openChannel вызывается под p.mu или до того, как Publisher стал доступен другим
func (p *Publisher) openChannel() error {
	_, ch, err := p.connManager.GetChannel()
	if err != nil {
		return fmt.Errorf("producer: failed to get channel from manager: %w", err)
	}

	if p.config.DeclareExchangeIfMissing {
		p.Logger.Debug("Declaring exchange", "name", p.config.ExchangeName, "type", p.config.ExchangeType)
		err = ch.ExchangeDeclare(
			p.config.ExchangeName,
			p.config.ExchangeType,
			p.config.DurableExchange,
			p.config.AutoDeleteExchange,
			false, // internal
			false, // no-wait
			p.config.ExchangeArgs,
		)
		if err != nil {
			_ = ch.Close()
			return fmt.Errorf("producer: failed to declare exchange '%s': %w", p.config.ExchangeName, err)
		}
	}

	if p.config.ConfirmDelivery {
		if err := ch.Confirm(false); err != nil {
			_ = ch.Close()
			return fmt.Errorf("producer: failed to enable confirm mode: %w", err)
		}
	}

	p.channel = ch
	p.Logger.Debug("Producer channel ready", "exchange", p.config.ExchangeName, "confirm", p.config.ConfirmDelivery)
	return nil
}

// Publish публикует сообщение с указанным ключом маршрутизации.
// В режиме подтверждений возвращает управление только после ack брокера.
func (p *Publisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() {
		p.Logger.Warn("Producer channel is closed, reopening", "exchange", p.config.ExchangeName)
		if err := p.openChannel(); err != nil {
			return err
		}
	}

	if !p.config.ConfirmDelivery {
		if err := p.channel.PublishWithContext(ctx, p.config.ExchangeName, routingKey, false, false, msg); err != nil {
			return fmt.Errorf("producer: failed to publish message: %w", err)
		}
		return nil
	}

	confirmation, err := p.channel.PublishWithDeferredConfirmWithContext(ctx, p.config.ExchangeName, routingKey, false, false, msg)
	if err != nil {
		return fmt.Errorf("producer: failed to publish message: %w", err)
	}
	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("producer: waiting for confirmation: %w", err)
	}
	if !acked {
		return ErrNotConfirmed
	}
	return nil
}

// Close закрывает канал производителя. Соединением владеет ConnectionManager.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return nil
	}
	err := p.channel.Close()
	p.channel = nil
	if err != nil && !errors.Is(err, amqp.ErrClosed) {
		p.Logger.Error(err, "Error closing producer channel")
		return err
	}
	p.Logger.Info("Producer closed.")
	return nil
}
