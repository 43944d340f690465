package rabbitmq_consumer

import (
	"context"
	"fmt"
	"sync"

	"realty-service/pkg/rabbitmq/rabbitmq_common"
	"realty-service/pkg/rabbitmq/rabbitmq_producer"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer - общий контракт потребителей пакета
type Consumer interface {
	StartConsuming(ctx context.Context) error
	Close() error
}

// ConsumerConfig конфигурация для потребителя
type ConsumerConfig struct {
	rabbitmq_common.Config
	// Очередь
	QueueName       string // если пусто, имя сгенерирует сервер
	DeclareQueue    bool
	DurableQueue    bool
	ExclusiveQueue  bool
	AutoDeleteQueue bool
	QueueArgs       amqp.Table
	// Обменник для привязки (если пусто, привязка не выполняется)
	ExchangeNameForBind    string
	DeclareExchangeForBind bool
	ExchangeTypeForBind    string
	DurableExchangeForBind bool
	ExchangeArgsForBind    amqp.Table
	RoutingKeyForBind      string
	BindingArgs            amqp.Table
	// QoS
	PrefetchCount int
	PrefetchSize  int
	QosGlobal     bool
	// Потребитель
	ConsumerTag       string
	ExclusiveConsumer bool

	// Ретраи через wait-очередь с TTL и финальную DLQ
	EnableRetryMechanism bool
	RetryExchange        string
	RetryQueue           string
	RetryTTL             int // миллисекунды
	FinalDLXExchange     string
	FinalDLQ             string
	FinalDLQRoutingKey   string
	MaxRetries           int

	Logger rabbitmq_common.Logger
}

// baseConsumer содержит общую логику канала, QoS, топологии и ретраев
type baseConsumer struct {
	config            ConsumerConfig
	connection        *amqp.Connection
	channel           *amqp.Channel
	actualQueueName   string
	finalDlxPublisher *rabbitmq_producer.Publisher
	wg                sync.WaitGroup

	Logger rabbitmq_common.Logger
}

func newBaseConsumer(cfg ConsumerConfig, connManager *rabbitmq_common.ConnectionManager) (*baseConsumer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("base Consumer: invalid base config: %w", err)
	}
	if !cfg.DeclareQueue && cfg.QueueName == "" {
		return nil, fmt.Errorf("base Consumer: queue name is required if DeclareQueue is false")
	}
	if cfg.ExchangeNameForBind != "" && cfg.ExchangeTypeForBind == "" && cfg.DeclareExchangeForBind {
		return nil, fmt.Errorf("base Consumer: exchange type is required if declaring an exchange for binding")
	}
	if cfg.EnableRetryMechanism && (cfg.RetryExchange == "" || cfg.RetryQueue == "" || cfg.FinalDLXExchange == "" || cfg.FinalDLQ == "") {
		return nil, fmt.Errorf("base Consumer: retry mechanism requires retry exchange/queue and final DLX/DLQ names")
	}

	c := &baseConsumer{
		config: cfg,
		Logger: logger,
	}

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("base Consumer: failed to get channel from manager: %w", err)
	}
	c.connection = conn
	c.channel = ch

	if err := c.setupTopology(); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("base Consumer: setup failed: %w", err)
	}

	if cfg.EnableRetryMechanism {
		dlxPublisher, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Config:       rabbitmq_common.Config{URL: cfg.URL},
			ExchangeName: cfg.FinalDLXExchange,
			Logger:       logger,
		}, connManager)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("base Consumer: failed to create final DLX publisher: %w", err)
		}
		c.finalDlxPublisher = dlxPublisher
	}

	return c, nil
}

// setupTopology настраивает QoS, очередь, привязку и инфраструктуру ретраев
func (c *baseConsumer) setupTopology() error {
	if c.config.PrefetchCount > 0 || c.config.PrefetchSize > 0 {
		c.Logger.Debug("Setting QoS",
			"prefetch_count", c.config.PrefetchCount,
			"prefetch_size", c.config.PrefetchSize,
		)
		if err := c.channel.Qos(c.config.PrefetchCount, c.config.PrefetchSize, c.config.QosGlobal); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	if c.config.EnableRetryMechanism {
		if c.config.QueueArgs == nil {
			c.config.QueueArgs = amqp.Table{}
		}
		// упавшие сообщения основной очереди уходят в retry-обменник
		c.config.QueueArgs["x-dead-letter-exchange"] = c.config.RetryExchange
	}

	c.actualQueueName = c.config.QueueName
	if c.config.DeclareQueue {
		c.Logger.Debug("Declaring queue", "name", c.config.QueueName, "durable", c.config.DurableQueue)
		q, err := c.channel.QueueDeclare(
			c.config.QueueName,
			c.config.DurableQueue,
			c.config.AutoDeleteQueue,
			c.config.ExclusiveQueue,
			false, // no-wait
			c.config.QueueArgs,
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue '%s': %w", c.config.QueueName, err)
		}
		c.actualQueueName = q.Name
	}

	if c.config.DeclareExchangeForBind {
		c.Logger.Debug("Declaring exchange", "name", c.config.ExchangeNameForBind, "type", c.config.ExchangeTypeForBind)
		err := c.channel.ExchangeDeclare(
			c.config.ExchangeNameForBind,
			c.config.ExchangeTypeForBind,
			c.config.DurableExchangeForBind,
			false, // auto-deleted
			false, // internal
			false, // no-wait
			c.config.ExchangeArgsForBind,
		)
		if err != nil {
			return fmt.Errorf("failed to declare exchange '%s' for binding: %w", c.config.ExchangeNameForBind, err)
		}
	}

	if c.config.ExchangeNameForBind != "" {
		c.Logger.Debug("Binding queue to exchange",
			"queue_name", c.actualQueueName,
			"exchange_name", c.config.ExchangeNameForBind,
			"routing_key", c.config.RoutingKeyForBind,
		)
		err := c.channel.QueueBind(c.actualQueueName, c.config.RoutingKeyForBind, c.config.ExchangeNameForBind, false, c.config.BindingArgs)
		if err != nil {
			return fmt.Errorf("failed to bind queue '%s' to exchange '%s': %w", c.actualQueueName, c.config.ExchangeNameForBind, err)
		}
	}

	if c.config.EnableRetryMechanism {
		if err := c.setupRetryTopology(); err != nil {
			return err
		}
	}

	c.Logger.Debug("Setup complete", "queue", c.actualQueueName)
	return nil
}

func (c *baseConsumer) setupRetryTopology() error {
	if err := c.channel.ExchangeDeclare(c.config.FinalDLXExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare final DLX: %w", err)
	}
	if _, err := c.channel.QueueDeclare(c.config.FinalDLQ, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare final DLQ: %w", err)
	}
	if err := c.channel.QueueBind(c.config.FinalDLQ, c.config.FinalDLQRoutingKey, c.config.FinalDLXExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind final DLQ: %w", err)
	}

	if err := c.channel.ExchangeDeclare(c.config.RetryExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare retry exchange: %w", err)
	}

	// wait-очередь возвращает сообщения в основной обменник по истечении TTL
	_, err := c.channel.QueueDeclare(
		c.config.RetryQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		amqp.Table{
			"x-message-ttl":          int32(c.config.RetryTTL),
			"x-dead-letter-exchange": c.config.ExchangeNameForBind,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to declare retry-wait queue: %w", err)
	}
	if err := c.channel.QueueBind(c.config.RetryQueue, "", c.config.RetryExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind retry-wait queue: %w", err)
	}
	return nil
}

// deathCount - сколько раз сообщение умирало в указанной очереди (заголовок x-death)
func deathCount(headers amqp.Table, queueName string) int64 {
	if headers == nil {
		return 0
	}
	deaths, ok := headers["x-death"].([]interface{})
	if !ok {
		return 0
	}
	for _, death := range deaths {
		tbl, ok := death.(amqp.Table)
		if !ok {
			continue
		}
		if queue, ok := tbl["queue"].(string); ok && queue == queueName {
			if count, ok := tbl["count"].(int64); ok {
				return count
			}
		}
	}
	return 0
}

// Close дожидается обработчиков и закрывает канал
func (c *baseConsumer) Close() error {
	c.Logger.Debug("Waiting for message handlers to finish...")
	c.wg.Wait()

	var firstErr error
	if c.finalDlxPublisher != nil {
		if err := c.finalDlxPublisher.Close(); err != nil {
			c.Logger.Error(err, "Error closing final DLX publisher")
			firstErr = err
		}
	}
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.Logger.Error(err, "Error closing channel")
			if firstErr == nil {
				firstErr = err
			}
		}
		c.channel = nil
	}

	c.Logger.Info("Consumer closed")
	return firstErr
}
