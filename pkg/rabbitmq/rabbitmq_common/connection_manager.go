package rabbitmq_common

import (
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	defaultReconnectInterval = 10 * time.Second
	maxReconnectInterval     = 2 * time.Minute
	heartbeat                = 10 * time.Second
)

// ConnectionManager держит одно соединение RabbitMQ на процесс и раздает из него каналы.
// Разрыв соединения замечается через NotifyClose, переподключение идет с удвоением паузы.
type ConnectionManager struct {
	url               string
	reconnectInterval time.Duration
	connection        *amqp.Connection
	mutex             sync.RWMutex
	stop              chan struct{}
	stopOnce          sync.Once
	Logger            Logger
}

// NewManager подключается к брокеру и запускает фоновое переподключение
func NewManager(url string, reconnectInterval time.Duration, logger Logger) (*ConnectionManager, error) {
	if logger == nil {
		logger = NewNoopLogger()
	}
	if reconnectInterval <= 0 {
		reconnectInterval = defaultReconnectInterval
	}

	m := &ConnectionManager{
		url:               url,
		reconnectInterval: reconnectInterval,
		stop:              make(chan struct{}),
		Logger:            logger,
	}

	conn, err := m.dial()
	if err != nil {
		logger.Error(err, "Initial connection failed")
		return nil, fmt.Errorf("initial connection failed: %w", err)
	}

	go m.watch(conn)
	return m, nil
}

func (m *ConnectionManager) dial() (*amqp.Connection, error) {
	m.Logger.Debug("ConnectionManager: Connecting...")
	conn, err := amqp.DialConfig(m.url, amqp.Config{
		Heartbeat: heartbeat,
		Locale:    "en_US",
	})
	if err != nil {
		return nil, fmt.Errorf("ConnectionManager: failed to dial RabbitMQ: %w", err)
	}

	m.mutex.Lock()
	m.connection = conn
	m.mutex.Unlock()

	m.Logger.Info("ConnectionManager: Connected to RabbitMQ")
	return conn, nil
}

// watch ждет закрытия соединения и переподключается, пока не вызван Close
func (m *ConnectionManager) watch(conn *amqp.Connection) {
	for {
		closed := conn.NotifyClose(make(chan *amqp.Error, 1))
		select {
		case <-m.stop:
			return
		case amqpErr, ok := <-closed:
			if !ok || amqpErr == nil {
				// штатное закрытие
				return
			}
			m.Logger.Warn("ConnectionManager: Connection lost", "code", amqpErr.Code, "reason", amqpErr.Reason)
		}

		next, ok := m.reconnect()
		if !ok {
			return
		}
		conn = next
	}
}

func (m *ConnectionManager) reconnect() (*amqp.Connection, bool) {
	wait := m.reconnectInterval
	for attempt := 1; ; attempt++ {
		select {
		case <-m.stop:
			return nil, false
		case <-time.After(wait):
		}

		conn, err := m.dial()
		if err == nil {
			return conn, true
		}
		m.Logger.Error(err, "ConnectionManager: Reconnect failed", "attempt", attempt, "next_in", wait.String())
		wait = min(wait*2, maxReconnectInterval)
	}
}

// GetChannel открывает новый канал на общем соединении
func (m *ConnectionManager) GetChannel() (*amqp.Connection, *amqp.Channel, error) {
	m.mutex.RLock()
	conn := m.connection
	m.mutex.RUnlock()

	if conn == nil || conn.IsClosed() {
		return nil, nil, fmt.Errorf("ConnectionManager: connection is not available")
	}
	ch, err := conn.Channel()
	if err != nil {
		return conn, nil, fmt.Errorf("ConnectionManager: failed to open a channel: %w", err)
	}
	return conn, ch, nil
}

// Close останавливает переподключение и закрывает соединение
func (m *ConnectionManager) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.connection == nil || m.connection.IsClosed() {
		return nil
	}
	if err := m.connection.Close(); err != nil {
		m.Logger.Error(err, "ConnectionManager: Failed to close connection properly")
		return err
	}
	m.Logger.Debug("ConnectionManager: Connection closed.")
	return nil
}
