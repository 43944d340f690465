package port

import "context"

// EventListenerPort - входящий адаптер, слушающий внешние события
type EventListenerPort interface {
	// Start блокируется до отмены ctx или фатальной ошибки
	Start(ctx context.Context) error

	// Close дожидается активных обработчиков и освобождает ресурсы
	Close() error
}
