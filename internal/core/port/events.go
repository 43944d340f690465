package port

import (
	"context"

	"realty-service/internal/core/domain"
)

// DealEventPublisherPort отправляет события о сделках во внешние системы
type DealEventPublisherPort interface {
	PublishDealEvent(ctx context.Context, event domain.DealEvent) error
}
