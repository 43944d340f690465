package usecases_port

import (
	"context"

	"realty-service/internal/core/domain"
)

// IngestActUseCasePort сохраняет мероприятие, пришедшее из очереди
type IngestActUseCasePort interface {
	Execute(ctx context.Context, act *domain.Act) error
}
