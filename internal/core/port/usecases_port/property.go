package usecases_port

import (
	"context"

	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"
)

type SavePropertyUseCasePort interface {
	// Execute создает объект при ID == 0, иначе обновляет. image может быть nil.
	Execute(ctx context.Context, property *domain.Property, image *port.Upload) error
}

type DeletePropertyUseCasePort interface {
	Execute(ctx context.Context, id int64) error
}

type SearchPropertiesByAddressUseCasePort interface {
	Execute(ctx context.Context, query string) ([]domain.Property, error)
}

type SearchPropertiesInRegionUseCasePort interface {
	Execute(ctx context.Context, vertices []domain.Point) ([]domain.Property, error)
}
