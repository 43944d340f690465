package usecases_port

import (
	"context"

	"realty-service/internal/core/domain"
)

type SearchClientsUseCasePort interface {
	Execute(ctx context.Context, query string) ([]domain.Client, error)
}

type SearchRealtorsUseCasePort interface {
	Execute(ctx context.Context, query string) ([]domain.Realtor, error)
}

type SearchDealsUseCasePort interface {
	Execute(ctx context.Context, query string) ([]domain.Deal, error)
}
