package usecases_port

import (
	"context"
	"io"

	"realty-service/internal/core/domain"
)

type ListDealsUseCasePort interface {
	Execute(ctx context.Context) ([]domain.Deal, error)
}

type GetDealUseCasePort interface {
	Execute(ctx context.Context, id int64) (*domain.Deal, error)
}

// CreateDealUseCasePort возвращает сохраненную сделку со вложенными сущностями
type CreateDealUseCasePort interface {
	Execute(ctx context.Context, needID, offerID int64) (*domain.Deal, error)
}

type UpdateDealUseCasePort interface {
	Execute(ctx context.Context, id, needID, offerID int64) (*domain.Deal, error)
}

type DeleteDealUseCasePort interface {
	Execute(ctx context.Context, id int64) error
}

type GetDealCommissionsUseCasePort interface {
	Execute(ctx context.Context, dealID int64) (domain.CommissionBreakdown, error)
}

type BuildDealsReportUseCasePort interface {
	ContentType() string
	Execute(ctx context.Context, w io.Writer) error
}
