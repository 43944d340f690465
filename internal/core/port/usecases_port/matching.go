package usecases_port

import (
	"context"

	"realty-service/internal/core/domain"
)

type FindMatchingOffersUseCasePort interface {
	Execute(ctx context.Context, needID int64) ([]domain.Offer, error)
}

type FindMatchingNeedsUseCasePort interface {
	Execute(ctx context.Context, offerID int64) ([]domain.Need, error)
}
