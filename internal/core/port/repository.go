package port

import (
	"context"

	"realty-service/internal/core/domain"
)

// EntityRepositoryPort - общий CRUD для сущностей. F - тип фильтра списка.
// GetByID возвращает domain.ErrNotFound, Delete - domain.ErrInUse, если на запись ссылаются.
type EntityRepositoryPort[T any, F any] interface {
	List(ctx context.Context, filter F) ([]T, error)
	GetByID(ctx context.Context, id int64) (*T, error)
	// Create заполняет ID
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id int64) error
}

type ClientRepositoryPort interface {
	EntityRepositoryPort[domain.Client, domain.NoFilter]
}

type RealtorRepositoryPort interface {
	EntityRepositoryPort[domain.Realtor, domain.NoFilter]
}

type PropertyRepositoryPort interface {
	EntityRepositoryPort[domain.Property, domain.PropertyFilter]
	// FindInBoundingBox - объекты с координатами внутри прямоугольника
	FindInBoundingBox(ctx context.Context, bb domain.BoundingBox) ([]domain.Property, error)
}

type OfferRepositoryPort interface {
	EntityRepositoryPort[domain.Offer, domain.OfferFilter]
	// FindCandidates - предварительный отбор свободных предложений под потребность
	FindCandidates(ctx context.Context, need *domain.Need) ([]domain.Offer, error)
}

type NeedRepositoryPort interface {
	EntityRepositoryPort[domain.Need, domain.NeedFilter]
	// FindCandidates - предварительный отбор свободных потребностей под предложение
	FindCandidates(ctx context.Context, offer *domain.Offer) ([]domain.Need, error)
}

type ActRepositoryPort interface {
	EntityRepositoryPort[domain.Act, domain.NoFilter]
}

// DealGuard вызывается внутри транзакции, когда потребность и предложение
// заблокированы и загружены. Ошибка отменяет операцию.
type DealGuard func(need *domain.Need, offer *domain.Offer) error

type DealRepositoryPort interface {
	List(ctx context.Context, filter domain.NoFilter) ([]domain.Deal, error)
	// GetByID возвращает сделку с вложенными потребностью и предложением
	GetByID(ctx context.Context, id int64) (*domain.Deal, error)
	// Create возвращает domain.ErrAlreadyInDeal, если сторона уже занята
	Create(ctx context.Context, deal *domain.Deal, guard DealGuard) error
	Update(ctx context.Context, deal *domain.Deal, guard DealGuard) error
	Delete(ctx context.Context, id int64) error
}
