package usecases_port

import "context"

// EntityUseCasePort - CRUD сущности с нормализацией и проверкой
type EntityUseCasePort[T any, F any] interface {
	List(ctx context.Context, filter F) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id int64) error
}
