package usecase

import (
	"context"

	"realty-service/internal/contextkeys"
	"realty-service/internal/core/port"
)

type validatable[T any] interface {
	*T
	Validate() error
}

type normalizer interface {
	Normalize()
}

// EntityUseCase - CRUD сущности: нормализация, проверка и вызов репозитория
type EntityUseCase[T any, F any, PT validatable[T]] struct {
	repo port.EntityRepositoryPort[T, F]
	name string
}

func NewEntityUseCase[T any, F any, PT validatable[T]](repo port.EntityRepositoryPort[T, F], name string) *EntityUseCase[T, F, PT] {
	return &EntityUseCase[T, F, PT]{repo: repo, name: name}
}

func (uc *EntityUseCase[T, F, PT]) logger(ctx context.Context, method string) port.LoggerPort {
	return contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": uc.name + "." + method,
	})
}

func (uc *EntityUseCase[T, F, PT]) List(ctx context.Context, filter F) ([]T, error) {
	items, err := uc.repo.List(ctx, filter)
	if err != nil {
		uc.logger(ctx, "List").Error("Repository returned an error", err, nil)
		return nil, err
	}
	return items, nil
}

func (uc *EntityUseCase[T, F, PT]) Get(ctx context.Context, id int64) (*T, error) {
	return uc.repo.GetByID(ctx, id)
}

func (uc *EntityUseCase[T, F, PT]) prepare(entity *T) error {
	if n, ok := any(entity).(normalizer); ok {
		n.Normalize()
	}
	return PT(entity).Validate()
}

func (uc *EntityUseCase[T, F, PT]) Create(ctx context.Context, entity *T) error {
	ucLogger := uc.logger(ctx, "Create")
	if err := uc.prepare(entity); err != nil {
		ucLogger.Debug("Validation failed", port.Fields{"error": err.Error()})
		return err
	}
	if err := uc.repo.Create(ctx, entity); err != nil {
		ucLogger.Error("Repository returned an error", err, nil)
		return err
	}
	ucLogger.Info("Entity created", nil)
	return nil
}

func (uc *EntityUseCase[T, F, PT]) Update(ctx context.Context, entity *T) error {
	ucLogger := uc.logger(ctx, "Update")
	if err := uc.prepare(entity); err != nil {
		ucLogger.Debug("Validation failed", port.Fields{"error": err.Error()})
		return err
	}
	if err := uc.repo.Update(ctx, entity); err != nil {
		ucLogger.Error("Repository returned an error", err, nil)
		return err
	}
	ucLogger.Info("Entity updated", nil)
	return nil
}

func (uc *EntityUseCase[T, F, PT]) Delete(ctx context.Context, id int64) error {
	ucLogger := uc.logger(ctx, "Delete").WithFields(port.Fields{"id": id})
	if err := uc.repo.Delete(ctx, id); err != nil {
		ucLogger.Warn("Delete rejected", port.Fields{"error": err.Error()})
		return err
	}
	ucLogger.Info("Entity deleted", nil)
	return nil
}
