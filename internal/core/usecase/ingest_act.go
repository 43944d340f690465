package usecase

import (
	"context"

	"realty-service/internal/contextkeys"
	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"
)

// IngestActUseCase сохраняет мероприятие из внешнего календаря
type IngestActUseCase struct {
	repo port.ActRepositoryPort
}

func NewIngestActUseCase(repo port.ActRepositoryPort) *IngestActUseCase {
	return &IngestActUseCase{repo: repo}
}

func (uc *IngestActUseCase) Execute(ctx context.Context, act *domain.Act) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "IngestAct",
		"act_type": string(act.Type),
	})

	act.Normalize()
	if err := act.Validate(); err != nil {
		ucLogger.Warn("Incoming act is invalid", port.Fields{"error": err.Error()})
		return err
	}
	if err := uc.repo.Create(ctx, act); err != nil {
		ucLogger.Error("Failed to store incoming act", err, nil)
		return err
	}
	ucLogger.Info("Act ingested", port.Fields{"act_id": act.ID})
	return nil
}
