package usecase

import (
	"context"
	"time"

	"realty-service/internal/contextkeys"
	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"

	"github.com/google/uuid"
)

// compatibleGuard отклоняет пару, не проходящую предикат подбора
func compatibleGuard(need *domain.Need, offer *domain.Offer) error {
	return domain.CheckDealPair(need, offer)
}

// publishDealEvent не влияет на результат запроса: ошибка только логируется
func publishDealEvent(ctx context.Context, publisher port.DealEventPublisherPort, eventType domain.DealEventType, deal *domain.Deal) {
	event := domain.DealEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		DealID:     deal.ID,
		NeedID:     deal.NeedID,
		OfferID:    deal.OfferID,
		OccurredAt: time.Now().UTC(),
	}
	if err := publisher.PublishDealEvent(ctx, event); err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to publish deal event", err, port.Fields{
			"event_type": string(eventType),
			"deal_id":    deal.ID,
		})
	}
}

type ListDealsUseCase struct {
	repo port.DealRepositoryPort
}

func NewListDealsUseCase(repo port.DealRepositoryPort) *ListDealsUseCase {
	return &ListDealsUseCase{repo: repo}
}

func (uc *ListDealsUseCase) Execute(ctx context.Context) ([]domain.Deal, error) {
	return uc.repo.List(ctx, domain.NoFilter{})
}

type GetDealUseCase struct {
	repo port.DealRepositoryPort
}

func NewGetDealUseCase(repo port.DealRepositoryPort) *GetDealUseCase {
	return &GetDealUseCase{repo: repo}
}

func (uc *GetDealUseCase) Execute(ctx context.Context, id int64) (*domain.Deal, error) {
	return uc.repo.GetByID(ctx, id)
}

type CreateDealUseCase struct {
	repo      port.DealRepositoryPort
	publisher port.DealEventPublisherPort
}

func NewCreateDealUseCase(repo port.DealRepositoryPort, publisher port.DealEventPublisherPort) *CreateDealUseCase {
	return &CreateDealUseCase{repo: repo, publisher: publisher}
}

func (uc *CreateDealUseCase) Execute(ctx context.Context, needID, offerID int64) (*domain.Deal, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "CreateDeal",
		"need_id":  needID,
		"offer_id": offerID,
	})
	ucLogger.Info("Use case started", nil)

	deal := &domain.Deal{NeedID: needID, OfferID: offerID}
	if err := deal.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, deal, compatibleGuard); err != nil {
		ucLogger.Warn("Deal was not created", port.Fields{"error": err.Error()})
		return nil, err
	}

	created, err := uc.repo.GetByID(ctx, deal.ID)
	if err != nil {
		ucLogger.Error("Failed to reload created deal", err, port.Fields{"deal_id": deal.ID})
		return nil, err
	}
	publishDealEvent(ctx, uc.publisher, domain.DealCreated, created)

	ucLogger.Info("Use case finished successfully", port.Fields{"deal_id": created.ID})
	return created, nil
}

type UpdateDealUseCase struct {
	repo port.DealRepositoryPort
}

func NewUpdateDealUseCase(repo port.DealRepositoryPort) *UpdateDealUseCase {
	return &UpdateDealUseCase{repo: repo}
}

func (uc *UpdateDealUseCase) Execute(ctx context.Context, id, needID, offerID int64) (*domain.Deal, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "UpdateDeal",
		"deal_id":  id,
	})

	deal := &domain.Deal{ID: id, NeedID: needID, OfferID: offerID}
	if err := deal.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, deal, compatibleGuard); err != nil {
		ucLogger.Warn("Deal was not updated", port.Fields{"error": err.Error()})
		return nil, err
	}
	ucLogger.Info("Deal updated", nil)
	return uc.repo.GetByID(ctx, id)
}

type DeleteDealUseCase struct {
	repo      port.DealRepositoryPort
	publisher port.DealEventPublisherPort
}

func NewDeleteDealUseCase(repo port.DealRepositoryPort, publisher port.DealEventPublisherPort) *DeleteDealUseCase {
	return &DeleteDealUseCase{repo: repo, publisher: publisher}
}

func (uc *DeleteDealUseCase) Execute(ctx context.Context, id int64) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "DeleteDeal",
		"deal_id":  id,
	})

	deal, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		ucLogger.Error("Repository returned an error", err, nil)
		return err
	}
	publishDealEvent(ctx, uc.publisher, domain.DealDeleted, deal)
	ucLogger.Info("Deal deleted", nil)
	return nil
}
