package usecase

import (
	"context"

	"realty-service/internal/contextkeys"
	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"
)

// FindMatchingOffersUseCase - свободные предложения, подходящие под потребность
type FindMatchingOffersUseCase struct {
	needs  port.NeedRepositoryPort
	offers port.OfferRepositoryPort
}

func NewFindMatchingOffersUseCase(needs port.NeedRepositoryPort, offers port.OfferRepositoryPort) *FindMatchingOffersUseCase {
	return &FindMatchingOffersUseCase{needs: needs, offers: offers}
}

func (uc *FindMatchingOffersUseCase) Execute(ctx context.Context, needID int64) ([]domain.Offer, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "FindMatchingOffers",
		"need_id":  needID,
	})

	need, err := uc.needs.GetByID(ctx, needID)
	if err != nil {
		return nil, err
	}
	candidates, err := uc.offers.FindCandidates(ctx, need)
	if err != nil {
		ucLogger.Error("Failed to load candidate offers", err, nil)
		return nil, err
	}

	// SQL только сужает выборку, решает предикат
	matched := make([]domain.Offer, 0, len(candidates))
	for i := range candidates {
		if domain.Matches(need, &candidates[i]) {
			matched = append(matched, candidates[i])
		}
	}
	ucLogger.Debug("Matching finished", port.Fields{"candidates": len(candidates), "matched": len(matched)})
	return matched, nil
}

// FindMatchingNeedsUseCase - свободные потребности, которым подходит предложение
type FindMatchingNeedsUseCase struct {
	needs  port.NeedRepositoryPort
	offers port.OfferRepositoryPort
}

func NewFindMatchingNeedsUseCase(needs port.NeedRepositoryPort, offers port.OfferRepositoryPort) *FindMatchingNeedsUseCase {
	return &FindMatchingNeedsUseCase{needs: needs, offers: offers}
}

func (uc *FindMatchingNeedsUseCase) Execute(ctx context.Context, offerID int64) ([]domain.Need, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "FindMatchingNeeds",
		"offer_id": offerID,
	})

	offer, err := uc.offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	candidates, err := uc.needs.FindCandidates(ctx, offer)
	if err != nil {
		ucLogger.Error("Failed to load candidate needs", err, nil)
		return nil, err
	}

	matched := make([]domain.Need, 0, len(candidates))
	for i := range candidates {
		if domain.Matches(&candidates[i], offer) {
			matched = append(matched, candidates[i])
		}
	}
	ucLogger.Debug("Matching finished", port.Fields{"candidates": len(candidates), "matched": len(matched)})
	return matched, nil
}
