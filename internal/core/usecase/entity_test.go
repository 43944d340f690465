package usecase

import (
	"context"
	"fmt"
	"testing"

	"realty-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEntityUseCase_CreateNormalizesAndValidates(t *testing.T) {
	ctx := context.Background()
	repo := new(clientRepoMock)
	uc := NewEntityUseCase[domain.Client, domain.NoFilter](repo, "Clients")

	repo.On("Create", ctx, mock.MatchedBy(func(c *domain.Client) bool {
		return c.FirstName == "Анна" && c.Phone == "89991234567"
	})).Return(nil)

	err := uc.Create(ctx, &domain.Client{FirstName: "  Анна ", Phone: " 89991234567"})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestEntityUseCase_CreateRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	repo := new(clientRepoMock)
	uc := NewEntityUseCase[domain.Client, domain.NoFilter](repo, "Clients")

	err := uc.Create(ctx, &domain.Client{FirstName: "Без контактов"})
	_, isValidation := domain.IsValidationError(err)
	assert.True(t, isValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEntityUseCase_NeedUpdateClearsForeignRanges(t *testing.T) {
	ctx := context.Background()
	repo := new(needRepoMock)
	uc := NewEntityUseCase[domain.Need, domain.NeedFilter](repo, "Needs")

	repo.On("Update", ctx, mock.MatchedBy(func(n *domain.Need) bool {
		return !n.Rooms.IsSet() && n.LandArea.IsSet() && n.Address == "Тула"
	})).Return(nil)

	need := &domain.Need{
		ID: 1, ClientID: 1, RealtorID: 1, Type: domain.PropertyTypeLand, City: "Тула",
		MinPrice: 10, MaxPrice: 20,
		Rooms:    domain.Range[int]{Min: domain.Ptr(1)},
		LandArea: domain.Range[float64]{Min: domain.Ptr(5.0)},
	}
	require.NoError(t, uc.Update(ctx, need))
	repo.AssertExpectations(t)
}

func TestEntityUseCase_DeleteInUse(t *testing.T) {
	ctx := context.Background()
	repo := new(clientRepoMock)
	repo.On("Delete", ctx, int64(3)).Return(domain.ErrInUse)

	err := NewEntityUseCase[domain.Client, domain.NoFilter](repo, "Clients").Delete(ctx, 3)
	assert.ErrorIs(t, err, domain.ErrInUse)
}

func TestEntityUseCase_UpdateBreakingDealIsRejected(t *testing.T) {
	ctx := context.Background()
	repo := new(offerRepoMock)
	uc := NewEntityUseCase[domain.Offer, domain.OfferFilter](repo, "Offers")

	breakErr := fmt.Errorf("deal 7: %w", domain.ErrIncompatibleDeal)
	repo.On("Update", ctx, mock.AnythingOfType("*domain.Offer")).Return(breakErr)

	err := uc.Update(ctx, &domain.Offer{ID: 5, ClientID: 1, RealtorID: 1, PropertyID: 9, Price: 3_500_000})
	assert.ErrorIs(t, err, domain.ErrIncompatibleDeal)
	repo.AssertExpectations(t)
}
