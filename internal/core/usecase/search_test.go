package usecase

import (
	"context"
	"testing"

	"realty-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSearchClients(t *testing.T) {
	ctx := context.Background()
	repo := new(clientRepoMock)
	repo.On("List", ctx, domain.NoFilter{}).Return([]domain.Client{
		{ID: 1, LastName: "Иванов", FirstName: "Петр"},
		{ID: 2, LastName: "Сидорова", FirstName: "Анна"},
	}, nil)

	got, err := NewSearchClientsUseCase(repo, exactMatcher{}).Execute(ctx, "анна")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestSearch_EmptyQuery(t *testing.T) {
	repo := new(clientRepoMock)
	_, err := NewSearchClientsUseCase(repo, exactMatcher{}).Execute(context.Background(), "   ")

	verr, ok := domain.IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "query")
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestSearchDeals_ByAddress(t *testing.T) {
	ctx := context.Background()
	repo := new(dealRepoMock)
	repo.On("List", ctx, domain.NoFilter{}).Return([]domain.Deal{
		{ID: 1, Offer: &domain.Offer{Property: &domain.Property{City: "Омск"}}},
		{ID: 2, Offer: &domain.Offer{Property: &domain.Property{City: "Томск"}}},
	}, nil)

	got, err := NewSearchDealsUseCase(repo, exactMatcher{}).Execute(ctx, "томск")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestSearchPropertiesInRegion(t *testing.T) {
	ctx := context.Background()
	repo := new(propertyRepoMock)
	square := []domain.Point{{Lat: 55, Lon: 37}, {Lat: 55, Lon: 38}, {Lat: 56, Lon: 38}, {Lat: 56, Lon: 37}}

	repo.On("FindInBoundingBox", ctx, domain.BoundingBox{MinLat: 55, MinLon: 37, MaxLat: 56, MaxLon: 38}).Return([]domain.Property{
		{ID: 1, Latitude: domain.Ptr(55.5), Longitude: domain.Ptr(37.5)},
		{ID: 2, Latitude: domain.Ptr(56.5), Longitude: domain.Ptr(37.5)},
		{ID: 3},
	}, nil)

	got, err := NewSearchPropertiesInRegionUseCase(repo).Execute(ctx, square)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestSearchPropertiesInRegion_TooFewVertices(t *testing.T) {
	_, err := NewSearchPropertiesInRegionUseCase(new(propertyRepoMock)).
		Execute(context.Background(), []domain.Point{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}})

	verr, ok := domain.IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "coordinates")
}

func TestSearchPropertiesByAddress(t *testing.T) {
	ctx := context.Background()
	repo := new(propertyRepoMock)
	repo.On("List", ctx, domain.PropertyFilter{}).Return([]domain.Property{
		{ID: 1, City: "Москва", HouseNumber: "12"},
		{ID: 2, City: "Казань", HouseNumber: "7"},
	}, nil)

	got, err := NewSearchPropertiesByAddressUseCase(repo, exactMatcher{}).Execute(ctx, "7")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}
