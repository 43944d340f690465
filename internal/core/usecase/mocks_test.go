package usecase

import (
	"context"
	"strings"

	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"

	"github.com/stretchr/testify/mock"
)

type entityRepoMock[T any, F any] struct {
	mock.Mock
}

func (m *entityRepoMock[T, F]) List(ctx context.Context, filter F) ([]T, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]T)
	return items, args.Error(1)
}

func (m *entityRepoMock[T, F]) GetByID(ctx context.Context, id int64) (*T, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*T), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *entityRepoMock[T, F]) Create(ctx context.Context, entity *T) error {
	return m.Called(ctx, entity).Error(0)
}

func (m *entityRepoMock[T, F]) Update(ctx context.Context, entity *T) error {
	return m.Called(ctx, entity).Error(0)
}

func (m *entityRepoMock[T, F]) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type clientRepoMock struct {
	entityRepoMock[domain.Client, domain.NoFilter]
}

type actRepoMock struct {
	entityRepoMock[domain.Act, domain.NoFilter]
}

type propertyRepoMock struct {
	entityRepoMock[domain.Property, domain.PropertyFilter]
}

func (m *propertyRepoMock) FindInBoundingBox(ctx context.Context, bb domain.BoundingBox) ([]domain.Property, error) {
	args := m.Called(ctx, bb)
	items, _ := args.Get(0).([]domain.Property)
	return items, args.Error(1)
}

type needRepoMock struct {
	entityRepoMock[domain.Need, domain.NeedFilter]
}

func (m *needRepoMock) FindCandidates(ctx context.Context, offer *domain.Offer) ([]domain.Need, error) {
	args := m.Called(ctx, offer)
	items, _ := args.Get(0).([]domain.Need)
	return items, args.Error(1)
}

type offerRepoMock struct {
	entityRepoMock[domain.Offer, domain.OfferFilter]
}

func (m *offerRepoMock) FindCandidates(ctx context.Context, need *domain.Need) ([]domain.Offer, error) {
	args := m.Called(ctx, need)
	items, _ := args.Get(0).([]domain.Offer)
	return items, args.Error(1)
}

type dealRepoMock struct {
	mock.Mock
}

func (m *dealRepoMock) List(ctx context.Context, filter domain.NoFilter) ([]domain.Deal, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]domain.Deal)
	return items, args.Error(1)
}

func (m *dealRepoMock) GetByID(ctx context.Context, id int64) (*domain.Deal, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Deal), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *dealRepoMock) Create(ctx context.Context, deal *domain.Deal, guard port.DealGuard) error {
	return m.Called(ctx, deal, guard).Error(0)
}

func (m *dealRepoMock) Update(ctx context.Context, deal *domain.Deal, guard port.DealGuard) error {
	return m.Called(ctx, deal, guard).Error(0)
}

func (m *dealRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) PublishDealEvent(ctx context.Context, event domain.DealEvent) error {
	return m.Called(ctx, event).Error(0)
}

type fileStorageMock struct {
	mock.Mock
}

func (m *fileStorageMock) Save(ctx context.Context, folder string, upload port.Upload) (string, error) {
	args := m.Called(ctx, folder, upload)
	return args.String(0), args.Error(1)
}

func (m *fileStorageMock) Delete(ctx context.Context, publicPath string) error {
	return m.Called(ctx, publicPath).Error(0)
}

// exactMatcher - точное совпадение без учета регистра
type exactMatcher struct{}

func (exactMatcher) Words(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

func (exactMatcher) MatchAny(words []string, values []string, _ int) bool {
	for _, w := range words {
		for _, v := range values {
			if v != "" && strings.ToLower(v) == w {
				return true
			}
		}
	}
	return false
}
