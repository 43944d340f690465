package rest

import (
	"context"
	"io"
	"sort"
	"sync"

	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"
)

// memCRUD - EntityUseCasePort в памяти
type memCRUD[T any, F any] struct {
	mu        sync.Mutex
	items     map[int64]T
	nextID    int64
	getID     func(*T) int64
	setID     func(*T, int64)
	validate  func(*T) error
	updateErr error
	deleteErr error
}

func newMemCRUD[T any, F any](getID func(*T) int64, setID func(*T, int64), validate func(*T) error) *memCRUD[T, F] {
	return &memCRUD[T, F]{items: map[int64]T{}, getID: getID, setID: setID, validate: validate}
}

func (m *memCRUD[T, F]) List(ctx context.Context, filter F) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.items[id])
	}
	return out, nil
}

func (m *memCRUD[T, F]) Get(ctx context.Context, id int64) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &item, nil
}

func (m *memCRUD[T, F]) Create(ctx context.Context, entity *T) error {
	if m.validate != nil {
		if err := m.validate(entity); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.setID(entity, m.nextID)
	m.items[m.nextID] = *entity
	return nil
}

func (m *memCRUD[T, F]) Update(ctx context.Context, entity *T) error {
	if m.validate != nil {
		if err := m.validate(entity); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.getID(entity)
	if _, ok := m.items[id]; !ok {
		return domain.ErrNotFound
	}
	if m.updateErr != nil {
		return m.updateErr
	}
	m.items[id] = *entity
	return nil
}

func (m *memCRUD[T, F]) Delete(ctx context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

// fakeSearch подходит под все Search*UseCasePort
type fakeSearch[T any] struct {
	fn func(query string) ([]T, error)
}

func (f fakeSearch[T]) Execute(ctx context.Context, query string) ([]T, error) { return f.fn(query) }

func requireQuery[T any](items []T) fakeSearch[T] {
	return fakeSearch[T]{fn: func(query string) ([]T, error) {
		if query == "" {
			verr := domain.NewValidationError()
			verr.Add("query", "this parameter is required")
			return nil, verr
		}
		return items, nil
	}}
}

type fakeSaveProperty struct {
	crud   *memCRUD[domain.Property, domain.PropertyFilter]
	upload *port.Upload
	body   []byte
}

func (f *fakeSaveProperty) Execute(ctx context.Context, p *domain.Property, image *port.Upload) error {
	f.upload = image
	if image != nil {
		f.body, _ = io.ReadAll(image.Content)
		p.Image = "/media/properties/stored.png"
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == 0 {
		return f.crud.Create(ctx, p)
	}
	return f.crud.Update(ctx, p)
}

type fakeDeleteProperty struct{ err error }

func (f fakeDeleteProperty) Execute(ctx context.Context, id int64) error { return f.err }

type fakeRegion struct{ got []domain.Point }

func (f *fakeRegion) Execute(ctx context.Context, vertices []domain.Point) ([]domain.Property, error) {
	f.got = vertices
	if len(vertices) < 3 {
		verr := domain.NewValidationError()
		verr.Add("coordinates", "polygon requires at least 3 vertices")
		return nil, verr
	}
	lat, lon := 55.75, 37.61
	return []domain.Property{{ID: 9, Type: domain.PropertyTypeApartment, Latitude: &lat, Longitude: &lon}}, nil
}

type fakeMatchingOffers struct{ offers []domain.Offer }

func (f fakeMatchingOffers) Execute(ctx context.Context, needID int64) ([]domain.Offer, error) {
	if needID == 404 {
		return nil, domain.ErrNotFound
	}
	return f.offers, nil
}

type fakeMatchingNeeds struct{ needs []domain.Need }

func (f fakeMatchingNeeds) Execute(ctx context.Context, offerID int64) ([]domain.Need, error) {
	return f.needs, nil
}

// dealStore - состояние для всех фейков сделок
type dealStore struct {
	deal      *domain.Deal
	createErr error
	updateErr error
	breakdown domain.CommissionBreakdown
	reportErr error
	published []domain.DealEventType
}

func (s *dealStore) get(id int64) (*domain.Deal, error) {
	if s.deal == nil || s.deal.ID != id {
		return nil, domain.ErrNotFound
	}
	return s.deal, nil
}

type listDealsFake struct{ s *dealStore }

func (u listDealsFake) Execute(ctx context.Context) ([]domain.Deal, error) {
	if u.s.deal == nil {
		return []domain.Deal{}, nil
	}
	return []domain.Deal{*u.s.deal}, nil
}

type getDealFake struct{ s *dealStore }

func (u getDealFake) Execute(ctx context.Context, id int64) (*domain.Deal, error) { return u.s.get(id) }

type createDealFake struct{ s *dealStore }

func (u createDealFake) Execute(ctx context.Context, needID, offerID int64) (*domain.Deal, error) {
	if u.s.createErr != nil {
		return nil, u.s.createErr
	}
	u.s.deal = &domain.Deal{
		ID: 1, NeedID: needID, OfferID: offerID,
		Need:  &domain.Need{ID: needID, Type: domain.PropertyTypeApartment, MinPrice: 1, MaxPrice: 3000000},
		Offer: &domain.Offer{ID: offerID, Price: 2500000},
	}
	u.s.published = append(u.s.published, domain.DealCreated)
	return u.s.deal, nil
}

type updateDealFake struct{ s *dealStore }

func (u updateDealFake) Execute(ctx context.Context, id, needID, offerID int64) (*domain.Deal, error) {
	if _, err := u.s.get(id); err != nil {
		return nil, err
	}
	if u.s.updateErr != nil {
		return nil, u.s.updateErr
	}
	u.s.deal.NeedID, u.s.deal.OfferID = needID, offerID
	return u.s.deal, nil
}

type deleteDealFake struct{ s *dealStore }

func (u deleteDealFake) Execute(ctx context.Context, id int64) error {
	if _, err := u.s.get(id); err != nil {
		return err
	}
	u.s.deal = nil
	u.s.published = append(u.s.published, domain.DealDeleted)
	return nil
}

type commissionsFake struct{ s *dealStore }

func (u commissionsFake) Execute(ctx context.Context, dealID int64) (domain.CommissionBreakdown, error) {
	if _, err := u.s.get(dealID); err != nil {
		return domain.CommissionBreakdown{}, err
	}
	return u.s.breakdown, nil
}

type reportFake struct{ s *dealStore }

func (u reportFake) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (u reportFake) Execute(ctx context.Context, w io.Writer) error {
	if u.s.reportErr != nil {
		return u.s.reportErr
	}
	_, err := w.Write([]byte("PK-xlsx"))
	return err
}

func (s *dealStore) useCases() DealUseCases {
	return DealUseCases{
		List:        listDealsFake{s},
		Get:         getDealFake{s},
		Create:      createDealFake{s},
		Update:      updateDealFake{s},
		Delete:      deleteDealFake{s},
		Search:      requireQuery([]domain.Deal{}),
		Commissions: commissionsFake{s},
		Report:      reportFake{s},
	}
}
