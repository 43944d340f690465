package main

import (
	"context"
	"fmt"
	"strconv"

	postgres_adapter "realty-service/internal/adapters/postgres"
	"realty-service/internal/contextkeys"
	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"
	"realty-service/internal/core/usecase"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// seeder пишет через use case'ы с их нормализацией и проверками
type seeder struct {
	clients    *usecase.EntityUseCase[domain.Client, domain.NoFilter, *domain.Client]
	realtors   *usecase.EntityUseCase[domain.Realtor, domain.NoFilter, *domain.Realtor]
	properties *usecase.EntityUseCase[domain.Property, domain.PropertyFilter, *domain.Property]
	offers     *usecase.EntityUseCase[domain.Offer, domain.OfferFilter, *domain.Offer]
	needs      *usecase.EntityUseCase[domain.Need, domain.NeedFilter, *domain.Need]
}

func newSeeder(pool *pgxpool.Pool) (*seeder, error) {
	clients, err := postgres_adapter.NewPostgresClientRepository(pool)
	if err != nil {
		return nil, err
	}
	realtors, err := postgres_adapter.NewPostgresRealtorRepository(pool)
	if err != nil {
		return nil, err
	}
	properties, err := postgres_adapter.NewPostgresPropertyRepository(pool)
	if err != nil {
		return nil, err
	}
	offers, err := postgres_adapter.NewPostgresOfferRepository(pool)
	if err != nil {
		return nil, err
	}
	needs, err := postgres_adapter.NewPostgresNeedRepository(pool)
	if err != nil {
		return nil, err
	}
	return &seeder{
		clients:    usecase.NewEntityUseCase[domain.Client, domain.NoFilter](clients, "SeedClients"),
		realtors:   usecase.NewEntityUseCase[domain.Realtor, domain.NoFilter](realtors, "SeedRealtors"),
		properties: usecase.NewEntityUseCase[domain.Property, domain.PropertyFilter](properties, "SeedProperties"),
		offers:     usecase.NewEntityUseCase[domain.Offer, domain.OfferFilter](offers, "SeedOffers"),
		needs:      usecase.NewEntityUseCase[domain.Need, domain.NeedFilter](needs, "SeedNeeds"),
	}, nil
}

func warn(ctx context.Context, what string, err error) {
	contextkeys.LoggerFromContext(ctx).Warn("Skipped invalid "+what, port.Fields{"error": err.Error()})
}

func (s *seeder) seedClients(ctx context.Context, n int) []int64 {
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		c := &domain.Client{
			LastName:  gofakeit.LastName(),
			FirstName: gofakeit.FirstName(),
		}
		// хотя бы один способ связи обязателен
		switch gofakeit.Number(0, 2) {
		case 0:
			c.Phone = gofakeit.Numerify("+79#########")
		case 1:
			c.Email = gofakeit.Email()
		default:
			c.Phone = gofakeit.Numerify("89#########")
			c.Email = gofakeit.Email()
		}
		if err := s.clients.Create(ctx, c); err != nil {
			warn(ctx, "client", err)
			continue
		}
		ids = append(ids, c.ID)
	}
	return ids
}

func (s *seeder) seedRealtors(ctx context.Context, n int) []int64 {
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		r := &domain.Realtor{
			LastName:   gofakeit.LastName(),
			FirstName:  gofakeit.FirstName(),
			Patronymic: gofakeit.FirstName(),
		}
		if gofakeit.Bool() {
			share := decimal.NewFromFloat(gofakeit.Float64Range(30, 60)).Round(2)
			r.CommissionShare = &share
		}
		if err := s.realtors.Create(ctx, r); err != nil {
			warn(ctx, "realtor", err)
			continue
		}
		ids = append(ids, r.ID)
	}
	return ids
}

func (s *seeder) seedProperties(ctx context.Context, n int) []domain.Property {
	out := make([]domain.Property, 0, n)
	for i := 0; i < n; i++ {
		pt := domain.AllPropertyTypes()[gofakeit.Number(0, 2)]
		p := &domain.Property{
			Type:        pt,
			City:        gofakeit.RandomString(cities),
			Street:      gofakeit.RandomString(streets),
			HouseNumber: strconv.Itoa(gofakeit.Number(1, 150)),
		}
		if gofakeit.Number(0, 4) > 0 {
			lat := gofakeit.Float64Range(minLat, maxLat)
			lon := gofakeit.Float64Range(minLon, maxLon)
			p.Latitude, p.Longitude = &lat, &lon
		}
		switch pt {
		case domain.PropertyTypeApartment:
			p.ApartmentNumber = strconv.Itoa(gofakeit.Number(1, 400))
			p.Area = domain.Ptr(float64(gofakeit.Number(25, 140)))
			p.Rooms = domain.Ptr(gofakeit.Number(1, 5))
			p.Floor = domain.Ptr(gofakeit.Number(1, 25))
		case domain.PropertyTypeHouse:
			p.Area = domain.Ptr(float64(gofakeit.Number(60, 400)))
			p.Rooms = domain.Ptr(gofakeit.Number(2, 10))
			p.Floors = domain.Ptr(gofakeit.Number(1, 3))
		case domain.PropertyTypeLand:
			p.Area = domain.Ptr(float64(gofakeit.Number(400, 5000)))
		}
		if err := s.properties.Create(ctx, p); err != nil {
			warn(ctx, "property", err)
			continue
		}
		out = append(out, *p)
	}
	return out
}

// seedOffers: на каждый объект не больше одного предложения
func (s *seeder) seedOffers(ctx context.Context, n int, clients, realtors []int64, properties []domain.Property) int {
	if len(clients) == 0 || len(realtors) == 0 {
		return 0
	}
	created := 0
	for i := 0; i < n && i < len(properties); i++ {
		o := &domain.Offer{
			ClientID:   clients[gofakeit.Number(0, len(clients)-1)],
			RealtorID:  realtors[gofakeit.Number(0, len(realtors)-1)],
			PropertyID: properties[i].ID,
			Price:      int64(gofakeit.Number(10, 300)) * 100000,
		}
		if err := s.offers.Create(ctx, o); err != nil {
			warn(ctx, "offer", err)
			continue
		}
		created++
	}
	return created
}

func (s *seeder) seedNeeds(ctx context.Context, n int, clients, realtors []int64) int {
	if len(clients) == 0 || len(realtors) == 0 {
		return 0
	}
	created := 0
	for i := 0; i < n; i++ {
		pt := domain.AllPropertyTypes()[gofakeit.Number(0, 2)]
		minPrice := int64(gofakeit.Number(5, 150)) * 100000
		need := &domain.Need{
			ClientID:  clients[gofakeit.Number(0, len(clients)-1)],
			RealtorID: realtors[gofakeit.Number(0, len(realtors)-1)],
			Type:      pt,
			City:      gofakeit.RandomString(cities),
			MinPrice:  minPrice,
			MaxPrice:  minPrice + int64(gofakeit.Number(5, 150))*100000,
		}
		if gofakeit.Bool() {
			need.Street = gofakeit.RandomString(streets)
		}
		switch pt {
		case domain.PropertyTypeApartment:
			rooms := gofakeit.Number(1, 3)
			need.Rooms = domain.Range[int]{Min: domain.Ptr(rooms), Max: domain.Ptr(rooms + 1)}
			need.Area = domain.Range[float64]{Min: domain.Ptr(float64(gofakeit.Number(25, 60)))}
		case domain.PropertyTypeHouse:
			need.Floors = domain.Range[int]{Max: domain.Ptr(gofakeit.Number(1, 3))}
		case domain.PropertyTypeLand:
			from := float64(gofakeit.Number(300, 1500))
			need.LandArea = domain.Range[float64]{Min: &from, Max: domain.Ptr(from * 3)}
		}
		if err := s.needs.Create(ctx, need); err != nil {
			warn(ctx, fmt.Sprintf("need (%s)", pt), err)
			continue
		}
		created++
	}
	return created
}
