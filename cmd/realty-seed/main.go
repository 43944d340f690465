// realty-seed заполняет базу тестовыми клиентами, риэлторами, объектами,
// предложениями и потребностями. Только для разработки.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"time"

	logger_adapter "realty-service/internal/adapters/logger"
	postgres_adapter "realty-service/internal/adapters/postgres"
	"realty-service/internal/configs"
	"realty-service/internal/contextkeys"
	"realty-service/internal/core/port"
	"realty-service/pkg/postgres"

	"github.com/brianvoe/gofakeit/v6"
)

// Москва и окрестности
const (
	minLat, maxLat = 55.55, 55.95
	minLon, maxLon = 37.30, 37.90
)

var streets = []string{"Тверская", "Арбат", "Ленинский проспект", "Профсоюзная", "Садовая", "Мира", "Лесная"}
var cities = []string{"Москва", "Москва", "Москва", "Химки", "Мытищи", "Одинцово"}

func main() {
	clientsN := flag.Int("clients", 30, "number of clients")
	realtorsN := flag.Int("realtors", 8, "number of realtors")
	propertiesN := flag.Int("properties", 40, "number of properties")
	offersN := flag.Int("offers", 25, "number of offers")
	needsN := flag.Int("needs", 25, "number of needs")
	seed := flag.Int64("seed", 0, "random seed, 0 - random")
	flag.Parse()

	cfg, err := configs.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{Level: slog.LevelInfo, UseColor: true}).
		WithFields(port.Fields{"component": "seed"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = contextkeys.ContextWithLogger(ctx, logger)

	pool, err := postgres.NewClient(ctx, postgres.Config{DatabaseURL: cfg.Database.URL, ConnectTimeout: 10 * time.Second})
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer pool.Close()

	if err := postgres_adapter.Migrate(ctx, pool, logger); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	s, err := newSeeder(pool)
	if err != nil {
		log.Fatalf("Failed to create repositories: %v", err)
	}
	gofakeit.Seed(*seed)

	clientIDs := s.seedClients(ctx, *clientsN)
	realtorIDs := s.seedRealtors(ctx, *realtorsN)
	properties := s.seedProperties(ctx, *propertiesN)
	offers := s.seedOffers(ctx, *offersN, clientIDs, realtorIDs, properties)
	needs := s.seedNeeds(ctx, *needsN, clientIDs, realtorIDs)

	logger.Info("Seeding finished", port.Fields{
		"clients": len(clientIDs), "realtors": len(realtorIDs), "properties": len(properties),
		"offers": offers, "needs": needs,
	})
}
