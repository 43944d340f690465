package postgres_adapter

import (
	"context"
	"fmt"

	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresOfferRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOfferRepository(pool *pgxpool.Pool) (*PostgresOfferRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresOfferRepository{pool: pool}, nil
}

func (r *PostgresOfferRepository) List(ctx context.Context, filter domain.OfferFilter) ([]domain.Offer, error) {
	qb := newQueryBuilder()
	if filter.ClientID != nil {
		qb.addCondition("%s = $%d", "o.client_id", *filter.ClientID)
	}
	if filter.RealtorID != nil {
		qb.addCondition("%s = $%d", "o.realtor_id", *filter.RealtorID)
	}
	where, args := qb.build()
	return queryOffers(ctx, r.pool, "List", offerJoinQuery()+" "+where+" ORDER BY o.id", args...)
}

// FindCandidates - свободные предложения нужного типа в ценовом коридоре
// с характеристиками объекта внутри диапазонов потребности
func (r *PostgresOfferRepository) FindCandidates(ctx context.Context, need *domain.Need) ([]domain.Offer, error) {
	where, args := offerCandidateWhere(need)
	return queryOffers(ctx, r.pool, "FindCandidates", offerJoinQuery()+" "+where+" ORDER BY o.id", args...)
}

// offerCandidateWhere повторяет domain.Matches на стороне SQL:
// объект с NULL в ограниченной характеристике не проходит
func offerCandidateWhere(need *domain.Need) (string, []any) {
	qb := newQueryBuilder("NOT EXISTS (SELECT 1 FROM deals d WHERE d.offer_id = o.id)")
	qb.addCondition("%s = $%d", "p.property_type", string(need.Type))
	qb.addCondition("%s >= $%d", "o.price", need.MinPrice)
	qb.addCondition("%s <= $%d", "o.price", need.MaxPrice)

	switch need.Type {
	case domain.PropertyTypeApartment:
		qb.AddFloatFilter("p.area", need.Area.Min, need.Area.Max)
		qb.AddIntFilter("p.rooms", need.Rooms.Min, need.Rooms.Max)
		qb.AddIntFilter("p.floor", need.Floor.Min, need.Floor.Max)
	case domain.PropertyTypeHouse:
		qb.AddFloatFilter("p.area", need.Area.Min, need.Area.Max)
		qb.AddIntFilter("p.rooms", need.Rooms.Min, need.Rooms.Max)
		qb.AddIntFilter("p.floors", need.Floors.Min, need.Floors.Max)
	case domain.PropertyTypeLand:
		qb.AddFloatFilter("p.area", need.LandArea.Min, need.LandArea.Max)
	}
	return qb.build()
}

func queryOffers(ctx context.Context, q querier, method, query string, args ...any) ([]domain.Offer, error) {
	logger := repoLogger(ctx, "PostgresOfferRepository", method, nil)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Failed to query offers", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}
	defer rows.Close()

	offers := make([]domain.Offer, 0)
	for rows.Next() {
		offer, err := scanOfferJoin(rows)
		if err != nil {
			logger.Error("Failed to scan offer row", err, nil)
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		offers = append(offers, offer)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Error during offers iteration", err, nil)
		return nil, fmt.Errorf("error during offers iteration: %w", err)
	}
	return offers, nil
}

func (r *PostgresOfferRepository) GetByID(ctx context.Context, id int64) (*domain.Offer, error) {
	return getOffer(ctx, r.pool, id, "")
}

// getOffer загружает предложение с вложенными сущностями; lock - суффикс вроде FOR UPDATE OF o
func getOffer(ctx context.Context, q querier, id int64, lock string) (*domain.Offer, error) {
	offer, err := scanOfferJoin(q.QueryRow(ctx, offerJoinQuery()+" WHERE o.id = $1 "+lock, id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get offer %d: %w", id, err)
	}
	return &offer, nil
}

func (r *PostgresOfferRepository) Create(ctx context.Context, o *domain.Offer) error {
	query := `INSERT INTO offers (client_id, realtor_id, property_id, price) VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.pool.QueryRow(ctx, query, o.ClientID, o.RealtorID, o.PropertyID, o.Price).Scan(&o.ID)
	if err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return fmt.Errorf("offer references: %w", mapped)
		}
		repoLogger(ctx, "PostgresOfferRepository", "Create", nil).Error("Failed to insert offer", err, nil)
		return fmt.Errorf("failed to insert offer: %w", err)
	}
	return nil
}

// Update не дает правке сломать сделку, в которой участвует предложение
func (r *PostgresOfferRepository) Update(ctx context.Context, o *domain.Offer) error {
	logger := repoLogger(ctx, "PostgresOfferRepository", "Update", port.Fields{"offer_id": o.ID})

	return updateKeepingDeals(ctx, r.pool, logger, dealsOfOffer, o.ID, func(tx pgx.Tx) error {
		query := `UPDATE offers SET client_id = $2, realtor_id = $3, property_id = $4, price = $5 WHERE id = $1`
		cmdTag, err := tx.Exec(ctx, query, o.ID, o.ClientID, o.RealtorID, o.PropertyID, o.Price)
		if err != nil {
			if mapped := mapWriteError(err); mapped != nil {
				return fmt.Errorf("offer references: %w", mapped)
			}
			logger.Error("Failed to update offer", err, nil)
			return fmt.Errorf("failed to update offer %d: %w", o.ID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *PostgresOfferRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.pool, "offers", id)
}
