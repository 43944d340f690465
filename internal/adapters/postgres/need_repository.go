package postgres_adapter

import (
	"context"
	"fmt"

	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresNeedRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresNeedRepository(pool *pgxpool.Pool) (*PostgresNeedRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresNeedRepository{pool: pool}, nil
}

func (r *PostgresNeedRepository) List(ctx context.Context, filter domain.NeedFilter) ([]domain.Need, error) {
	qb := newQueryBuilder()
	if filter.ClientID != nil {
		qb.addCondition("%s = $%d", "n.client_id", *filter.ClientID)
	}
	if filter.RealtorID != nil {
		qb.addCondition("%s = $%d", "n.realtor_id", *filter.RealtorID)
	}
	where, args := qb.build()
	return r.queryNeeds(ctx, "List", needJoinQuery()+" "+where+" ORDER BY n.id", args...)
}

// FindCandidates - свободные потребности, в диапазоны которых попадает предложение
func (r *PostgresNeedRepository) FindCandidates(ctx context.Context, offer *domain.Offer) ([]domain.Need, error) {
	if offer.Property == nil {
		return nil, fmt.Errorf("offer %d has no property loaded", offer.ID)
	}
	where, args := needCandidateWhere(offer.Property, offer.Price)
	return r.queryNeeds(ctx, "FindCandidates", needJoinQuery()+" "+where+" ORDER BY n.id", args...)
}

// needCandidateWhere - обратная сторона offerCandidateWhere: значение объекта
// сравнивается с границами потребности, NULL-граница не ограничивает
func needCandidateWhere(p *domain.Property, price int64) (string, []any) {
	qb := newQueryBuilder("NOT EXISTS (SELECT 1 FROM deals d WHERE d.need_id = n.id)")
	qb.addCondition("%s = $%d", "n.property_type", string(p.Type))
	qb.addCondition("%s <= $%d", "n.min_price", price)
	qb.addCondition("%s >= $%d", "n.max_price", price)

	switch p.Type {
	case domain.PropertyTypeApartment:
		qb.AddFloatBounds("n.min_area", "n.max_area", p.Area)
		qb.AddIntBounds("n.min_rooms", "n.max_rooms", p.Rooms)
		qb.AddIntBounds("n.min_floor", "n.max_floor", p.Floor)
	case domain.PropertyTypeHouse:
		qb.AddFloatBounds("n.min_area", "n.max_area", p.Area)
		qb.AddIntBounds("n.min_rooms", "n.max_rooms", p.Rooms)
		qb.AddIntBounds("n.min_floors", "n.max_floors", p.Floors)
	case domain.PropertyTypeLand:
		qb.AddFloatBounds("n.min_land_area", "n.max_land_area", p.Area)
	}
	return qb.build()
}

func (r *PostgresNeedRepository) queryNeeds(ctx context.Context, method, query string, args ...any) ([]domain.Need, error) {
	logger := repoLogger(ctx, "PostgresNeedRepository", method, nil)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Failed to query needs", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to query needs: %w", err)
	}
	defer rows.Close()

	needs := make([]domain.Need, 0)
	for rows.Next() {
		need, err := scanNeedJoin(rows)
		if err != nil {
			logger.Error("Failed to scan need row", err, nil)
			return nil, fmt.Errorf("failed to scan need: %w", err)
		}
		needs = append(needs, need)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Error during needs iteration", err, nil)
		return nil, fmt.Errorf("error during needs iteration: %w", err)
	}
	return needs, nil
}

func (r *PostgresNeedRepository) GetByID(ctx context.Context, id int64) (*domain.Need, error) {
	return getNeed(ctx, r.pool, id, "")
}

func getNeed(ctx context.Context, q querier, id int64, lock string) (*domain.Need, error) {
	need, err := scanNeedJoin(q.QueryRow(ctx, needJoinQuery()+" WHERE n.id = $1 "+lock, id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get need %d: %w", id, err)
	}
	return &need, nil
}

func (r *PostgresNeedRepository) Create(ctx context.Context, n *domain.Need) error {
	query := `INSERT INTO needs (client_id, realtor_id, property_type, city, street, house_number,
			apartment_number, address, min_price, max_price, min_area, max_area, min_rooms, max_rooms,
			min_floor, max_floor, min_floors, max_floors, min_land_area, max_land_area)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id`
	if err := r.pool.QueryRow(ctx, query, needArgs(n)...).Scan(&n.ID); err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return fmt.Errorf("need references: %w", mapped)
		}
		repoLogger(ctx, "PostgresNeedRepository", "Create", nil).Error("Failed to insert need", err, nil)
		return fmt.Errorf("failed to insert need: %w", err)
	}
	return nil
}

// Update не дает правке сломать сделку, в которой участвует потребность
func (r *PostgresNeedRepository) Update(ctx context.Context, n *domain.Need) error {
	logger := repoLogger(ctx, "PostgresNeedRepository", "Update", port.Fields{"need_id": n.ID})

	return updateKeepingDeals(ctx, r.pool, logger, dealsOfNeed, n.ID, func(tx pgx.Tx) error {
		query := `UPDATE needs SET client_id = $1, realtor_id = $2, property_type = $3, city = $4, street = $5,
				house_number = $6, apartment_number = $7, address = $8, min_price = $9, max_price = $10,
				min_area = $11, max_area = $12, min_rooms = $13, max_rooms = $14, min_floor = $15, max_floor = $16,
				min_floors = $17, max_floors = $18, min_land_area = $19, max_land_area = $20
			WHERE id = $21`
		cmdTag, err := tx.Exec(ctx, query, append(needArgs(n), n.ID)...)
		if err != nil {
			if mapped := mapWriteError(err); mapped != nil {
				return fmt.Errorf("need references: %w", mapped)
			}
			logger.Error("Failed to update need", err, nil)
			return fmt.Errorf("failed to update need %d: %w", n.ID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *PostgresNeedRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.pool, "needs", id)
}
