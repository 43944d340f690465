package postgres_adapter

import (
	"context"
	"fmt"

	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresPropertyRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPropertyRepository(pool *pgxpool.Pool) (*PostgresPropertyRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresPropertyRepository{pool: pool}, nil
}

var propertySelect = "SELECT " + prefixed("p", propertyColumns...) + " FROM properties p"

func (r *PostgresPropertyRepository) List(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	qb := newQueryBuilder()
	if filter.Type != nil {
		qb.addCondition("%s = $%d", "p.property_type", string(*filter.Type))
	}
	if filter.City != "" {
		qb.addCondition("lower(%s) = lower($%d)", "p.city", filter.City)
	}
	if filter.Street != "" {
		qb.addCondition("lower(%s) = lower($%d)", "p.street", filter.Street)
	}
	where, args := qb.build()

	return r.queryProperties(ctx, "List", propertySelect+" "+where+" ORDER BY p.id", args...)
}

// FindInBoundingBox сужает выборку по префиксу геохеша и прямоугольнику
func (r *PostgresPropertyRepository) FindInBoundingBox(ctx context.Context, bb domain.BoundingBox) ([]domain.Property, error) {
	qb := newQueryBuilder("p.latitude IS NOT NULL", "p.longitude IS NOT NULL")
	if prefix := boundingBoxPrefix(bb); prefix != "" {
		qb.addCondition("%s LIKE $%d", "p.geohash", prefix+"%")
	}
	qb.AddFloatFilter("p.latitude", &bb.MinLat, &bb.MaxLat)
	qb.AddFloatFilter("p.longitude", &bb.MinLon, &bb.MaxLon)
	where, args := qb.build()

	return r.queryProperties(ctx, "FindInBoundingBox", propertySelect+" "+where+" ORDER BY p.id", args...)
}

func (r *PostgresPropertyRepository) queryProperties(ctx context.Context, method, query string, args ...any) ([]domain.Property, error) {
	logger := repoLogger(ctx, "PostgresPropertyRepository", method, nil)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Failed to query properties", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	properties := make([]domain.Property, 0)
	for rows.Next() {
		var x propertyRow
		if err := rows.Scan(x.targets()...); err != nil {
			logger.Error("Failed to scan property row", err, nil)
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, x.toDomain())
	}
	if err := rows.Err(); err != nil {
		logger.Error("Error during properties iteration", err, nil)
		return nil, fmt.Errorf("error during properties iteration: %w", err)
	}
	logger.Debug("Properties loaded", port.Fields{"count": len(properties)})
	return properties, nil
}

func (r *PostgresPropertyRepository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	return getProperty(ctx, r.pool, id)
}

func getProperty(ctx context.Context, q querier, id int64) (*domain.Property, error) {
	var x propertyRow
	if err := q.QueryRow(ctx, propertySelect+" WHERE p.id = $1", id).Scan(x.targets()...); err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get property %d: %w", id, err)
	}
	p := x.toDomain()
	return &p, nil
}

func propertyArgs(p *domain.Property) []any {
	return []any{string(p.Type), p.City, p.Street, p.HouseNumber, p.ApartmentNumber,
		p.Latitude, p.Longitude, propertyGeohash(p), p.Area, p.Floor, p.Rooms, p.Floors, p.Image}
}

func (r *PostgresPropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	query := `INSERT INTO properties (property_type, city, street, house_number, apartment_number,
			latitude, longitude, geohash, area, floor, rooms, floors, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	if err := r.pool.QueryRow(ctx, query, propertyArgs(p)...).Scan(&p.ID); err != nil {
		repoLogger(ctx, "PostgresPropertyRepository", "Create", nil).Error("Failed to insert property", err, nil)
		return fmt.Errorf("failed to insert property: %w", err)
	}
	return nil
}

// Update перепроверяет сделки по всем предложениям этого объекта
func (r *PostgresPropertyRepository) Update(ctx context.Context, p *domain.Property) error {
	logger := repoLogger(ctx, "PostgresPropertyRepository", "Update", port.Fields{"property_id": p.ID})

	return updateKeepingDeals(ctx, r.pool, logger, dealsOfProperty, p.ID, func(tx pgx.Tx) error {
		query := `UPDATE properties SET property_type = $1, city = $2, street = $3, house_number = $4,
				apartment_number = $5, latitude = $6, longitude = $7, geohash = $8, area = $9, floor = $10,
				rooms = $11, floors = $12, image = $13
			WHERE id = $14`
		cmdTag, err := tx.Exec(ctx, query, append(propertyArgs(p), p.ID)...)
		if err != nil {
			logger.Error("Failed to update property", err, nil)
			return fmt.Errorf("failed to update property %d: %w", p.ID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *PostgresPropertyRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.pool, "properties", id)
}
