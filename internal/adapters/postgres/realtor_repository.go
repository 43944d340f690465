package postgres_adapter

import (
	"context"
	"fmt"

	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRealtorRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRealtorRepository(pool *pgxpool.Pool) (*PostgresRealtorRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresRealtorRepository{pool: pool}, nil
}

var realtorSelect = "SELECT " + prefixed("r", realtorColumns...) + " FROM realtors r"

func (r *PostgresRealtorRepository) List(ctx context.Context, _ domain.NoFilter) ([]domain.Realtor, error) {
	logger := repoLogger(ctx, "PostgresRealtorRepository", "List", nil)

	rows, err := r.pool.Query(ctx, realtorSelect+" ORDER BY r.id")
	if err != nil {
		logger.Error("Failed to query realtors", err, nil)
		return nil, fmt.Errorf("failed to query realtors: %w", err)
	}
	defer rows.Close()

	realtors := make([]domain.Realtor, 0)
	for rows.Next() {
		var x realtorRow
		if err := rows.Scan(x.targets()...); err != nil {
			logger.Error("Failed to scan realtor row", err, nil)
			return nil, fmt.Errorf("failed to scan realtor: %w", err)
		}
		realtor, err := x.toDomain()
		if err != nil {
			return nil, err
		}
		realtors = append(realtors, realtor)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Error during realtors iteration", err, nil)
		return nil, fmt.Errorf("error during realtors iteration: %w", err)
	}
	return realtors, nil
}

func (r *PostgresRealtorRepository) GetByID(ctx context.Context, id int64) (*domain.Realtor, error) {
	var x realtorRow
	if err := r.pool.QueryRow(ctx, realtorSelect+" WHERE r.id = $1", id).Scan(x.targets()...); err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		repoLogger(ctx, "PostgresRealtorRepository", "GetByID", port.Fields{"realtor_id": id}).
			Error("Failed to get realtor", err, nil)
		return nil, fmt.Errorf("failed to get realtor %d: %w", id, err)
	}
	realtor, err := x.toDomain()
	if err != nil {
		return nil, err
	}
	return &realtor, nil
}

func (r *PostgresRealtorRepository) Create(ctx context.Context, rl *domain.Realtor) error {
	query := `INSERT INTO realtors (last_name, first_name, patronymic, commission_share)
		VALUES ($1, $2, $3, $4::numeric) RETURNING id`
	err := r.pool.QueryRow(ctx, query, rl.LastName, rl.FirstName, rl.Patronymic, shareArg(rl)).Scan(&rl.ID)
	if err != nil {
		repoLogger(ctx, "PostgresRealtorRepository", "Create", nil).Error("Failed to insert realtor", err, nil)
		return fmt.Errorf("failed to insert realtor: %w", err)
	}
	return nil
}

func (r *PostgresRealtorRepository) Update(ctx context.Context, rl *domain.Realtor) error {
	query := `UPDATE realtors SET last_name = $2, first_name = $3, patronymic = $4, commission_share = $5::numeric
		WHERE id = $1`
	cmdTag, err := r.pool.Exec(ctx, query, rl.ID, rl.LastName, rl.FirstName, rl.Patronymic, shareArg(rl))
	if err != nil {
		repoLogger(ctx, "PostgresRealtorRepository", "Update", port.Fields{"realtor_id": rl.ID}).
			Error("Failed to update realtor", err, nil)
		return fmt.Errorf("failed to update realtor %d: %w", rl.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresRealtorRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.pool, "realtors", id)
}
