package postgres_adapter

import (
	"context"
	"fmt"
	"strings"

	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresActRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresActRepository(pool *pgxpool.Pool) (*PostgresActRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresActRepository{pool: pool}, nil
}

var actSelect = "SELECT " + strings.Join(actColumns, ", ") + " FROM acts"

// List отдает мероприятия в хронологическом порядке
func (r *PostgresActRepository) List(ctx context.Context, _ domain.NoFilter) ([]domain.Act, error) {
	logger := repoLogger(ctx, "PostgresActRepository", "List", nil)

	rows, err := r.pool.Query(ctx, actSelect+" ORDER BY date_time, id")
	if err != nil {
		logger.Error("Failed to query acts", err, nil)
		return nil, fmt.Errorf("failed to query acts: %w", err)
	}
	defer rows.Close()

	acts := make([]domain.Act, 0)
	for rows.Next() {
		var x actRow
		if err := rows.Scan(x.targets()...); err != nil {
			logger.Error("Failed to scan act row", err, nil)
			return nil, fmt.Errorf("failed to scan act: %w", err)
		}
		acts = append(acts, x.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during acts iteration: %w", err)
	}
	return acts, nil
}

func (r *PostgresActRepository) GetByID(ctx context.Context, id int64) (*domain.Act, error) {
	var x actRow
	if err := r.pool.QueryRow(ctx, actSelect+" WHERE id = $1", id).Scan(x.targets()...); err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get act %d: %w", id, err)
	}
	act := x.toDomain()
	return &act, nil
}

// actInsert строит INSERT. С внешним id повторная вставка ничего не делает и не возвращает строк.
func actInsert(a *domain.Act) (string, []any) {
	args := []any{a.DateTime, a.Duration, string(a.Type), a.Comment}
	if a.ExternalID == "" {
		return `INSERT INTO acts (date_time, duration, act_type, comment) VALUES ($1, $2, $3, $4) RETURNING id`, args
	}
	return `INSERT INTO acts (date_time, duration, act_type, comment, external_id) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (external_id) DO NOTHING RETURNING id`, append(args, a.ExternalID)
}

// Create сохраняет мероприятие. Акт с уже известным ExternalID не дублируется:
// a.ID получает id ранее сохраненной записи.
func (r *PostgresActRepository) Create(ctx context.Context, a *domain.Act) error {
	logger := repoLogger(ctx, "PostgresActRepository", "Create", port.Fields{"external_id": a.ExternalID})

	query, args := actInsert(a)
	err := r.pool.QueryRow(ctx, query, args...).Scan(&a.ID)
	if err == nil {
		return nil
	}
	if a.ExternalID == "" || !isNoRows(err) {
		logger.Error("Failed to insert act", err, nil)
		return fmt.Errorf("failed to insert act: %w", err)
	}

	if err := r.pool.QueryRow(ctx, `SELECT id FROM acts WHERE external_id = $1`, a.ExternalID).Scan(&a.ID); err != nil {
		logger.Error("Failed to load already stored act", err, nil)
		return fmt.Errorf("failed to load act by external id %q: %w", a.ExternalID, err)
	}
	logger.Info("Act already stored, duplicate delivery skipped", port.Fields{"act_id": a.ID})
	return nil
}

func (r *PostgresActRepository) Update(ctx context.Context, a *domain.Act) error {
	query := `UPDATE acts SET date_time = $2, duration = $3, act_type = $4, comment = $5 WHERE id = $1`
	cmdTag, err := r.pool.Exec(ctx, query, a.ID, a.DateTime, a.Duration, string(a.Type), a.Comment)
	if err != nil {
		repoLogger(ctx, "PostgresActRepository", "Update", port.Fields{"act_id": a.ID}).
			Error("Failed to update act", err, nil)
		return fmt.Errorf("failed to update act %d: %w", a.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresActRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.pool, "acts", id)
}
