package postgres_adapter

import (
	"context"
	"fmt"
	"strings"

	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresClientRepository - реализация порта клиентов для PostgreSQL.
type PostgresClientRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresClientRepository(pool *pgxpool.Pool) (*PostgresClientRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresClientRepository{pool: pool}, nil
}

var clientSelect = "SELECT " + strings.Join(clientColumns, ", ") + " FROM clients"

func (r *PostgresClientRepository) List(ctx context.Context, _ domain.NoFilter) ([]domain.Client, error) {
	logger := repoLogger(ctx, "PostgresClientRepository", "List", nil)

	query := clientSelect + " ORDER BY id"
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Failed to query clients", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	clients := make([]domain.Client, 0)
	for rows.Next() {
		var x clientRow
		if err := rows.Scan(x.targets()...); err != nil {
			logger.Error("Failed to scan client row", err, nil)
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, x.c)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Error during clients iteration", err, nil)
		return nil, fmt.Errorf("error during clients iteration: %w", err)
	}
	return clients, nil
}

func (r *PostgresClientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	var x clientRow
	err := r.pool.QueryRow(ctx, clientSelect+" WHERE id = $1", id).Scan(x.targets()...)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		repoLogger(ctx, "PostgresClientRepository", "GetByID", port.Fields{"client_id": id}).
			Error("Failed to get client", err, nil)
		return nil, fmt.Errorf("failed to get client %d: %w", id, err)
	}
	return &x.c, nil
}

func (r *PostgresClientRepository) Create(ctx context.Context, c *domain.Client) error {
	query := `INSERT INTO clients (last_name, first_name, patronymic, phone, email)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.pool.QueryRow(ctx, query, c.LastName, c.FirstName, c.Patronymic, c.Phone, c.Email).Scan(&c.ID)
	if err != nil {
		repoLogger(ctx, "PostgresClientRepository", "Create", nil).Error("Failed to insert client", err, nil)
		return fmt.Errorf("failed to insert client: %w", err)
	}
	return nil
}

func (r *PostgresClientRepository) Update(ctx context.Context, c *domain.Client) error {
	query := `UPDATE clients SET last_name = $2, first_name = $3, patronymic = $4, phone = $5, email = $6
		WHERE id = $1`
	cmdTag, err := r.pool.Exec(ctx, query, c.ID, c.LastName, c.FirstName, c.Patronymic, c.Phone, c.Email)
	if err != nil {
		repoLogger(ctx, "PostgresClientRepository", "Update", port.Fields{"client_id": c.ID}).
			Error("Failed to update client", err, nil)
		return fmt.Errorf("failed to update client %d: %w", c.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresClientRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.pool, "clients", id)
}

// deleteByID - общий DELETE: нарушение FK означает, что на запись ссылаются
func deleteByID(ctx context.Context, pool *pgxpool.Pool, table string, id int64) error {
	logger := repoLogger(ctx, "PostgresRepository", "Delete", port.Fields{"table": table, "id": id})

	cmdTag, err := pool.Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		if mapped := mapDeleteError(err); mapped != nil {
			logger.Warn("Delete blocked by references", nil)
			return fmt.Errorf("%s %d: %w", table, id, mapped)
		}
		logger.Error("Failed to delete row", err, nil)
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	logger.Debug("Row deleted", nil)
	return nil
}
