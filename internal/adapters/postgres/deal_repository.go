package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDealRepository хранит сделки. Создание и изменение идут в транзакции
// с блокировкой строк потребности и предложения.
type PostgresDealRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresDealRepository(pool *pgxpool.Pool) (*PostgresDealRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresDealRepository{pool: pool}, nil
}

var dealJoinQuery = fmt.Sprintf(`SELECT d.id, d.created_at, %s, %s, %s, %s, %s, %s, %s
	FROM deals d
	JOIN needs n ON n.id = d.need_id
	JOIN clients nc ON nc.id = n.client_id
	JOIN realtors nr ON nr.id = n.realtor_id
	JOIN offers o ON o.id = d.offer_id
	JOIN clients oc ON oc.id = o.client_id
	JOIN realtors orl ON orl.id = o.realtor_id
	JOIN properties p ON p.id = o.property_id`,
	prefixed("n", needColumns...), prefixed("nc", clientColumns...), prefixed("nr", realtorColumns...),
	prefixed("o", offerColumns...), prefixed("oc", clientColumns...), prefixed("orl", realtorColumns...),
	prefixed("p", propertyColumns...))

func scanDealJoin(row rowScanner) (domain.Deal, error) {
	var (
		d     domain.Deal
		need  needJoinRow
		offer offerJoinRow
	)
	targets := []any{&d.ID, &d.CreatedAt}
	targets = append(targets, need.targets()...)
	targets = append(targets, offer.targets()...)
	if err := row.Scan(targets...); err != nil {
		return domain.Deal{}, err
	}

	n, err := need.toDomain()
	if err != nil {
		return domain.Deal{}, err
	}
	o, err := offer.toDomain()
	if err != nil {
		return domain.Deal{}, err
	}
	d.NeedID, d.OfferID = n.ID, o.ID
	d.Need, d.Offer = &n, &o
	return d, nil
}

func (r *PostgresDealRepository) List(ctx context.Context, _ domain.NoFilter) ([]domain.Deal, error) {
	logger := repoLogger(ctx, "PostgresDealRepository", "List", nil)

	rows, err := r.pool.Query(ctx, dealJoinQuery+" ORDER BY d.id")
	if err != nil {
		logger.Error("Failed to query deals", err, nil)
		return nil, fmt.Errorf("failed to query deals: %w", err)
	}
	defer rows.Close()

	deals := make([]domain.Deal, 0)
	for rows.Next() {
		deal, err := scanDealJoin(rows)
		if err != nil {
			logger.Error("Failed to scan deal row", err, nil)
			return nil, fmt.Errorf("failed to scan deal: %w", err)
		}
		deals = append(deals, deal)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Error during deals iteration", err, nil)
		return nil, fmt.Errorf("error during deals iteration: %w", err)
	}
	return deals, nil
}

func (r *PostgresDealRepository) GetByID(ctx context.Context, id int64) (*domain.Deal, error) {
	deal, err := scanDealJoin(r.pool.QueryRow(ctx, dealJoinQuery+" WHERE d.id = $1", id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		repoLogger(ctx, "PostgresDealRepository", "GetByID", port.Fields{"deal_id": id}).
			Error("Failed to get deal", err, nil)
		return nil, fmt.Errorf("failed to get deal %d: %w", id, err)
	}
	return &deal, nil
}

func (r *PostgresDealRepository) Create(ctx context.Context, deal *domain.Deal, guard port.DealGuard) error {
	return r.inLockedPair(ctx, "Create", deal, guard, func(tx pgx.Tx) error {
		query := `INSERT INTO deals (need_id, offer_id) VALUES ($1, $2) RETURNING id, created_at`
		return tx.QueryRow(ctx, query, deal.NeedID, deal.OfferID).Scan(&deal.ID, &deal.CreatedAt)
	})
}

func (r *PostgresDealRepository) Update(ctx context.Context, deal *domain.Deal, guard port.DealGuard) error {
	return r.inLockedPair(ctx, "Update", deal, guard, func(tx pgx.Tx) error {
		query := `UPDATE deals SET need_id = $2, offer_id = $3 WHERE id = $1 RETURNING created_at`
		err := tx.QueryRow(ctx, query, deal.ID, deal.NeedID, deal.OfferID).Scan(&deal.CreatedAt)
		if isNoRows(err) {
			return domain.ErrNotFound
		}
		return err
	})
}

// inLockedPair блокирует потребность и предложение, проверяет занятость и guard,
// затем выполняет write. Порядок блокировок одинаковый (need, offer), чтобы не было дедлоков.
func (r *PostgresDealRepository) inLockedPair(ctx context.Context, method string, deal *domain.Deal, guard port.DealGuard, write func(tx pgx.Tx) error) error {
	logger := repoLogger(ctx, "PostgresDealRepository", method, port.Fields{
		"deal_id":  deal.ID,
		"need_id":  deal.NeedID,
		"offer_id": deal.OfferID,
	})

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction", err, nil)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if deal.ID != 0 {
		var exists bool
		if err := tx.QueryRow(ctx, "SELECT true FROM deals WHERE id = $1 FOR UPDATE", deal.ID).Scan(&exists); err != nil {
			if isNoRows(err) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("failed to lock deal %d: %w", deal.ID, err)
		}
	}

	need, err := getNeed(ctx, tx, deal.NeedID, "FOR UPDATE OF n")
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("need %d: %w", deal.NeedID, domain.ErrInvalidReference)
		}
		return err
	}
	// объект тоже блокируется: его правка перепроверяет сделки по своим предложениям
	offer, err := getOffer(ctx, tx, deal.OfferID, "FOR UPDATE OF o, p")
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("offer %d: %w", deal.OfferID, domain.ErrInvalidReference)
		}
		return err
	}

	var busy bool
	busyQuery := `SELECT EXISTS (SELECT 1 FROM deals WHERE (need_id = $1 OR offer_id = $2) AND id <> $3)`
	if err := tx.QueryRow(ctx, busyQuery, deal.NeedID, deal.OfferID, deal.ID).Scan(&busy); err != nil {
		return fmt.Errorf("failed to check deal occupancy: %w", err)
	}
	if busy {
		logger.Warn("Need or offer is already part of a deal", nil)
		return domain.ErrAlreadyInDeal
	}

	if guard != nil {
		if err := guard(need, offer); err != nil {
			return err
		}
	}

	if err := write(tx); err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return mapped
		}
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		logger.Error("Failed to write deal", err, nil)
		return fmt.Errorf("failed to write deal: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return mapped
		}
		logger.Error("Failed to commit transaction", err, nil)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	logger.Info("Deal stored", port.Fields{"deal_id": deal.ID})
	return nil
}

func (r *PostgresDealRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.pool, "deals", id)
}
