package postgres_adapter

import (
	"context"
	"fmt"

	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// dealRef - колонка, по которой сделка ссылается на изменяемую строку
type dealRef string

const (
	dealsOfNeed     dealRef = "d.need_id"
	dealsOfOffer    dealRef = "d.offer_id"
	dealsOfProperty dealRef = "o.property_id"
)

type dealPair struct {
	dealID  int64
	needID  int64
	offerID int64
}

func dealPairsQuery(ref dealRef, lock bool) string {
	query := "SELECT d.id, d.need_id, d.offer_id FROM deals d JOIN offers o ON o.id = d.offer_id WHERE " +
		string(ref) + " = $1 ORDER BY d.id"
	if lock {
		query += " FOR UPDATE OF d"
	}
	return query
}

func loadDealPairs(ctx context.Context, q querier, ref dealRef, id int64, lock bool) ([]dealPair, error) {
	rows, err := q.Query(ctx, dealPairsQuery(ref, lock), id)
	if err != nil {
		return nil, fmt.Errorf("failed to query deals by %s: %w", ref, err)
	}
	defer rows.Close()

	pairs := make([]dealPair, 0)
	for rows.Next() {
		var p dealPair
		if err := rows.Scan(&p.dealID, &p.needID, &p.offerID); err != nil {
			return nil, fmt.Errorf("failed to scan deal pair: %w", err)
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// checkDealPairs прогоняет каждую пару через domain.CheckDealPair на свежих данных
func checkDealPairs(pairs []dealPair, load func(dealPair) (*domain.Need, *domain.Offer, error)) error {
	for _, pair := range pairs {
		need, offer, err := load(pair)
		if err != nil {
			return err
		}
		if err := domain.CheckDealPair(need, offer); err != nil {
			return fmt.Errorf("deal %d: %w", pair.dealID, err)
		}
	}
	return nil
}

// updateKeepingDeals выполняет write в транзакции и откатывает ее, если после правки
// какая-то сделка, ссылающаяся на строку, перестала проходить подбор.
// Сделки блокируются до записи: правки двух сторон одной сделки идут по очереди.
// После записи список перечитывается, потому что UPDATE мог ждать коммита новой сделки.
func updateKeepingDeals(ctx context.Context, pool *pgxpool.Pool, logger port.LoggerPort, ref dealRef, id int64, write func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction", err, nil)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := loadDealPairs(ctx, tx, ref, id, true); err != nil {
		logger.Error("Failed to lock deals", err, nil)
		return err
	}
	if err := write(tx); err != nil {
		return err
	}

	pairs, err := loadDealPairs(ctx, tx, ref, id, false)
	if err != nil {
		logger.Error("Failed to reload deals", err, nil)
		return err
	}
	err = checkDealPairs(pairs, func(pair dealPair) (*domain.Need, *domain.Offer, error) {
		need, err := getNeed(ctx, tx, pair.needID, "")
		if err != nil {
			return nil, nil, err
		}
		offer, err := getOffer(ctx, tx, pair.offerID, "")
		if err != nil {
			return nil, nil, err
		}
		return need, offer, nil
	})
	if err != nil {
		logger.Warn("Edit would break an existing deal", port.Fields{"error": err.Error()})
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Failed to commit transaction", err, nil)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
