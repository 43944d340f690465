package postgres_adapter

import (
	"context"
	"errors"
	"strings"

	"realty-service/internal/contextkeys"
	"realty-service/internal/core/domain"
	"realty-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// rowScanner - общее у pgx.Row и pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// querier - общее у пула и транзакции
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func pgConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// mapWriteError переводит ошибки вставки и обновления в доменные
func mapWriteError(err error) error {
	switch pgErrorCode(err) {
	case pgForeignKeyViolation:
		return domain.ErrInvalidReference
	case pgUniqueViolation:
		if strings.HasPrefix(pgConstraint(err), "deals_") {
			return domain.ErrAlreadyInDeal
		}
	}
	return nil
}

// mapDeleteError: на запись ссылаются - удалять нельзя
func mapDeleteError(err error) error {
	if pgErrorCode(err) == pgForeignKeyViolation {
		return domain.ErrInUse
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func repoLogger(ctx context.Context, component, method string, fields port.Fields) port.LoggerPort {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": component,
		"method":    method,
	})
	if len(fields) > 0 {
		logger = logger.WithFields(fields)
	}
	return logger
}

// prefixed - "a.col1, a.col2, ..."
func prefixed(alias string, columns ...string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = alias + "." + c
	}
	return strings.Join(parts, ", ")
}
