package postgres_adapter

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"realty-service/internal/core/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationLockID - ключ advisory lock, чтобы несколько экземпляров не мигрировали одновременно
const migrationLockID = 7243011

// Migrate применяет встроенные SQL-файлы по порядку имен. Файлы идемпотентны.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger port.LoggerPort) error {
	migLogger := logger.WithFields(port.Fields{"component": "PostgresMigrator"})

	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(files)

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection for migrations: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return fmt.Errorf("failed to take migration lock: %w", err)
	}
	defer func() {
		_, _ = conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", migrationLockID)
	}()

	for _, name := range files {
		body, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := conn.Exec(ctx, string(body)); err != nil {
			migLogger.Error("Migration failed", err, port.Fields{"file": name})
			return fmt.Errorf("migration %s failed: %w", name, err)
		}
		migLogger.Debug("Migration applied", port.Fields{"file": name})
	}

	migLogger.Info("Database schema is up to date", port.Fields{"migrations": len(files)})
	return nil
}
