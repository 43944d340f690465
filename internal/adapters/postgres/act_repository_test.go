package postgres_adapter

import (
	"io/fs"
	"strings"
	"testing"
	"time"

	"realty-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActInsert(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	t.Run("api act has no conflict target", func(t *testing.T) {
		query, args := actInsert(&domain.Act{DateTime: at, Duration: 30, Type: domain.ActTypeShowing})
		assert.NotContains(t, query, "ON CONFLICT")
		assert.NotContains(t, query, "external_id")
		assert.Equal(t, []any{at, 30, "Показ", ""}, args)
	})

	t.Run("calendar act is keyed by message id", func(t *testing.T) {
		query, args := actInsert(&domain.Act{DateTime: at, Duration: 30, Type: domain.ActTypeShowing, ExternalID: "cal-42"})
		assert.Contains(t, query, "ON CONFLICT (external_id) DO NOTHING")
		assert.Contains(t, query, "RETURNING id")
		require.Len(t, args, 5)
		assert.Equal(t, "cal-42", args[4])
	})
}

func TestMigrations_ActExternalIDIsUnique(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)

	var all strings.Builder
	for _, name := range files {
		body, err := migrationsFS.ReadFile(name)
		require.NoError(t, err)
		all.Write(body)
	}
	assert.Contains(t, all.String(), "ADD COLUMN IF NOT EXISTS external_id")
	assert.Contains(t, all.String(), "CREATE UNIQUE INDEX IF NOT EXISTS acts_external_id_key ON acts (external_id)")
}
