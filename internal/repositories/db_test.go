package repositories

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	db, err := Open(path, zerolog.Nop())
	require.NoError(t, err)

	// A second startup against the same file must not re-run recorded steps.
	_, err = Open(path, zerolog.Nop())
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&schemaMigration{}).Count(&count).Error)
	assert.Equal(t, int64(len(migrations)), count)
}

func TestMigrationsCreateExpectedSchema(t *testing.T) {
	db, err := Open(":memory:", zerolog.Nop())
	require.NoError(t, err)

	for _, table := range []string{"users", "entries", "schema_migrations"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
	for _, col := range []string{"avatar", "full_name", "interests", "oauth_provider", "oauth_id"} {
		assert.True(t, db.Migrator().HasColumn("users", col), "missing users column %s", col)
	}
}
