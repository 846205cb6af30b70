package repositories

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// migration is one step of the versioned schema history. Steps run in order
// inside a transaction and are recorded in schema_migrations, so each is
// applied exactly once per database file.
type migration struct {
	ID  string
	SQL []string
}

var migrations = []migration{
	{
		ID: "001_create_users",
		SQL: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				email TEXT NOT NULL,
				password_digest TEXT NOT NULL DEFAULT '',
				is_verified INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME,
				updated_at DATETIME
			)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		},
	},
	{
		ID: "002_create_entries",
		SQL: []string{
			`CREATE TABLE IF NOT EXISTS entries (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				text TEXT NOT NULL DEFAULT '',
				mood TEXT NOT NULL DEFAULT 'neutral',
				sentiment INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME
			)`,
			`CREATE INDEX IF NOT EXISTS idx_entries_user_id ON entries(user_id)`,
		},
	},
	{
		ID: "003_add_profile_columns",
		SQL: []string{
			`ALTER TABLE users ADD COLUMN avatar TEXT NOT NULL DEFAULT ''`,
			`ALTER TABLE users ADD COLUMN full_name TEXT NOT NULL DEFAULT ''`,
			`ALTER TABLE users ADD COLUMN bio TEXT NOT NULL DEFAULT ''`,
			`ALTER TABLE users ADD COLUMN location TEXT NOT NULL DEFAULT ''`,
			`ALTER TABLE users ADD COLUMN interests TEXT`,
			`ALTER TABLE users ADD COLUMN date_of_birth TEXT NOT NULL DEFAULT ''`,
		},
	},
	{
		ID: "004_add_oauth_columns",
		SQL: []string{
			`ALTER TABLE users ADD COLUMN oauth_provider TEXT NOT NULL DEFAULT ''`,
			`ALTER TABLE users ADD COLUMN oauth_id TEXT NOT NULL DEFAULT ''`,
		},
	},
}

// Open connects to the embedded store at path and brings the schema up to
// date before any traffic is served.
func Open(path string, logger zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := Migrate(db, logger); err != nil {
		return nil, err
	}
	return db, nil
}

type schemaMigration struct {
	ID        string `gorm:"primaryKey"`
	AppliedAt time.Time
}

func (schemaMigration) TableName() string { return "schema_migrations" }

// Migrate applies all unrecorded migration steps in order. Running it against
// an already-migrated file is a no-op.
func Migrate(db *gorm.DB, logger zerolog.Logger) error {
	if err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		id TEXT PRIMARY KEY,
		applied_at DATETIME
	)`).Error; err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var count int64
		if err := db.Model(&schemaMigration{}).Where("id = ?", m.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration %s: %w", m.ID, err)
		}
		if count > 0 {
			continue
		}

		logger.Info().Str("migration", m.ID).Msg("applying migration")
		err := db.Transaction(func(tx *gorm.DB) error {
			for _, stmt := range m.SQL {
				if err := tx.Exec(stmt).Error; err != nil {
					return err
				}
			}
			return tx.Create(&schemaMigration{ID: m.ID, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %s failed: %w", m.ID, err)
		}
	}
	return nil
}
