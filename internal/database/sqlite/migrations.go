package sqlite

import (
	"context"
	"embed"

	"github.com/kozaktomas/face-counter/internal/database"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func (d *DB) migrator() *database.Migrator {
	return &database.Migrator{
		DB:          d.db,
		FS:          migrationsFS,
		Dir:         "migrations",
		Placeholder: "?",
		TableDDL: `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version TEXT PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
	}
}

// Migrate applies all pending migrations. Statements use IF NOT EXISTS, so a
// pre-existing people table is adopted as-is.
func (d *DB) Migrate(ctx context.Context) error {
	_, err := d.migrator().Migrate(ctx)
	return err
}

// MigrationsApplied returns the list of applied migrations
func (d *DB) MigrationsApplied(ctx context.Context) ([]string, error) {
	return d.migrator().Applied(ctx)
}
