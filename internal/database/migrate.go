package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Migrator applies embedded *.sql files in name order and records each one in
// a schema_migrations table so it runs only once per database.
type Migrator struct {
	DB *sql.DB
	FS fs.FS
	// Dir is the directory inside FS holding the migration files
	Dir string
	// Placeholder is the bind parameter syntax of the driver ("?" or "$1")
	Placeholder string
	// TableDDL creates schema_migrations(version, applied_at) in the target dialect
	TableDDL string
}

// getAppliedMigrations returns a set of already-applied migration versions.
func (m *Migrator) getAppliedMigrations(ctx context.Context) (map[string]bool, error) {
	if _, err := m.DB.ExecContext(ctx, m.TableDDL); err != nil {
		return nil, fmt.Errorf("create migrations table: %w", err)
	}

	versions, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}

	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

// pendingFiles returns sorted SQL migration filenames not yet applied.
func (m *Migrator) pendingFiles(applied map[string]bool) ([]string, error) {
	entries, err := fs.ReadDir(m.FS, m.Dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") && !applied[e.Name()] {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// Migrate applies every pending migration, each in its own transaction.
// It returns the names of the files applied by this call.
func (m *Migrator) Migrate(ctx context.Context) ([]string, error) {
	applied, err := m.getAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	files, err := m.pendingFiles(applied)
	if err != nil {
		return nil, err
	}

	record := fmt.Sprintf("INSERT INTO schema_migrations (version) VALUES (%s)", m.Placeholder)

	for _, file := range files {
		content, err := fs.ReadFile(m.FS, path.Join(m.Dir, file))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", file, err)
		}

		tx, err := m.DB.BeginTx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("begin transaction for %s: %w", file, err)
		}

		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("execute migration %s: %w", file, err)
		}

		if _, err := tx.ExecContext(ctx, record, file); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("record migration %s: %w", file, err)
		}

		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit migration %s: %w", file, err)
		}
	}

	return files, nil
}

// Applied returns the recorded migration versions in order.
func (m *Migrator) Applied(ctx context.Context) ([]string, error) {
	rows, err := m.DB.QueryContext(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan migration version: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate migration versions: %w", err)
	}
	return versions, nil
}
