package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/face-counter/internal/config"
	"github.com/kozaktomas/face-counter/internal/database"
	"github.com/kozaktomas/face-counter/internal/database/postgres"
	"github.com/kozaktomas/face-counter/internal/database/sqlite"
)

// openStore connects to PostgreSQL when DATABASE_URL is set and to the SQLite
// file otherwise. The returned func closes the connection.
func openStore(ctx context.Context, cfg *config.DatabaseConfig) (database.PersonWriter, func() error, error) {
	if cfg.UsePostgres() {
		pool, err := postgres.Initialize(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
		}
		logrus.WithField("backend", "postgres").Debug("Database ready")
		return postgres.NewPersonRepository(pool), pool.Close, nil
	}

	db, err := sqlite.Initialize(ctx, cfg.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize SQLite at %s: %w", cfg.Path, err)
	}
	logrus.WithFields(logrus.Fields{"backend": "sqlite", "path": cfg.Path}).Debug("Database ready")
	return sqlite.NewPersonRepository(db), db.Close, nil
}

// closeStore is deferred by commands; close errors are only logged.
func closeStore(closeFn func() error) {
	if err := closeFn(); err != nil {
		logrus.WithError(err).Warn("Failed to close database")
	}
}
