package persistence

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // PostgreSQL driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // File source driver
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/config"
)

// RunMigrations brings the booking schema up to the newest migration under
// POSTGRES_MIGRATIONS_PATH. A dirty schema is reported, never forced.
func RunMigrations(logger *slog.Logger, cfg *config.PostgresConfig) error {
	if cfg.MigrationsPath == "" {
		return errors.New("migrations path cannot be empty")
	}
	if cfg.URL == "" {
		return errors.New("database URL cannot be empty")
	}

	m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	upErr := m.Up()
	version, dirty, versionErr := m.Version()
	sourceErr, dbErr := m.Close()

	var dirtyErr migrate.ErrDirty
	switch {
	case errors.As(upErr, &dirtyErr):
		return fmt.Errorf("schema is dirty at version %d and needs a manual fix: %w", dirtyErr.Version, upErr)
	case errors.Is(upErr, migrate.ErrNoChange):
		logger.Info("Database schema is up to date", "version", version)
	case upErr != nil:
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	case versionErr == nil:
		logger.Info("Database schema migrated", "version", version, "dirty", dirty)
	}

	if sourceErr != nil {
		return fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database error: %w", dbErr)
	}
	return nil
}
