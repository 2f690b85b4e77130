// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the marketplace schema (auth, users, catalog)
// with golang-migrate before the API starts listening.
//
// The SQL files are embedded in the binary. An explicit directory may be
// given instead to try a migration without rebuilding.
package migration

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var embedded embed.FS

// RunUp migrates the database at dsn to the latest version. dir overrides the
// embedded files when non-empty. A dirty database is refused.
func RunUp(dsn, dir string, logger *slog.Logger) error {
	migrator, err := open(dsn, dir)
	if err != nil {
		return err
	}
	defer func() {
		if sourceErr, dbErr := migrator.Close(); sourceErr != nil || dbErr != nil {
			logger.Warn("migration_close_failed", slog.Any("source", sourceErr), slog.Any("database", dbErr))
		}
	}()
	migrator.Log = slogAdapter{logger}

	from, dirty, err := migrator.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		from = 0
	case err != nil:
		return fmt.Errorf("migration: read version: %w", err)
	case dirty:
		return fmt.Errorf("migration: version %d is dirty, fix it by hand with migrate force", from)
	}

	if err := migrator.Up(); errors.Is(err, migrate.ErrNoChange) {
		logger.Info("migration_up_to_date", slog.Uint64("version", uint64(from)))
		return nil
	} else if err != nil {
		return fmt.Errorf("migration: up from %d: %w", from, err)
	}

	to, _, _ := migrator.Version()
	logger.Info("migration_applied", slog.Uint64("from", uint64(from)), slog.Uint64("to", uint64(to)))
	return nil
}

func open(dsn, dir string) (*migrate.Migrate, error) {
	databaseURL := pgx5URL(dsn)
	if dir != "" {
		migrator, err := migrate.New("file://"+dir, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("migration: open %s: %w", dir, err)
		}
		return migrator, nil
	}

	source, err := iofs.New(embedded, "sql")
	if err != nil {
		return nil, fmt.Errorf("migration: read embedded files: %w", err)
	}
	migrator, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("migration: open: %w", err)
	}
	return migrator, nil
}

// pgx5URL switches a postgres:// URL to the scheme of the pgx/v5 driver.
func pgx5URL(dsn string) string {
	for _, scheme := range []string{"postgresql://", "postgres://"} {
		if rest, ok := strings.CutPrefix(dsn, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

type slogAdapter struct{ logger *slog.Logger }

func (adapter slogAdapter) Printf(format string, args ...any) {
	adapter.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (slogAdapter) Verbose() bool { return false }
