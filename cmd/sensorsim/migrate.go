package main

import (
	"context"
	"fmt"
	"io"

	"github.com/nerrad567/gray-logic-sensorsim/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-sensorsim/migrations"
)

// withDatabase opens the configured journal database without migrating it.
// The database is used even when the journal mirror is disabled.
func withDatabase(ctx context.Context, configPath string, fn func(db *database.DB) error) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	return fn(db)
}

func migrateUp(ctx context.Context, configPath string, out io.Writer) error {
	return withDatabase(ctx, configPath, func(db *database.DB) error {
		if err := db.Migrate(ctx, migrations.FS); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		fmt.Fprintf(out, "migrations applied to %s\n", db.Path())
		return nil
	})
}

func migrateDown(ctx context.Context, configPath string, out io.Writer) error {
	return withDatabase(ctx, configPath, func(db *database.DB) error {
		if err := db.MigrateDown(ctx, migrations.FS); err != nil {
			return fmt.Errorf("rolling back migration: %w", err)
		}
		fmt.Fprintf(out, "rolled back latest migration on %s\n", db.Path())
		return nil
	})
}

func migrateStatus(ctx context.Context, configPath string, out io.Writer) error {
	return withDatabase(ctx, configPath, func(db *database.DB) error {
		applied, pending, err := db.MigrationStatus(ctx, migrations.FS)
		if err != nil {
			return fmt.Errorf("reading migration status: %w", err)
		}
		for _, m := range applied {
			fmt.Fprintf(out, "applied  %s  %s\n", m.Version, m.AppliedAt.UTC().Format("2006-01-02 15:04:05"))
		}
		for _, m := range pending {
			fmt.Fprintf(out, "pending  %s  %s\n", m.Version, m.Name)
		}
		return nil
	})
}
