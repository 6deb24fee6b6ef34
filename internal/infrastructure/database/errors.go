package database

import "errors"

// Sentinel errors for database operations.
var (
	// ErrNoPath indicates Open was called without a database path.
	ErrNoPath = errors.New("database: path is empty")

	// ErrMigrationNotFound indicates an applied migration has no file.
	ErrMigrationNotFound = errors.New("database: migration not found")

	// ErrNoDownMigration indicates a migration has no .down.sql file.
	ErrNoDownMigration = errors.New("database: migration has no down SQL")
)
