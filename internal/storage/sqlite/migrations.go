package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/GustavoCaso/bookcatalog/internal/logger"
)

type migration struct {
	name string
	up   func(ctx context.Context, tx *sql.Tx) error
}

func createTable(statement string) func(ctx context.Context, tx *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, statement)
		return err
	}
}

// migrations are applied in order; the version of a migration is its index + 1.
// Never reorder or remove entries.
var migrations = []migration{
	{
		name: "Create products table",
		up: createTable(`
			CREATE TABLE IF NOT EXISTS products (
				id INTEGER PRIMARY KEY,
				sku TEXT NOT NULL,
				name TEXT NOT NULL,
				author TEXT NOT NULL DEFAULT '',
				description TEXT NOT NULL DEFAULT '',
				price INTEGER NOT NULL,
				rating REAL,
				image_url TEXT NOT NULL DEFAULT '',
				UNIQUE(sku) ON CONFLICT FAIL
			) STRICT;`),
	},
	{
		name: "Create users table",
		up: createTable(`
			CREATE TABLE IF NOT EXISTS users (
				id INTEGER PRIMARY KEY,
				username TEXT NOT NULL,
				password_hash TEXT NOT NULL,
				created_at INTEGER NOT NULL,
				UNIQUE(username) ON CONFLICT FAIL
			) STRICT;`),
	},
	{
		name: "Create sessions table",
		up: createTable(`
			CREATE TABLE IF NOT EXISTS sessions (
				id TEXT PRIMARY KEY,
				user_id INTEGER NOT NULL,
				expires_at INTEGER NOT NULL,
				created_at INTEGER NOT NULL,
				FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
			) STRICT;`),
	},
	{
		name: "Create user profiles table",
		up: createTable(`
			CREATE TABLE IF NOT EXISTS user_profiles (
				user_id INTEGER PRIMARY KEY,
				default_phone_number TEXT,
				default_country TEXT,
				default_postcode TEXT,
				default_town_or_city TEXT,
				default_street_address1 TEXT,
				default_street_address2 TEXT,
				default_county TEXT,
				FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
			) STRICT;`),
	},
	{
		name: "Index product names for listing",
		up: createTable(`
			CREATE INDEX IF NOT EXISTS products_lower_name ON products (lower(name));`),
	},
}

func createMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at INTEGER NOT NULL
		)
	`)
	return err
}

// DropTables removes every table, children first. It exists for tests.
func DropTables(db *sql.DB) error {
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for dropping tables: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, table := range []string{"user_profiles", "sessions", "users", "products", "schema_migrations"} {
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s;", table)); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deletion: %w", err)
	}

	return nil
}

func (s *sqliteStorage) ApplyMigrations(ctx context.Context, logger *logger.Logger) error {
	if err := createMigrationsTable(ctx, s.db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion := 0
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for i, m := range migrations {
		version := i + 1
		if version <= currentVersion {
			continue
		}

		logger.Info("Applying migration", "version", version, "name", m.name)

		if err := s.applyMigration(ctx, version, m); err != nil {
			return err
		}
	}

	return nil
}

func (s *sqliteStorage) applyMigration(ctx context.Context, version int, m migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", version, err)
	}
	defer func() {
		_ = tx.Rollback() // Will be no-op if committed
	}()

	if err = m.up(ctx, tx); err != nil {
		return fmt.Errorf("migration %d failed: %w", version, err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
		version, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to record migration %d: %w", version, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", version, err)
	}

	return nil
}
