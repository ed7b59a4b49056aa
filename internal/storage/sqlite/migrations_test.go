package sqlite

import (
	"testing"

	"github.com/GustavoCaso/bookcatalog/internal/logger"
)

func TestMigrations(t *testing.T) {
	s, _ := setupTestStorage(t)
	db := s.(*sqliteStorage).db

	var version int
	if err := db.QueryRowContext(t.Context(), "SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}

	if version != len(migrations) {
		t.Errorf("Expected schema version %d, got %d", len(migrations), version)
	}

	for _, table := range []string{"products", "users", "sessions", "user_profiles"} {
		var name string
		row := db.QueryRowContext(t.Context(), "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table)
		if err := row.Scan(&name); err != nil {
			t.Errorf("Expected table %s to exist: %v", table, err)
		}
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s, _ := setupTestStorage(t)

	if err := s.ApplyMigrations(t.Context(), logger.New(logger.Config{Output: "discard"})); err != nil {
		t.Fatalf("Failed to re-apply migrations: %v", err)
	}

	var applied int
	row := s.(*sqliteStorage).db.QueryRowContext(t.Context(), "SELECT COUNT(*) FROM schema_migrations")
	if err := row.Scan(&applied); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}

	if applied != len(migrations) {
		t.Errorf("Expected %d recorded migrations, got %d", len(migrations), applied)
	}
}

func TestDropTables(t *testing.T) {
	s, _ := setupTestStorage(t)
	db := s.(*sqliteStorage).db

	if err := DropTables(db); err != nil {
		t.Fatalf("Failed to drop tables: %v", err)
	}

	var count int
	if err := db.QueryRowContext(t.Context(), "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table'").Scan(&count); err != nil {
		t.Fatalf("Failed to count tables: %v", err)
	}

	if count != 0 {
		t.Errorf("Expected no tables after drop, got %d", count)
	}
}
