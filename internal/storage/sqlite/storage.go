package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// import sqlite driver.
	_ "github.com/mattn/go-sqlite3"

	"github.com/GustavoCaso/bookcatalog/internal/config"
	"github.com/GustavoCaso/bookcatalog/internal/storage"
)

type sqliteStorage struct {
	db *sql.DB
}

func New(dbConfig config.DBConfig) (storage.Storage, error) {
	db, err := sql.Open("sqlite3", dataSourceName(dbConfig.Source))
	if err != nil {
		return nil, err
	}

	// Apply connection pool settings
	if dbConfig.MaxOpenConns > 0 {
		db.SetMaxOpenConns(dbConfig.MaxOpenConns)
	}

	if dbConfig.MaxIdleConns > 0 {
		db.SetMaxIdleConns(dbConfig.MaxIdleConns)
	}

	if dbConfig.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)
	}

	if dbConfig.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(dbConfig.ConnMaxIdleTime)
	}

	if err = applyPragmas(context.Background(), db, dbConfig); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &sqliteStorage{db: db}, nil
}

// dataSourceName enables foreign keys on every pooled connection, not only on
// the one the PRAGMA runs against.
func dataSourceName(source string) string {
	if strings.Contains(source, "_foreign_keys") {
		return source
	}

	separator := "?"
	if strings.Contains(source, "?") {
		separator = "&"
	}

	return source + separator + "_foreign_keys=on"
}

func applyPragmas(ctx context.Context, db *sql.DB, dbConfig config.DBConfig) error {
	// Profiles and sessions rely on ON DELETE CASCADE
	pragmas := []string{"foreign_keys = ON"}

	if dbConfig.JournalMode != "" {
		pragmas = append(pragmas, fmt.Sprintf("journal_mode = %s", dbConfig.JournalMode))
	}

	if dbConfig.Synchronous != "" {
		pragmas = append(pragmas, fmt.Sprintf("synchronous = %s", dbConfig.Synchronous))
	}

	if dbConfig.CacheSize != 0 {
		pragmas = append(pragmas, fmt.Sprintf("cache_size = %d", dbConfig.CacheSize))
	}

	if dbConfig.BusyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("busy_timeout = %d", dbConfig.BusyTimeout))
	}

	if dbConfig.WALAutocheckpoint > 0 {
		pragmas = append(pragmas, fmt.Sprintf("wal_autocheckpoint = %d", dbConfig.WALAutocheckpoint))
	}

	if dbConfig.TempStore != "" {
		pragmas = append(pragmas, fmt.Sprintf("temp_store = %s", dbConfig.TempStore))
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, "PRAGMA "+pragma); err != nil {
			return fmt.Errorf("failed to set %s: %w", pragma, err)
		}
	}

	return nil
}

func (s *sqliteStorage) Close() error {
	return s.db.Close()
}
