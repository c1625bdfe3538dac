package cache

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Initialize the geocode cache schema. Safe to run repeatedly.
func InitSchema(db *sqlx.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		details TEXT NOT NULL DEFAULT ''
	);
	`

	createQueryIndex := `
	CREATE INDEX IF NOT EXISTS idx_geocode_cache_query
	ON geocode_cache(query);
	`

	statements := []string{
		createGeocodeCacheQuery,
		createQueryIndex,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
