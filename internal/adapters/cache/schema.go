package cache

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the leg-cache schema. The same statements are valid for both
// SQLite and Postgres.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createLegCacheQuery := `
	CREATE TABLE IF NOT EXISTS leg_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        height_mm INTEGER NOT NULL,
        distance_meters REAL NOT NULL,
        duration_seconds REAL NOT NULL,
        has_conflict INTEGER NOT NULL,
        near_height_limit INTEGER NOT NULL,
        nearest_bridge_height_m REAL,
        note TEXT NOT NULL DEFAULT '',
        map_url TEXT NOT NULL DEFAULT '',
        alt_distance_meters REAL,
        alt_duration_seconds REAL,
        alt_map_url TEXT,
        PRIMARY KEY (origin, destination, height_mm)
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_leg_cache_destination_origin
    ON leg_cache(destination, origin);
	`

	statements := []string{
		createLegCacheQuery,
		createIndexQuery,
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
