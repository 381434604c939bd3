package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Open a Postgres pool for the shared leg cache. The pool is sized for a
// cache workload: short point lookups and single-row upserts.
func Open(databaseURL string) (*sql.DB, error) {
	pool, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("leg cache: open postgres: %w", err)
	}

	pool.SetMaxOpenConns(8)
	pool.SetMaxIdleConns(4)
	pool.SetConnMaxLifetime(30 * time.Minute)

	if err := pool.Ping(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("leg cache: verify postgres connection: %w", err)
	}

	return pool, nil
}
