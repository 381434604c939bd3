package main

import (
	"database/sql"
	"log"
	"strings"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"routesafe-service/internal/adapters/cache"
	"routesafe-service/internal/config"
	"routesafe-service/internal/platform/db"
)

// dbtool initializes the leg-cache schema ahead of the first deploy, for
// the SQL backends. Redis needs no schema.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	backend := config.Get("CACHE_BACKEND", "sqlite")

	var (
		sqlDB *sql.DB
		err   error
	)

	switch backend {
	case "sqlite":
		path := config.Get("DB_PATH", "data/legcache.db")
		sqlDB, err = sql.Open("sqlite", path)
		if err != nil {
			log.Fatalf("open sqlite %q: %v", path, err)
		}

	case "postgres":
		databaseURL := config.Get("DATABASE_URL", "")
		if strings.TrimSpace(databaseURL) == "" {
			log.Fatal("DATABASE_URL is required")
		}
		sqlDB, err = db.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}

	default:
		log.Fatalf("unsupported cache backend %q", backend)
	}
	defer sqlDB.Close()

	log.Println("Initializing leg cache schema...")
	if err := cache.InitSchema(sqlDB); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")
}
