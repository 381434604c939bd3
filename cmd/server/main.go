package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"routesafe-service/internal/adapters/cache"
	"routesafe-service/internal/adapters/routing"
	"routesafe-service/internal/api"
	"routesafe-service/internal/config"
	"routesafe-service/internal/platform/db"
	"routesafe-service/internal/ports"
	"routesafe-service/internal/present"
	"routesafe-service/internal/services"
)

// main is the application composition root.
// It wires the routing backend client and a leg cache behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(config.Get("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal(err)
	}

	legCache, closeCache, err := openLegCache(cfg.Cache)
	if err != nil {
		log.Fatal(err)
	}
	if closeCache != nil {
		defer closeCache()
	}

	client, err := routing.NewClient(cfg.BackendURL, legCache)
	if err != nil {
		log.Fatal(err)
	}

	planner, err := services.NewPlanner(client)
	if err != nil {
		log.Fatal(err)
	}

	router := api.NewRouter(planner, present.NewRenderer(), client)

	// Timeouts are tuned for cold-cache planning (external API latency
	// multiplied by the number of legs).
	log.Printf("Server listening addr=:%s backend=%s cache=%s", cfg.Port, cfg.BackendURL, cfg.Cache.Backend)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openLegCache builds the configured leg-cache adapter. The returned
// close function releases the underlying connection, if any.
func openLegCache(cfg config.CacheConfig) (ports.LegCache, func(), error) {
	switch cfg.Backend {
	case "sqlite":
		sqlDB, err := sql.Open("sqlite", cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite leg cache %q: %w", cfg.SQLitePath, err)
		}
		if err := cache.InitSchema(sqlDB); err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		return cache.NewSqliteLegCache(sqlDB), func() { sqlDB.Close() }, nil

	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("cache backend %q requires DATABASE_URL", cfg.Backend)
		}
		sqlDB, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := cache.InitSchema(sqlDB); err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		return cache.NewSQLLegCache(sqlDB), func() { sqlDB.Close() }, nil

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return cache.NewRedisLegCache(client, time.Duration(cfg.RedisTTL)), func() { client.Close() }, nil

	case "none", "":
		return nil, nil, nil
	}

	return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}
