package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Get returns the value of an environment variable, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Config is the top-level service configuration.
type Config struct {
	Port       string      `yaml:"port"`
	BackendURL string      `yaml:"backend_url"`
	Cache      CacheConfig `yaml:"cache"`
}

// CacheConfig selects the leg-cache backend.
type CacheConfig struct {
	// "sqlite", "postgres", "redis" or "none".
	Backend     string   `yaml:"backend"`
	SQLitePath  string   `yaml:"sqlite_path"`
	DatabaseURL string   `yaml:"database_url"`
	RedisAddr   string   `yaml:"redis_addr"`
	RedisTTL    Duration `yaml:"redis_ttl"`
}

// Duration decodes Go duration strings ("24h", "90m") from YAML, which
// yaml.v3 cannot do for time.Duration directly.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Defaults returns a Config with sane defaults for local runs.
func Defaults() *Config {
	return &Config{
		Port:       "8080",
		BackendURL: "http://localhost:8000",
		Cache: CacheConfig{
			Backend:    "sqlite",
			SQLitePath: "data/legcache.db",
			RedisAddr:  "localhost:6379",
			RedisTTL:   Duration(24 * time.Hour),
		},
	}
}

// Load builds the configuration in three layers: defaults, an optional
// YAML file, then environment variable overrides. A missing file is not
// an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("load config: parse %q: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config: read %q: %w", path, err)
		}
	}

	cfg.Port = Get("PORT", cfg.Port)
	cfg.BackendURL = Get("BACKEND_URL", cfg.BackendURL)
	cfg.Cache.Backend = Get("CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.SQLitePath = Get("DB_PATH", cfg.Cache.SQLitePath)
	cfg.Cache.DatabaseURL = Get("DATABASE_URL", cfg.Cache.DatabaseURL)
	cfg.Cache.RedisAddr = Get("REDIS_ADDR", cfg.Cache.RedisAddr)

	if v := os.Getenv("REDIS_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("load config: parse REDIS_TTL %q: %w", v, err)
		}
		cfg.Cache.RedisTTL = Duration(ttl)
	}

	return cfg, nil
}
