package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.Cache.Backend != "sqlite" {
		t.Errorf("cache backend = %q, want sqlite", cfg.Cache.Backend)
	}
	if time.Duration(cfg.Cache.RedisTTL) != 24*time.Hour {
		t.Errorf("redis ttl = %v, want 24h", time.Duration(cfg.Cache.RedisTTL))
	}
}

func TestLoadParsesYAMLDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
port: "9090"
backend_url: http://routing:8000
cache:
  backend: redis
  redis_addr: redis:6379
  redis_ttl: 90m
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Port)
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("cache backend = %q, want redis", cfg.Cache.Backend)
	}
	if time.Duration(cfg.Cache.RedisTTL) != 90*time.Minute {
		t.Errorf("redis ttl = %v, want 90m", time.Duration(cfg.Cache.RedisTTL))
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("cache:\n  redis_ttl: soon\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unparseable redis_ttl")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("CACHE_BACKEND", "none")
	t.Setenv("REDIS_TTL", "15m")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "7070" {
		t.Errorf("port = %q, want 7070", cfg.Port)
	}
	if cfg.Cache.Backend != "none" {
		t.Errorf("cache backend = %q, want none", cfg.Cache.Backend)
	}
	if time.Duration(cfg.Cache.RedisTTL) != 15*time.Minute {
		t.Errorf("redis ttl = %v, want 15m", time.Duration(cfg.Cache.RedisTTL))
	}
}

func TestLoadRejectsBadEnvTTL(t *testing.T) {
	t.Setenv("REDIS_TTL", "whenever")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unparseable REDIS_TTL")
	}
}
