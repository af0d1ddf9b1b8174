package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.App.Addr() != "0.0.0.0:8080" {
		t.Fatalf("addr = %q", cfg.App.Addr())
	}
	if cfg.App.RequestTimeout() != 30*time.Second {
		t.Fatalf("request timeout = %v", cfg.App.RequestTimeout())
	}
	if cfg.Backend.Mode != "proxy" {
		t.Fatalf("default backend mode = %q, want proxy", cfg.Backend.Mode)
	}
	if cfg.Backup.Schedule != "0 2 * * *" {
		t.Fatalf("default backup schedule = %q", cfg.Backup.Schedule)
	}
	if cfg.Postgres.MigrationsDir != "migrations" {
		t.Fatalf("default migrations dir = %q", cfg.Postgres.MigrationsDir)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("BACKEND_MODE", "direct")
	t.Setenv("BACKEND_PROXY_ONLY", "true")
	t.Setenv("AUTH_ADMIN_PASSWORD", "hunter2")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	t.Setenv("POSTGRES_MIGRATIONS_DIR", "db/migrate")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.App.Port != "9090" {
		t.Fatalf("port = %q", cfg.App.Port)
	}
	if cfg.Backend.Mode != "direct" || !cfg.Backend.ProxyOnly {
		t.Fatalf("backend config not overridden: %+v", cfg.Backend)
	}
	if cfg.Auth.AdminPassword != "hunter2" {
		t.Fatalf("admin password not read")
	}
	if cfg.App.RequestTimeout() != 0 {
		t.Fatalf("zero timeout should disable the deadline, got %v", cfg.App.RequestTimeout())
	}
	if cfg.Postgres.MigrationsDir != "db/migrate" {
		t.Fatalf("migrations dir not overridden: %q", cfg.Postgres.MigrationsDir)
	}
}

func TestLoadRejectsMalformedRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatalf("malformed REDIS_DB accepted")
	}
}
