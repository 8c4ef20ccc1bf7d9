package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestProcess_Defaults(t *testing.T) {
	cfg, err := Process(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if cfg.Port != "8080" || cfg.StoreBackend != BackendMongo || cfg.BcryptCost != 10 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.AllowRoleSelection {
		t.Fatalf("role selection must be disabled by default")
	}
	if cfg.JWT.AccessTTL != 24*time.Hour || cfg.JWT.RefreshTTL != 168*time.Hour {
		t.Fatalf("unexpected TTLs: %v / %v", cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	}
	if cfg.Redis.ClaimTTL != 30*time.Second || !cfg.Redis.Enabled {
		t.Fatalf("unexpected redis config: %+v", cfg.Redis)
	}
	if cfg.Admin.Password != "" || cfg.Admin.Email != "admin@example.com" {
		t.Fatalf("unexpected admin config: %+v", cfg.Admin)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("default env should be development")
	}
}

func TestProcess_Overrides(t *testing.T) {
	cfg, err := Process(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":           "s3cret",
		"STORE_BACKEND":        "sqlite",
		"SQLITE_PATH":          "/tmp/a.db",
		"ALLOW_ROLE_SELECTION": "true",
		"JWT_ACCESS_TTL":       "15m",
		"REDIS_ENABLED":        "false",
		"ENV":                  "production",
	}))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if cfg.StoreBackend != BackendSQLite || cfg.SQLite.Path != "/tmp/a.db" {
		t.Fatalf("unexpected store config: %+v", cfg)
	}
	if !cfg.AllowRoleSelection || cfg.Redis.Enabled || cfg.JWT.AccessTTL != 15*time.Minute {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.IsDevelopment() {
		t.Fatalf("production is not development")
	}
}

func TestProcess_MissingSecret(t *testing.T) {
	if _, err := Process(context.Background(), envconfig.MapLookuper(nil)); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestProcess_InvalidBackend(t *testing.T) {
	_, err := Process(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":    "s3cret",
		"STORE_BACKEND": "postgres",
	}))
	if err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
