package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if cfg.CASRetries != 3 || cfg.XPTimeout != 2*time.Second {
		t.Errorf("CASRetries = %d, XPTimeout = %s", cfg.CASRetries, cfg.XPTimeout)
	}
	if cfg.RedisURL != "" || cfg.SeedDemo {
		t.Errorf("redis and seeding should be off by default: %+v", cfg)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	data := "DB_PATH=/tmp/pickup-test.db\nSEED_DEMO=true\nLOG_LEVEL=DEBUG\nCORS_ORIGINS=https://a.example,https://b.example\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv.Load sets process variables; restore them afterwards.
	for _, k := range []string{"DB_PATH", "SEED_DEMO", "LOG_LEVEL", "CORS_ORIGINS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("HTTP_ADDR", ":9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/pickup-test.db" || !cfg.SeedDemo || cfg.LogLevel != slog.LevelDebug {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want the process value", cfg.HTTPAddr)
	}
}

func TestLoadRejectsNegativeRetries(t *testing.T) {
	t.Setenv("CAS_RETRIES", "-1")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatal("expected an error")
	}
}
