package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DBDriver != "sqlite" || cfg.Addr() != ":8080" {
		t.Fatalf("defaults: driver=%q addr=%q", cfg.DBDriver, cfg.Addr())
	}
	if cfg.SourceTimeout() != 5*time.Second || cfg.Feed.MaxLimit != 100 || cfg.Feed.MaxWindow != 10000 {
		t.Fatalf("feed defaults: timeout=%s limit=%d window=%d", cfg.SourceTimeout(), cfg.Feed.MaxLimit, cfg.Feed.MaxWindow)
	}
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
port: "9090"
db_driver: postgres
postgres:
  host: db.internal
  name: ledger
feed:
  source_timeout_ms: 750
  max_limit: 40
cors_origins:
  - https://ops.example.com
otel:
  enabled: true
  sample_ratio: 0.25
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("FEED_MAX_LIMIT", "25")
	t.Setenv("FEED_MAX_WINDOW", "2500")
	t.Setenv("POSTGRES_HOST", "pg.override")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-api-key=abc")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr() != ":9090" || cfg.DBDriver != "postgres" {
		t.Fatalf("file values: addr=%q driver=%q", cfg.Addr(), cfg.DBDriver)
	}
	if cfg.Postgres.Host != "pg.override" || cfg.Postgres.Name != "ledger" {
		t.Fatalf("postgres: %+v", cfg.Postgres)
	}
	if cfg.Postgres.Port != "5432" {
		t.Fatalf("default port should survive a partial file: %q", cfg.Postgres.Port)
	}
	if cfg.SourceTimeout() != 750*time.Millisecond || cfg.Feed.MaxLimit != 25 || cfg.Feed.MaxWindow != 2500 {
		t.Fatalf("feed: timeout=%s limit=%d window=%d", cfg.SourceTimeout(), cfg.Feed.MaxLimit, cfg.Feed.MaxWindow)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example.com" {
		t.Fatalf("cors: %v", cfg.CORSOrigins)
	}
	if !cfg.Otel.Enabled || cfg.Otel.SampleRatio != 0.25 || cfg.Otel.Headers["x-api-key"] != "abc" {
		t.Fatalf("otel: %+v", cfg.Otel)
	}
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "mysql")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
