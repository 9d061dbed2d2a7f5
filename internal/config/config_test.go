package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ferdiebergado/roomkit/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const sample = `{
  "app": {"env": "development", "url": "http://localhost:8888/"},
  "server": {"port": 8888, "shutdown_timeout": "10s"},
  "db": {"driver": "pgx", "host": "localhost"},
  "verification": {"secret_length": 10, "ttl": "0s"},
  "reset": {"ttl": "72h"}
}`

//nolint:paralleltest //Sets environment variables.
func TestLoad(t *testing.T) {
	t.Setenv("APP_KEY", "secret")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("RESET_TTL", "1h")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := config.Load(writeConfig(t, sample))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.App.Key != "secret" {
		t.Errorf("cfg.App.Key = %q, want: %q", cfg.App.Key, "secret")
	}

	if cfg.App.URL != "http://localhost:8888" {
		t.Errorf("cfg.App.URL = %q, want trailing slash trimmed", cfg.App.URL)
	}

	if cfg.DB.Host != "db.internal" {
		t.Errorf("cfg.DB.Host = %q, want: %q", cfg.DB.Host, "db.internal")
	}

	if cfg.Server.ShutdownTimeout.Duration != 10*time.Second {
		t.Errorf("cfg.Server.ShutdownTimeout = %v, want: %v", cfg.Server.ShutdownTimeout, 10*time.Second)
	}

	if cfg.Reset.TTL.Duration != time.Hour {
		t.Errorf("cfg.Reset.TTL = %v, want: %v", cfg.Reset.TTL, time.Hour)
	}

	if cfg.Verification.TTL.Duration != 0 {
		t.Errorf("cfg.Verification.TTL = %v, want: 0", cfg.Verification.TTL)
	}

	if cfg.SMTP == nil || cfg.SMTP.Port != 2525 {
		t.Errorf("cfg.SMTP = %+v, want port 2525 from env", cfg.SMTP)
	}
}

//nolint:paralleltest //Sets environment variables.
func TestLoad_MissingKey(t *testing.T) {
	t.Setenv("APP_KEY", "")

	if _, err := config.Load(writeConfig(t, sample)); !errors.Is(err, config.ErrMissingKey) {
		t.Errorf("config.Load() error = %v, want: %v", err, config.ErrMissingKey)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	t.Parallel()

	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("config.Load() with a missing file should fail")
	}

	if _, err := config.Load(writeConfig(t, "{not json")); err == nil {
		t.Error("config.Load() with invalid json should fail")
	}
}
