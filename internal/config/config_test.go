package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nanosql/nanosql/internal/enginelog"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	if cfg.Tenant != "default" || cfg.QueryCacheSize != 128 || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFillsInUnsetFieldsFromDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("tenant: acme\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Tenant != "acme" {
		t.Fatalf("expected tenant acme, got %q", cfg.Tenant)
	}
	if cfg.QueryCacheSize != 128 {
		t.Fatalf("expected the default query cache size to survive a partial override, got %d", cfg.QueryCacheSize)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestLogLevelValueMapping(t *testing.T) {
	cases := map[string]enginelog.Level{
		"debug": enginelog.Debug,
		"warn":  enginelog.Warn,
		"error": enginelog.Error,
		"info":  enginelog.Info,
		"":      enginelog.Info,
		"huh":   enginelog.Info,
	}
	for in, want := range cases {
		cfg := Config{LogLevel: in}
		if got := cfg.LogLevelValue(); got != want {
			t.Errorf("LogLevelValue(%q) = %v, want %v", in, got, want)
		}
	}
}
