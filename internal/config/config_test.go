package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chdir is a stand-in for t.Chdir (Go 1.24+) on older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Embedding.Dimensions != 384 {
		t.Errorf("expected 384 dimensions, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Embedding.Cache.TTLSec != 300 {
		t.Errorf("expected cache TTL 300s, got %d", cfg.Embedding.Cache.TTLSec)
	}
	if cfg.Embedding.Cache.Capacity != 100 {
		t.Errorf("expected cache capacity 100, got %d", cfg.Embedding.Cache.Capacity)
	}
	if cfg.Search.SourceTimeoutMS != 300 {
		t.Errorf("expected source timeout 300ms, got %d", cfg.Search.SourceTimeoutMS)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected shutdown timeout 10s, got %d", cfg.HTTP.ShutdownSec)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		HTTP:      HTTPConfig{Port: 8080},
		Database:  DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Embedding: EmbeddingConfig{Model: "text-embedding-3-small"},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := valid
	bad.HTTP.Port = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected port error")
	}

	bad = valid
	bad.Database.Addrs = nil
	if err := bad.Validate(); err == nil {
		t.Error("expected addrs error")
	}

	bad = valid
	bad.Embedding.Model = ""
	if err := bad.Validate(); err == nil {
		t.Error("expected model error")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("UNISEARCH_TEST_ADDR", "redis:6379")

	got := string(expandEnvVars([]byte("addr: ${UNISEARCH_TEST_ADDR}")))
	if got != "addr: redis:6379" {
		t.Errorf("unexpected expansion: %q", got)
	}

	got = string(expandEnvVars([]byte("model: ${UNISEARCH_TEST_UNSET:-fallback}")))
	if got != "model: fallback" {
		t.Errorf("expected default value, got %q", got)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := strings.Join([]string{
		"http:",
		"  port: 9090",
		"database:",
		"  addrs:",
		"    - localhost:6379",
		"embedding:",
		"  model: text-embedding-3-small",
	}, "\n")
	if err := os.WriteFile(filepath.Join(dir, "config", "test.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Search.SourceTimeoutMS != 300 {
		t.Errorf("expected defaults applied, got %d", cfg.Search.SourceTimeoutMS)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	if _, err := Load("nope"); err == nil {
		t.Error("expected error for missing config")
	}
}
