package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadServer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	contents := `
addr: ":9090"
allowedOrigins:
  - "https://app.example.com"
postgres:
  uri: "postgres://localhost/playbooks"
  maxConns: 20
  minConns: 5
  connMaxLifetime: 1h
  connMaxIdleTime: 10m
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadServer(path)
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Addr)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://app.example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.Postgres.MaxConns != 20 || cfg.Postgres.MinConns != 5 {
		t.Errorf("Postgres pool settings = %+v", cfg.Postgres)
	}
	if cfg.Postgres.ConnMaxLifetime != time.Hour {
		t.Errorf("ConnMaxLifetime = %v, want 1h", cfg.Postgres.ConnMaxLifetime)
	}
}

func TestLoadServer_MissingFile(t *testing.T) {
	_, err := LoadServer(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestDefaultServer(t *testing.T) {
	cfg := DefaultServer("postgres://localhost/playbooks")
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.Postgres.URI != "postgres://localhost/playbooks" {
		t.Errorf("Postgres.URI = %q", cfg.Postgres.URI)
	}
}
