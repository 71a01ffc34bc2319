package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != BackendPostgres {
		t.Fatalf("Backend = %q, want postgres", cfg.Backend)
	}
	if cfg.LocalDB != filepath.Join(dir, "gp.db") {
		t.Fatalf("LocalDB = %q", cfg.LocalDB)
	}
	if cfg.SessionFile != filepath.Join(dir, "session.json") {
		t.Fatalf("SessionFile = %q", cfg.SessionFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := "auth-url: https://auth.example.com\nanon-key: key-123\nbackend: sqlite\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AuthURL != "https://auth.example.com" {
		t.Fatalf("AuthURL = %q", cfg.AuthURL)
	}
	if cfg.AnonKey != "key-123" {
		t.Fatalf("AnonKey = %q", cfg.AnonKey)
	}
	if cfg.Backend != BackendSQLite {
		t.Fatalf("Backend = %q", cfg.Backend)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := "auth-url: https://file.example.com\nbackend: postgres\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("GP_AUTH_URL", "https://env.example.com")
	t.Setenv("GP_BACKEND", "memory")
	t.Setenv("GP_STORE_DSN", "postgres://host/db")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AuthURL != "https://env.example.com" {
		t.Fatalf("AuthURL = %q, env should win", cfg.AuthURL)
	}
	if cfg.Backend != BackendMemory {
		t.Fatalf("Backend = %q, env should win", cfg.Backend)
	}
	if cfg.StoreDSN != "postgres://host/db" {
		t.Fatalf("StoreDSN = %q", cfg.StoreDSN)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("backend: oracle\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("unknown backend should be rejected")
	}
}

func TestDirHonorsOverride(t *testing.T) {
	t.Setenv("GP_DIR", "/tmp/gp-test")
	if got := Dir(); got != "/tmp/gp-test" {
		t.Fatalf("Dir = %q", got)
	}
}
