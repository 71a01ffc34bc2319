package config

import (
	"path/filepath"
	"testing"
)

func TestWriteStarterRoundTrips(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gp")
	seed := &Config{AuthURL: "https://auth.example.com", AnonKey: "key-123", Backend: BackendSQLite}

	path, err := WriteStarter(dir, seed)
	if err != nil {
		t.Fatalf("WriteStarter: %v", err)
	}
	if path != filepath.Join(dir, "config.yaml") {
		t.Fatalf("path = %q", path)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AuthURL != seed.AuthURL || cfg.AnonKey != seed.AnonKey || cfg.Backend != seed.Backend {
		t.Fatalf("round trip lost values: %+v", cfg)
	}
}

func TestWriteStarterRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	if _, err := WriteStarter(dir, &Config{}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := WriteStarter(dir, &Config{}); err == nil {
		t.Fatal("second write should refuse to overwrite")
	}
}
