package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of config.yaml. Kept separate from
// Config so defaults resolved at load time are not written back out.
type fileConfig struct {
	AuthURL  string `yaml:"auth-url,omitempty"`
	AnonKey  string `yaml:"anon-key,omitempty"`
	Backend  string `yaml:"backend,omitempty"`
	StoreDSN string `yaml:"store-dsn,omitempty"`
	LocalDB  string `yaml:"local-db,omitempty"`
}

// WriteStarter creates dir/config.yaml with the given settings. Refuses to
// overwrite an existing file.
func WriteStarter(dir string, cfg *Config) (string, error) {
	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(&fileConfig{
		AuthURL:  cfg.AuthURL,
		AnonKey:  cfg.AnonKey,
		Backend:  cfg.Backend,
		StoreDSN: cfg.StoreDSN,
		LocalDB:  cfg.LocalDB,
	})
	if err != nil {
		return "", err
	}
	header := []byte("# gp configuration. Environment variables (GP_AUTH_URL, GP_ANON_KEY,\n# GP_STORE_DSN, GP_BACKEND, GP_LOCAL_DB) override these values.\n")
	if err := os.WriteFile(path, append(header, data...), 0o600); err != nil {
		return "", fmt.Errorf("write config.yaml: %w", err)
	}
	return path, nil
}
