// Package config loads gp's settings from config.yaml with environment
// variable overrides. Environment variables take precedence over the file;
// both take precedence over built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Backend names the persistence implementations the CLI can be wired to.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// Config is the resolved runtime configuration.
type Config struct {
	// AuthURL is the base URL of the auth collaborator.
	AuthURL string `mapstructure:"auth-url"`
	// AnonKey authenticates the application to the auth collaborator.
	AnonKey string `mapstructure:"anon-key"`
	// Backend selects the store implementation.
	Backend string `mapstructure:"backend"`
	// StoreDSN is the postgres connection string (postgres backend).
	StoreDSN string `mapstructure:"store-dsn"`
	// LocalDB is the sqlite database path (sqlite backend).
	LocalDB string `mapstructure:"local-db"`
	// SessionFile is where the signed-in session is cached.
	SessionFile string `mapstructure:"session-file"`
}

// Dir returns gp's config directory, honoring GP_DIR for tests and
// unusual setups.
func Dir() string {
	if dir := os.Getenv("GP_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gp"
	}
	return filepath.Join(home, ".gp")
}

// Load reads config.yaml from dir (missing file is fine) and applies
// GP_* environment overrides. Keys map to env vars by upcasing and
// replacing dashes: auth-url becomes GP_AUTH_URL.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, "config.yaml"))
	v.SetConfigType("yaml")

	v.SetDefault("backend", BackendPostgres)
	v.SetDefault("local-db", filepath.Join(dir, "gp.db"))
	v.SetDefault("session-file", filepath.Join(dir, "session.json"))

	v.SetEnvPrefix("GP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper has seen; bind the ones
	// without defaults explicitly.
	for _, key := range []string{"auth-url", "anon-key", "store-dsn"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config.yaml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendPostgres, BackendSQLite, BackendMemory:
		return nil
	default:
		return fmt.Errorf("backend: %q is invalid (valid values: postgres, sqlite, memory)", c.Backend)
	}
}
