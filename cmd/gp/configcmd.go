package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sidworks/gp/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and bootstrap gp configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config.yaml",
	Long: `Write a starter config.yaml into the gp directory, seeded from any
flags passed here. Refuses to overwrite an existing file.`,
	Run: func(cmd *cobra.Command, args []string) {
		seed := &config.Config{}
		seed.AuthURL, _ = cmd.Flags().GetString("auth-url")
		seed.AnonKey, _ = cmd.Flags().GetString("anon-key")
		seed.Backend, _ = cmd.Flags().GetString("backend")
		seed.StoreDSN, _ = cmd.Flags().GetString("store-dsn")

		path, err := config.WriteStarter(config.Dir(), seed)
		if err != nil {
			FatalError("%v", err)
		}
		fmt.Printf("Wrote %s\n", path)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("auth-url:     %s\n", orUnset(cfg.AuthURL))
		fmt.Printf("anon-key:     %s\n", redact(cfg.AnonKey))
		fmt.Printf("backend:      %s\n", cfg.Backend)
		fmt.Printf("store-dsn:    %s\n", redact(cfg.StoreDSN))
		fmt.Printf("local-db:     %s\n", cfg.LocalDB)
		fmt.Printf("session-file: %s\n", cfg.SessionFile)
	},
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

// redact keeps enough of a secret to recognize it without exposing it.
func redact(s string) string {
	if s == "" {
		return "(unset)"
	}
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

func init() {
	configInitCmd.Flags().String("auth-url", "", "Auth endpoint base URL")
	configInitCmd.Flags().String("anon-key", "", "Application anon key")
	configInitCmd.Flags().String("backend", "", "postgres, sqlite, or memory")
	configInitCmd.Flags().String("store-dsn", "", "Postgres connection string")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
