package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sidworks/gp/internal/auth"
	"github.com/sidworks/gp/internal/config"
	"github.com/sidworks/gp/internal/gate"
	"github.com/sidworks/gp/internal/planner"
	"github.com/sidworks/gp/internal/profile"
	"github.com/sidworks/gp/internal/storage"
	"github.com/sidworks/gp/internal/storage/memory"
	"github.com/sidworks/gp/internal/storage/postgres"
	"github.com/sidworks/gp/internal/storage/sqlite"
	"github.com/sidworks/gp/internal/telemetry"
)

// Version and Build are set at link time.
var (
	Version = "0.3.0"
	Build   = "dev"
)

var (
	cfg         *config.Config
	authClient  auth.Client
	sessionGate *gate.Gate
	store       storage.RemoteStore

	// Signal-aware context for graceful cancellation
	rootCtx    context.Context
	rootCancel context.CancelFunc
)

// noStoreCommands run without opening the store: auth-only commands plus
// cobra's own plumbing.
var noStoreCommands = map[string]bool{
	"login":      true,
	"signup":     true,
	"logout":     true,
	"whoami":     true,
	"version":    true,
	"help":       true,
	"completion": true,
	"config":     true,
}

func isNoStoreCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if noStoreCommands[c.Name()] {
			return true
		}
	}
	return false
}

var rootCmd = &cobra.Command{
	Use:   "gp",
	Short: "gp - Personal goal planner",
	Long: `Plan a year, break it into months, weeks, and baby steps.

All data lives in a per-user slice of a remote store; sign in once with
'gp login' and every command after that works on your own goals.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("gp version %s (%s)\n", Version, Build)
			return
		}
		_ = cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupSignalContext()

		var err error
		cfg, err = config.Load(config.Dir())
		if err != nil {
			FatalError("%v", err)
		}

		if err := telemetry.Init(rootCtx, "gp", Version); err != nil {
			WarnError("telemetry init failed: %v", err)
		}

		authClient = newAuthClient()
		sessionGate = gate.New(authClient)

		if isNoStoreCommand(cmd) {
			return
		}
		openStore()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
}

func setupSignalContext() {
	rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newAuthClient() auth.Client {
	if cfg.AuthURL == "" {
		// Commands that never talk to the collaborator still construct the
		// gate; the client fails at call time with a pointed message.
		return auth.NewHTTPClient("http://unconfigured.invalid", "", cfg.SessionFile)
	}
	return auth.NewHTTPClient(cfg.AuthURL, cfg.AnonKey, cfg.SessionFile)
}

func openStore() {
	var (
		s   storage.RemoteStore
		err error
	)
	switch cfg.Backend {
	case config.BackendPostgres:
		if cfg.StoreDSN == "" {
			FatalErrorWithHint("no store configured",
				"Set store-dsn in "+config.Dir()+"/config.yaml or GP_STORE_DSN, or switch to the sqlite backend")
		}
		s, err = postgres.Open(rootCtx, cfg.StoreDSN)
	case config.BackendSQLite:
		s, err = sqlite.Open(rootCtx, cfg.LocalDB)
	case config.BackendMemory:
		s = memory.New()
	}
	if err != nil {
		FatalError("open %s store: %v", cfg.Backend, err)
	}
	store = telemetry.WrapStore(s)
}

func teardown() {
	if store != nil {
		if err := store.Close(); err != nil {
			WarnError("closing store: %v", err)
		}
		store = nil
	}
	if sessionGate != nil {
		sessionGate.Close()
		sessionGate = nil
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	telemetry.Shutdown(shutdownCtx)
	cancel()
	if rootCancel != nil {
		rootCancel()
	}
}

// requirePlanner resolves the session, provisions the profile row, and
// returns a planner bound to the signed-in user. Exits when there is no
// usable session.
func requirePlanner() *planner.Planner {
	if _, err := sessionGate.Check(rootCtx); err != nil {
		WarnError("session check: %v", err)
	}
	if d := sessionGate.Resolve(gate.HomePath); d.RedirectTo == gate.LoginPath {
		FatalErrorWithHint("not signed in", "Run 'gp login' first")
	}
	id := sessionGate.Identity()
	if _, err := profile.Ensure(rootCtx, store, *id); err != nil {
		FatalError("%v", err)
	}
	return planner.New(store, id.ID)
}

func main() {
	rootCmd.InitDefaultHelpCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version and exit")
}
