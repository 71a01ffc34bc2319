package main

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestNoStoreCommands(t *testing.T) {
	tests := []struct {
		name string
		cmd  *cobra.Command
		want bool
	}{
		{"login", loginCmd, true},
		{"signup", signupCmd, true},
		{"logout", logoutCmd, true},
		{"whoami", whoamiCmd, true},
		{"version", versionCmd, true},
		{"goal list", goalListCmd, false},
		{"monthly list", monthlyListCmd, false},
		{"step add", stepAddCmd, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNoStoreCommand(tt.cmd); got != tt.want {
				t.Fatalf("isNoStoreCommand(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestAllCommandsRegistered(t *testing.T) {
	want := []string{"login", "signup", "logout", "whoami", "goal", "monthly", "weekly", "step", "config", "version"}
	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Fatalf("command %q not registered on root", name)
		}
	}
}
