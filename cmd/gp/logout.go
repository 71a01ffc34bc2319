package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the cached session",
	Run: func(cmd *cobra.Command, args []string) {
		// The local session is dropped even when the collaborator can't be
		// reached; the failure is only worth a warning.
		if err := sessionGate.SignOut(rootCtx); err != nil {
			WarnError("%v", err)
		}
		fmt.Println("Signed out")
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
