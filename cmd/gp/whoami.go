package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sidworks/gp/internal/gate"
	"github.com/sidworks/gp/internal/profile"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := sessionGate.Check(rootCtx); err != nil {
			WarnError("session check: %v", err)
		}
		if sessionGate.State() != gate.Authenticated {
			fmt.Println("Not signed in")
			return
		}
		id := sessionGate.Identity()
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s %s\n", green("●"), profile.DisplayName(*id))
		fmt.Printf("  email: %s\n", id.Email)
		fmt.Printf("  id:    %s\n", id.ID)
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
