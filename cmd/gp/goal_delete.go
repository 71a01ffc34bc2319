package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/sidworks/gp/internal/storage"
)

var goalDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a yearly goal",
	Long: `Delete a yearly goal. Deletion only exists at the yearly level;
monthly goals, weekly goals, and steps are removed with their root.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := requirePlanner()

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			goal, err := p.GetYearly(rootCtx, args[0])
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					FatalError("no yearly goal with id %s", args[0])
				}
				FatalError("%v", err)
			}
			var confirmed bool
			prompt := huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q and everything under it?", goal.Title)).
				Value(&confirmed)
			if err := prompt.Run(); err != nil {
				FatalError("%v", err)
			}
			if !confirmed {
				fmt.Println("Aborted")
				return
			}
		}

		goals, err := yearlySnapshot(p).Mutate(rootCtx, func(ctx context.Context) error {
			return p.DeleteYearly(ctx, args[0])
		})
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				FatalError("no yearly goal with id %s", args[0])
			}
			FatalError("%v", err)
		}
		fmt.Printf("Deleted %s\n", args[0])
		renderYearlyList(goals)
	},
}

func init() {
	goalDeleteCmd.Flags().BoolP("force", "f", false, "Skip the confirmation prompt")
	goalCmd.AddCommand(goalDeleteCmd)
}
