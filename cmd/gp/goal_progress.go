package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sidworks/gp/internal/types"
	"github.com/sidworks/gp/internal/ui"
)

var goalProgressCmd = &cobra.Command{
	Use:   "progress <id> <percent>",
	Short: "Set a yearly goal's progress",
	Long: `Set a yearly goal's progress as a percentage. Values outside
0-100 are clamped, not rejected.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		p := requirePlanner()
		pct, err := strconv.Atoi(args[1])
		if err != nil {
			FatalError("percent must be a number, got %q", args[1])
		}

		snap := yearlySnapshot(p)
		if _, err := snap.Refresh(rootCtx); err != nil {
			FatalError("%v", err)
		}
		stored, err := p.SetYearlyProgress(rootCtx, args[0], pct)
		if err != nil {
			FatalError("%v", err)
		}
		// The store confirmed exactly this value, so patch the listing
		// locally instead of refetching it.
		goals := snap.Patch(func(goals []*types.YearlyGoal) []*types.YearlyGoal {
			for _, g := range goals {
				if g.ID == args[0] {
					g.ProgressPercent = stored
				}
			}
			return goals
		})
		fmt.Printf("%s %d%%\n", ui.ProgressBar(stored, 20), stored)
		renderYearlyList(goals)
	},
}

var goalStatusCmd = &cobra.Command{
	Use:   "status <id> <active|paused|completed|archived>",
	Short: "Set a yearly goal's status",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		p := requirePlanner()
		status, err := p.SetYearlyStatus(rootCtx, args[0], args[1])
		if err != nil {
			FatalError("%v", err)
		}
		fmt.Printf("%s is now %s\n", args[0], ui.RenderStatus(string(status)))
	},
}

func init() {
	goalCmd.AddCommand(goalProgressCmd)
	goalCmd.AddCommand(goalStatusCmd)
}
