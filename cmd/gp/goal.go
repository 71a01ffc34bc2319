package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sidworks/gp/internal/planner"
	"github.com/sidworks/gp/internal/planner/syncer"
	"github.com/sidworks/gp/internal/types"
	"github.com/sidworks/gp/internal/ui"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage yearly goals",
}

// yearlySnapshot wraps the yearly listing in the refetch-after-write
// discipline; mutations go through Mutate so the rendered listing always
// reflects what the store holds, not what we think we wrote.
func yearlySnapshot(p *planner.Planner) *syncer.Snapshot[[]*types.YearlyGoal] {
	return syncer.New(p.ListYearly)
}

func renderYearlyList(goals []*types.YearlyGoal) {
	if len(goals) == 0 {
		fmt.Println("No yearly goals yet. Create one with 'gp goal create'.")
		return
	}
	for _, g := range goals {
		fmt.Printf("%s %s %3d%%  %s  %s\n",
			ui.ProgressBar(g.ProgressPercent, 10),
			ui.RenderStatus(string(g.Status)),
			g.ProgressPercent,
			g.Title,
			ui.RenderMuted(g.ID),
		)
	}
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your yearly goals, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		p := requirePlanner()
		goals, err := yearlySnapshot(p).Refresh(rootCtx)
		if err != nil {
			FatalError("%v", err)
		}
		renderYearlyList(goals)
	},
}

func init() {
	goalCmd.AddCommand(goalListCmd)
	rootCmd.AddCommand(goalCmd)
}
