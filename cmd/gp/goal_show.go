package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sidworks/gp/internal/ui"
)

var goalShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a yearly goal's full sheet",
	Long: `Show a yearly goal's full sheet: SMART statement, benefits,
obstacles, solutions, progress, and the monthly goals underneath it.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := requirePlanner()
		goal, err := p.GetYearly(rootCtx, args[0])
		if err != nil {
			FatalError("%v", err)
		}

		fmt.Printf("%s %s\n", ui.RenderHeader(goal.Title), ui.RenderMuted("("+goal.ID+")"))
		fmt.Printf("  year:     %d\n", goal.Year)
		if goal.Category != "" {
			fmt.Printf("  category: %s\n", goal.Category)
		}
		fmt.Printf("  status:   %s\n", ui.RenderStatus(string(goal.Status)))
		fmt.Printf("  progress: %s %d%%\n", ui.ProgressBar(goal.ProgressPercent, 20), goal.ProgressPercent)

		sheet := []struct{ label, text string }{
			{"SMART statement", goal.SmartStatement},
			{"Benefits", goal.BenefitsText},
			{"Obstacles", goal.ObstaclesText},
			{"Solutions", goal.SolutionsText},
		}
		for _, s := range sheet {
			if s.text == "" {
				continue
			}
			fmt.Printf("\n%s\n  %s\n", ui.RenderHeader(s.label), s.text)
		}

		monthly, err := p.ListMonthlyByYearly(rootCtx, goal.ID)
		if err != nil {
			FatalError("%v", err)
		}
		if len(monthly) > 0 {
			fmt.Printf("\n%s\n", ui.RenderHeader("Monthly goals"))
			for _, m := range monthly {
				fmt.Printf("  %s%s  %s  %s\n",
					ui.TreeChild,
					m.MonthDate.Format("2006-01"),
					m.Title,
					ui.RenderMuted(m.ID),
				)
			}
		}
	},
}

func init() {
	goalCmd.AddCommand(goalShowCmd)
}
