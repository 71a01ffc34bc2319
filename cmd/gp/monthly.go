package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sidworks/gp/internal/planner"
	"github.com/sidworks/gp/internal/ui"
)

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Manage monthly goals",
}

var monthlyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List monthly goals grouped by their yearly goal",
	Run: func(cmd *cobra.Command, args []string) {
		p := requirePlanner()

		monthly, err := p.ListMonthly(rootCtx)
		if err != nil {
			FatalError("%v", err)
		}
		if len(monthly) == 0 {
			fmt.Println("No monthly goals yet. Create one with 'gp monthly create'.")
			return
		}
		yearly, err := p.ListYearly(rootCtx)
		if err != nil {
			FatalError("%v", err)
		}

		for _, group := range planner.GroupMonthlyByYearly(monthly, yearly) {
			fmt.Println(ui.RenderHeader(group.YearlyTitle))
			for _, m := range group.Goals {
				fmt.Printf("  %s%s  %s  %s  %s\n",
					ui.TreeChild,
					m.MonthDate.Format("2006-01"),
					ui.RenderStatus(string(m.Status)),
					m.Title,
					ui.RenderMuted(m.ID),
				)
			}
		}
	},
}

var monthlyCreateCmd = &cobra.Command{
	Use:   "create <yearly-goal-id> <title>",
	Short: "Create a monthly goal under a yearly goal",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		p := requirePlanner()

		month := time.Now()
		if raw, _ := cmd.Flags().GetString("month"); raw != "" {
			var err error
			month, err = time.Parse("2006-01", raw)
			if err != nil {
				FatalError("month must look like 2026-03, got %q", raw)
			}
		}
		objective, _ := cmd.Flags().GetString("objective")
		metric, _ := cmd.Flags().GetString("metric")

		goal, err := p.CreateMonthly(rootCtx, planner.MonthlyInput{
			YearlyGoalID:  args[0],
			Title:         args[1],
			MonthDate:     month,
			Objective:     objective,
			SuccessMetric: metric,
		})
		if err != nil {
			FatalError("%v", err)
		}
		fmt.Printf("Created monthly goal %s for %s\n", goal.ID, goal.MonthDate.Format("January 2006"))
	},
}

var monthlyReviewCmd = &cobra.Command{
	Use:   "review <id> [notes]",
	Short: "Record end-of-month review notes",
	Long: `Record end-of-month review notes on a monthly goal. With no notes
argument, the goal's current notes are shown instead.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		p := requirePlanner()

		if len(args) == 1 {
			goal, err := p.GetMonthly(rootCtx, args[0])
			if err != nil {
				FatalError("%v", err)
			}
			if goal.ReviewNotes == "" {
				fmt.Println("No review notes yet")
				return
			}
			fmt.Println(goal.ReviewNotes)
			return
		}

		if err := p.SetReviewNotes(rootCtx, args[0], args[1]); err != nil {
			FatalError("%v", err)
		}
		fmt.Printf("Recorded review notes on %s\n", args[0])
	},
}

var monthlyStatusCmd = &cobra.Command{
	Use:   "status <id> <planned|active|completed|carried_forward>",
	Short: "Set a monthly goal's status",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		p := requirePlanner()
		status, err := p.SetMonthlyStatus(rootCtx, args[0], args[1])
		if err != nil {
			FatalError("%v", err)
		}
		fmt.Printf("%s is now %s\n", args[0], ui.RenderStatus(string(status)))
	},
}

func init() {
	monthlyCreateCmd.Flags().StringP("month", "m", "", "Target month as YYYY-MM (defaults to this month)")
	monthlyCreateCmd.Flags().String("objective", "", "Objective text")
	monthlyCreateCmd.Flags().String("metric", "", "Success metric")

	monthlyCmd.AddCommand(monthlyListCmd)
	monthlyCmd.AddCommand(monthlyCreateCmd)
	monthlyCmd.AddCommand(monthlyReviewCmd)
	monthlyCmd.AddCommand(monthlyStatusCmd)
	rootCmd.AddCommand(monthlyCmd)
}
