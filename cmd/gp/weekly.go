package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sidworks/gp/internal/planner"
	"github.com/sidworks/gp/internal/storage"
	"github.com/sidworks/gp/internal/types"
	"github.com/sidworks/gp/internal/ui"
	"github.com/sidworks/gp/internal/validation"
)

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Manage weekly goals",
}

var weeklyListCmd = &cobra.Command{
	Use:   "list [monthly-goal-id]",
	Short: "List weekly goals, most recent week first",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := requirePlanner()

		var (
			goals []*types.WeeklyGoal
			err   error
		)
		if len(args) == 1 {
			goals, err = p.ListWeeklyByMonthly(rootCtx, args[0])
		} else {
			goals, err = p.ListWeekly(rootCtx)
		}
		if err != nil {
			FatalError("%v", err)
		}
		if len(goals) == 0 {
			fmt.Println("No weekly goals yet. Create one with 'gp weekly set'.")
			return
		}
		for _, w := range goals {
			fmt.Printf("wk %s  %s  %s  %s\n",
				w.WeekStartDate.Format("2006-01-02"),
				ui.RenderStatus(string(w.Status)),
				w.Title,
				ui.RenderMuted(w.ID),
			)
		}
	},
}

var weeklySetCmd = &cobra.Command{
	Use:   "set <monthly-goal-id> <title>",
	Short: "Set this week's goal under a monthly goal",
	Long: `Set a weekly goal under a monthly goal. The week defaults to the
current week; pass --week to plan ahead. Week anchors always snap to
Monday.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		p := requirePlanner()

		week := time.Now()
		if raw, _ := cmd.Flags().GetString("week"); raw != "" {
			var err error
			week, err = time.Parse("2006-01-02", raw)
			if err != nil {
				FatalError("week must look like 2026-03-16, got %q", raw)
			}
		}
		objective, _ := cmd.Flags().GetString("objective")
		obstaclePlan, _ := cmd.Flags().GetString("obstacle-plan")

		goal, err := p.CreateWeekly(rootCtx, planner.WeeklyInput{
			MonthlyGoalID: args[0],
			Title:         args[1],
			WeekStartDate: week,
			Objective:     objective,
			ObstaclePlan:  obstaclePlan,
		})
		if err != nil {
			FatalError("%v", err)
		}
		fmt.Printf("Created weekly goal %s for week of %s\n", goal.ID, goal.WeekStartDate.Format("Jan 2"))
	},
}

var weeklyUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a weekly goal's execution fields",
	Long: `Update a weekly goal. Only flags you pass are changed; everything
else is left as stored.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := requirePlanner()

		updates := storage.Fields{}
		if cmd.Flags().Changed("title") {
			raw, _ := cmd.Flags().GetString("title")
			title, err := validation.Required("title", raw)
			if err != nil {
				FatalError("%v", err)
			}
			updates["title"] = title
		}
		for flag, col := range map[string]string{
			"objective":     "objective_text",
			"obstacle-plan": "obstacle_plan",
		} {
			if cmd.Flags().Changed(flag) {
				val, _ := cmd.Flags().GetString(flag)
				updates[col] = validation.Optional(val)
			}
		}
		if cmd.Flags().Changed("status") {
			raw, _ := cmd.Flags().GetString("status")
			status, err := types.ParseWeeklyStatus(raw)
			if err != nil {
				FatalError("%v", err)
			}
			updates["status"] = status
		}
		if cmd.Flags().Changed("progress") {
			pct, _ := cmd.Flags().GetInt("progress")
			updates["progress_percent"] = types.ClampProgress(pct)
		}
		if len(updates) == 0 {
			FatalErrorWithHint("nothing to change", "Pass at least one field flag, e.g. --progress 50")
		}

		if err := p.UpdateWeekly(rootCtx, args[0], updates); err != nil {
			FatalError("%v", err)
		}
		fmt.Printf("Updated %s (%d field(s))\n", args[0], len(updates))
	},
}

var weeklyStatusCmd = &cobra.Command{
	Use:   "status <id> <planned|active|completed|missed>",
	Short: "Set a weekly goal's status",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		p := requirePlanner()
		status, err := p.SetWeeklyStatus(rootCtx, args[0], args[1])
		if err != nil {
			FatalError("%v", err)
		}
		fmt.Printf("%s is now %s\n", args[0], ui.RenderStatus(string(status)))
	},
}

func init() {
	weeklySetCmd.Flags().StringP("week", "w", "", "Week start date as YYYY-MM-DD (defaults to this week)")
	weeklySetCmd.Flags().String("objective", "", "Objective text")
	weeklySetCmd.Flags().String("obstacle-plan", "", "Plan for this week's obstacles")

	weeklyUpdateCmd.Flags().String("title", "", "New title")
	weeklyUpdateCmd.Flags().String("objective", "", "New objective text")
	weeklyUpdateCmd.Flags().String("obstacle-plan", "", "New obstacle plan")
	weeklyUpdateCmd.Flags().String("status", "", "New status (planned|active|completed|missed)")
	weeklyUpdateCmd.Flags().Int("progress", 0, "Progress percent, clamped to 0-100")

	weeklyCmd.AddCommand(weeklyListCmd)
	weeklyCmd.AddCommand(weeklySetCmd)
	weeklyCmd.AddCommand(weeklyUpdateCmd)
	weeklyCmd.AddCommand(weeklyStatusCmd)
	rootCmd.AddCommand(weeklyCmd)
}
