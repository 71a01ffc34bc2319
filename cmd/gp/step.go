package main

import (
	"fmt"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/sidworks/gp/internal/planner"
	"github.com/sidworks/gp/internal/ui"
)

var stepCmd = &cobra.Command{
	Use:   "step",
	Short: "Manage baby steps",
}

var stepListCmd = &cobra.Command{
	Use:   "list <weekly-goal-id>",
	Short: "List a weekly goal's baby steps in order",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := requirePlanner()
		steps, err := p.ListSteps(rootCtx, args[0])
		if err != nil {
			FatalError("%v", err)
		}
		if len(steps) == 0 {
			fmt.Println("No steps yet. Add one with 'gp step add'.")
			return
		}
		for _, s := range steps {
			due := ""
			if s.DueDate != nil {
				due = "  due " + s.DueDate.Format("Jan 2")
				if s.Status != "done" && s.DueDate.Before(time.Now()) {
					due = "  " + ui.FailStyle.Render("overdue "+s.DueDate.Format("Jan 2"))
				}
			}
			fmt.Printf("%2d. %s %s  %s%s  %s\n",
				s.Position,
				ui.RenderStatus(string(s.Status)),
				ui.RenderPriority(s.Priority),
				s.Title,
				due,
				ui.RenderMuted(s.ID),
			)
		}
	},
}

var stepAddCmd = &cobra.Command{
	Use:   "add <weekly-goal-id> <title>",
	Short: "Add a baby step to a weekly goal",
	Long: `Add a baby step to a weekly goal. Steps keep the order they were
added in.

The --due flag accepts natural language as well as dates:
  gp step add w-123 "book track time" --due "next friday"
  gp step add w-123 "buy shoes" --due 2026-04-10`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		p := requirePlanner()

		in := planner.StepInput{WeeklyGoalID: args[0], Title: args[1]}
		in.Notes, _ = cmd.Flags().GetString("notes")
		in.Priority, _ = cmd.Flags().GetString("priority")
		if raw, _ := cmd.Flags().GetString("due"); raw != "" {
			due, err := parseDue(raw)
			if err != nil {
				FatalError("%v", err)
			}
			in.DueDate = &due
		}

		step, err := p.CreateStep(rootCtx, in)
		if err != nil {
			FatalError("%v", err)
		}
		fmt.Printf("Added step %d: %s (%s)\n", step.Position, step.Title, step.ID)
	},
}

// parseDue accepts YYYY-MM-DD or natural language ("tomorrow", "next friday").
func parseDue(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	result, err := w.Parse(raw, time.Now())
	if err != nil || result == nil {
		return time.Time{}, fmt.Errorf("could not understand due date %q", raw)
	}
	t := result.Time
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

var stepStatusCmd = &cobra.Command{
	Use:   "status <id> <todo|in_progress|done>",
	Short: "Set a baby step's status",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		p := requirePlanner()
		status, err := p.SetStepStatus(rootCtx, args[0], args[1])
		if err != nil {
			FatalError("%v", err)
		}
		fmt.Printf("%s is now %s\n", args[0], ui.RenderStatus(string(status)))
	},
}

var stepPriorityCmd = &cobra.Command{
	Use:   "priority <id> <low|medium|high>",
	Short: "Set a baby step's priority",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		p := requirePlanner()
		priority, err := p.SetStepPriority(rootCtx, args[0], args[1])
		if err != nil {
			FatalError("%v", err)
		}
		fmt.Printf("%s is now %s priority\n", args[0], ui.RenderPriority(priority))
	},
}

var stepDueCmd = &cobra.Command{
	Use:   "due <id> [date]",
	Short: "Set or clear a baby step's due date",
	Long: `Set a baby step's due date, in natural language or YYYY-MM-DD.
With no date argument, or with --clear, the due date is removed.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		p := requirePlanner()

		clear, _ := cmd.Flags().GetBool("clear")
		if clear || len(args) == 1 {
			if err := p.SetStepDue(rootCtx, args[0], nil); err != nil {
				FatalError("%v", err)
			}
			fmt.Printf("Cleared due date on %s\n", args[0])
			return
		}

		due, err := parseDue(args[1])
		if err != nil {
			FatalError("%v", err)
		}
		if err := p.SetStepDue(rootCtx, args[0], &due); err != nil {
			FatalError("%v", err)
		}
		fmt.Printf("%s due %s\n", args[0], due.Format("Jan 2, 2006"))
	},
}

func init() {
	stepAddCmd.Flags().String("notes", "", "Extra notes")
	stepAddCmd.Flags().StringP("priority", "p", "", "low, medium, or high (default medium)")
	stepAddCmd.Flags().String("due", "", "Due date (natural language or YYYY-MM-DD)")
	stepDueCmd.Flags().Bool("clear", false, "Remove the due date")

	stepCmd.AddCommand(stepListCmd)
	stepCmd.AddCommand(stepAddCmd)
	stepCmd.AddCommand(stepStatusCmd)
	stepCmd.AddCommand(stepPriorityCmd)
	stepCmd.AddCommand(stepDueCmd)
	rootCmd.AddCommand(stepCmd)
}
