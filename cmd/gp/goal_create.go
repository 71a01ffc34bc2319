package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/sidworks/gp/internal/planner"
	"github.com/sidworks/gp/internal/types"
)

var goalCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a yearly goal",
	Long: `Create a yearly goal.

With a title argument the goal is created directly from flags. Without
one, an interactive form walks through the full goal sheet: category,
SMART statement, benefits, obstacles, and planned solutions.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p := requirePlanner()

		var in planner.YearlyInput
		if len(args) == 1 {
			in.Title = args[0]
			in.Category, _ = cmd.Flags().GetString("category")
			in.Year, _ = cmd.Flags().GetInt("year")
			in.SmartStatement, _ = cmd.Flags().GetString("smart")
			if strings.TrimSpace(in.SmartStatement) == "" {
				FatalErrorWithHint("SMART statement is required",
					"Pass --smart \"...\" or run 'gp goal create' without a title for the interactive form")
			}
		} else {
			var err error
			in, err = goalCreateForm()
			if err != nil {
				FatalError("%v", err)
			}
		}

		var goal *types.YearlyGoal
		goals, err := yearlySnapshot(p).Mutate(rootCtx, func(ctx context.Context) error {
			var cerr error
			goal, cerr = p.CreateYearly(ctx, in)
			return cerr
		})
		if err != nil {
			FatalError("%v", err)
		}
		fmt.Printf("Created yearly goal %s: %s\n", goal.ID, goal.Title)
		renderYearlyList(goals)
	},
}

func goalCreateForm() (planner.YearlyInput, error) {
	var in planner.YearlyInput
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("e.g., Run a marathon").
				Value(&in.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),

			huh.NewInput().
				Title("Category").
				Description("health, career, finance, ... (optional)").
				Value(&in.Category),

			huh.NewText().
				Title("SMART statement").
				Description("Specific, measurable phrasing of the goal").
				Value(&in.SmartStatement).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("SMART statement is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Benefits").
				Description("What you gain by reaching it").
				Value(&in.Benefits),

			huh.NewText().
				Title("Obstacles").
				Description("What stands in the way").
				Value(&in.Obstacles),

			huh.NewText().
				Title("Solutions").
				Description("How you plan to get past the obstacles").
				Value(&in.Solutions),
		),
	)
	if err := form.Run(); err != nil {
		return planner.YearlyInput{}, err
	}
	return in, nil
}

func init() {
	goalCreateCmd.Flags().StringP("category", "c", "", "Goal category")
	goalCreateCmd.Flags().Int("year", 0, "Target year (defaults to the current year)")
	goalCreateCmd.Flags().String("smart", "", "SMART statement")
	goalCmd.AddCommand(goalCreateCmd)
}
