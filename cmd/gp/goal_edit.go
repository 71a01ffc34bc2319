package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sidworks/gp/internal/storage"
	"github.com/sidworks/gp/internal/validation"
)

var goalEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit fields of a yearly goal",
	Long: `Edit fields of a yearly goal. Only flags you pass are changed;
everything else is left as stored.`,
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
			"category":  "category",
			"smart":     "smart_statement",
			"benefits":  "benefits_text",
			"obstacles": "obstacles_text",
			"solutions": "solutions_text",
		} {
			if cmd.Flags().Changed(flag) {
				val, _ := cmd.Flags().GetString(flag)
				updates[col] = validation.Optional(val)
			}
		}
		if cmd.Flags().Changed("year") {
			year, _ := cmd.Flags().GetInt("year")
			updates["year"] = year
		}
		if len(updates) == 0 {
			FatalErrorWithHint("nothing to change", "Pass at least one field flag, e.g. --title")
		}

		if err := p.UpdateYearly(rootCtx, args[0], updates); err != nil {
			FatalError("%v", err)
		}
		fmt.Printf("Updated %s (%d field(s))\n", args[0], len(updates))
	},
}

func init() {
	goalEditCmd.Flags().String("title", "", "New title")
	goalEditCmd.Flags().String("category", "", "New category")
	goalEditCmd.Flags().Int("year", 0, "New target year")
	goalEditCmd.Flags().String("smart", "", "New SMART statement")
	goalEditCmd.Flags().String("benefits", "", "New benefits text")
	goalEditCmd.Flags().String("obstacles", "", "New obstacles text")
	goalEditCmd.Flags().String("solutions", "", "New solutions text")
	goalCmd.AddCommand(goalEditCmd)
}
