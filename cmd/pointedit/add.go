// ABOUTME: Point add command
// ABOUTME: Appends a point with a default or explicit label

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/pointedit/internal/ui"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:     "add <latitude> <longitude>",
	Aliases: []string{"a"},
	Short:   "Add a point",
	Long: `Add a point to the end of the list.

Without --label the point is named "Point N", where N is the new length.

Examples:
  pointedit add 41.8781 -87.6298
  pointedit add 41.8781 -87.6298 --label chicago`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := parseLocation(args[0], args[1])
		if err != nil {
			return err
		}

		label, _ := cmd.Flags().GetString("label")
		index, point, err := session.Add(cmd.Context(), loc, label)
		if err != nil {
			return fmt.Errorf("failed to add point: %w", err)
		}

		color.Green("✓ Added point %d", index+1)
		fmt.Println(ui.FormatPoint(index, point))
		return nil
	},
}

func init() {
	addCmd.Flags().StringP("label", "l", "", "point label (e.g., 'chicago')")
	addCmd.Flags().SetInterspersed(false)

	rootCmd.AddCommand(addCmd)
}
