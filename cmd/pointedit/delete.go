// ABOUTME: Point delete command
// ABOUTME: Removes a point; later points shift down by one

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/pointedit/internal/points"
	"github.com/harper/pointedit/internal/ui"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <index>",
	Aliases: []string{"rm"},
	Short:   "Delete a point",
	Long: `Delete a point. Points after it move down by one index.

Examples:
  pointedit delete 2
  pointedit delete 2 --confirm`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}

		pts := session.Points()
		if !pts.InRange(index) {
			return fmt.Errorf("%w: %d (have %d points)", points.ErrIndexOutOfRange, index+1, len(pts))
		}

		if !confirmed(cmd, fmt.Sprintf("Delete %s?", ui.FormatPoint(index, pts[index]))) {
			return nil
		}

		if _, err := session.Dispatch(cmd.Context(), points.NewDeletePoint(index)); err != nil {
			return fmt.Errorf("failed to delete point: %w", err)
		}

		color.Green("✓ Deleted point %d (%s)", index+1, pts[index].Label)
		return nil
	},
}

func init() {
	deleteCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(deleteCmd)
}
