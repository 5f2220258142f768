// ABOUTME: Point move command
// ABOUTME: Replaces a point's location and keeps its label

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/pointedit/internal/points"
	"github.com/harper/pointedit/internal/ui"
	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:     "move <index> <latitude> <longitude>",
	Aliases: []string{"mv"},
	Short:   "Move a point to a new location",
	Long: `Move a point to a new location. The label is kept.

Examples:
  pointedit move 2 41.8800 -87.6300`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		loc, err := parseLocation(args[1], args[2])
		if err != nil {
			return err
		}

		move, err := points.NewMovePoint(index, loc)
		if err != nil {
			return err
		}
		updated, err := session.Dispatch(cmd.Context(), move)
		if err != nil {
			return fmt.Errorf("failed to move point: %w", err)
		}

		color.Green("✓ Moved point %d", index+1)
		fmt.Println(ui.FormatPoint(index, updated[index]))
		return nil
	},
}

func init() {
	moveCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(moveCmd)
}
